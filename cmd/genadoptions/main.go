package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"
)

// Business-hour weights for adoption timestamps. Mornings and mid
// afternoons are the busiest, late evenings trail off.
var hourWeights = []struct {
	hour   int
	weight float64
}{
	{8, 0.05},
	{9, 0.12},
	{10, 0.15},
	{11, 0.15},
	{12, 0.12},
	{13, 0.08},
	{14, 0.12},
	{15, 0.15},
	{16, 0.15},
	{17, 0.12},
	{18, 0.08},
	{19, 0.03},
	{20, 0.01},
	{21, 0.01},
}

func main() {
	var out string
	var days int
	var minDaily int
	var maxDaily int
	var seed int64
	var weekendHeavy bool
	flag.StringVar(&out, "out", "adoptions.csv", "output CSV file")
	flag.IntVar(&days, "days", 180, "number of days to generate, ending today")
	flag.IntVar(&minDaily, "min-daily", 2, "minimum adoptions per weekday")
	flag.IntVar(&maxDaily, "max-daily", 9, "maximum adoptions per weekday")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.BoolVar(&weekendHeavy, "weekend-heavy", false, "concentrate roughly 70% of volume on weekends")
	flag.Parse()

	if err := generateAdoptions(out, days, minDaily, maxDaily, seed, weekendHeavy); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func generateAdoptions(out string, days, minDaily, maxDaily int, seed int64, weekendHeavy bool) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive, got %d", days)
	}
	if minDaily < 0 || maxDaily < minDaily {
		return fmt.Errorf("invalid daily range %d..%d", minDaily, maxDaily)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	rng := rand.New(rand.NewSource(seed))
	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Outcome", "AnimalNumber", "Species", "DateTime"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	total := 0
	animalSeq := 0
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		count := minDaily + rng.Intn(maxDaily-minDaily+1)
		if weekendHeavy && isWeekend(day.Weekday()) {
			// Six times the weekday draw lands roughly 70% of total
			// volume on the two weekend days.
			count *= 6
		}

		times := make([]time.Time, count)
		for i := range times {
			times[i] = day.Add(time.Duration(pickHour(rng))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		for _, ts := range times {
			animalSeq++
			record := []string{
				"Adoption",
				fmt.Sprintf("A%04d", animalSeq),
				pickSpecies(rng),
				ts.Format("2006-01-02 15:04:05"),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write record %d: %w", animalSeq, err)
			}
		}
		total += count
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	log.Printf("generated %d adoption records across %d days to %s", total, days, out)
	return nil
}

func pickHour(rng *rand.Rand) int {
	var totalWeight float64
	for _, hw := range hourWeights {
		totalWeight += hw.weight
	}
	target := rng.Float64() * totalWeight
	for _, hw := range hourWeights {
		target -= hw.weight
		if target < 0 {
			return hw.hour
		}
	}
	return hourWeights[len(hourWeights)-1].hour
}

func pickSpecies(rng *rand.Rand) string {
	roll := rng.Float64()
	switch {
	case roll < 0.60:
		return "Dog"
	case roll < 0.95:
		return "Cat"
	default:
		return "Other"
	}
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}
