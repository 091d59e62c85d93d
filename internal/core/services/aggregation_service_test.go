package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/services"
)

func adoption(t *testing.T, species, ts string) domain.AdoptionRecord {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", ts)
	require.NoError(t, err)
	return domain.NewAdoptionRecord("Adoption", "A0001", species, parsed)
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

// sampleRecordSet spans four dates, three weekdays, two months and three
// species: three Monday adoptions, one Tuesday, two Saturdays.
func sampleRecordSet(t *testing.T) *domain.RecordSet {
	t.Helper()
	return domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:00:00"),   // Monday
		adoption(t, "Dog", "2024-03-04 09:30:00"),   // Monday
		adoption(t, "Cat", "2024-03-04 14:00:00"),   // Monday
		adoption(t, "Dog", "2024-03-05 10:00:00"),   // Tuesday
		adoption(t, "Cat", "2024-03-09 11:00:00"),   // Saturday
		adoption(t, "Other", "2024-04-06 09:00:00"), // Saturday
	})
}

func weekdayFilter(w time.Weekday) domain.Filter {
	return domain.Filter{Weekday: &w}
}

func speciesFilter(s string) domain.Filter {
	return domain.Filter{Species: &s}
}

func TestAggregationService_CountByDate(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	counts := svc.CountByDate(rs, domain.Filter{})

	require.Len(t, counts, 4)
	assert.Equal(t, domain.DateCount{Date: date(t, "2024-03-04"), Count: 3}, counts[0])
	assert.Equal(t, domain.DateCount{Date: date(t, "2024-03-05"), Count: 1}, counts[1])
	assert.Equal(t, domain.DateCount{Date: date(t, "2024-03-09"), Count: 1}, counts[2])
	assert.Equal(t, domain.DateCount{Date: date(t, "2024-04-06"), Count: 1}, counts[3])
}

func TestAggregationService_CountByDate_Filtered(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	t.Run("species filter", func(t *testing.T) {
		counts := svc.CountByDate(rs, speciesFilter("Dog"))

		require.Len(t, counts, 2)
		assert.Equal(t, 2, counts[0].Count)
		assert.Equal(t, 1, counts[1].Count)
	})

	t.Run("weekday filter", func(t *testing.T) {
		counts := svc.CountByDate(rs, weekdayFilter(time.Saturday))

		require.Len(t, counts, 2)
		assert.Equal(t, date(t, "2024-03-09"), counts[0].Date)
		assert.Equal(t, date(t, "2024-04-06"), counts[1].Date)
	})

	t.Run("weekday and species compose with AND", func(t *testing.T) {
		saturday := time.Saturday
		cat := "Cat"
		counts := svc.CountByDate(rs, domain.Filter{Weekday: &saturday, Species: &cat})

		require.Len(t, counts, 1)
		assert.Equal(t, domain.DateCount{Date: date(t, "2024-03-09"), Count: 1}, counts[0])
	})

	t.Run("filter matching nothing yields empty", func(t *testing.T) {
		counts := svc.CountByDate(rs, speciesFilter("Hamster"))

		assert.Empty(t, counts)
	})
}

func TestAggregationService_EndToEndScenario(t *testing.T) {
	// Three records on one calendar date at hours 9, 9 and 14.
	svc := services.NewAggregationService()
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:05:00"),
		adoption(t, "Cat", "2024-03-04 09:45:00"),
		adoption(t, "Dog", "2024-03-04 14:10:00"),
	})

	hourly := svc.CountByHour(rs, domain.Filter{})
	require.Len(t, hourly, 2)
	assert.Equal(t, domain.HourCount{Hour: 9, Count: 2}, hourly[0])
	assert.Equal(t, domain.HourCount{Hour: 14, Count: 1}, hourly[1])

	daily := svc.CountByDate(rs, domain.Filter{})
	require.Len(t, daily, 1)
	assert.Equal(t, domain.DateCount{Date: date(t, "2024-03-04"), Count: 3}, daily[0])
}

func TestAggregationService_CountByWeekday(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	counts := svc.CountByWeekday(rs, domain.Filter{})

	// Always all seven weekdays, Monday first, zero-filled.
	require.Len(t, counts, 7)
	want := []domain.WeekdayCount{
		{Weekday: time.Monday, Count: 3},
		{Weekday: time.Tuesday, Count: 1},
		{Weekday: time.Wednesday, Count: 0},
		{Weekday: time.Thursday, Count: 0},
		{Weekday: time.Friday, Count: 0},
		{Weekday: time.Saturday, Count: 2},
		{Weekday: time.Sunday, Count: 0},
	}
	assert.Equal(t, want, counts)
}

func TestAggregationService_CountByWeekday_OrderIndependentOfInput(t *testing.T) {
	svc := services.NewAggregationService()
	// Saturday observed before Monday.
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Cat", "2024-03-09 11:00:00"), // Saturday
		adoption(t, "Dog", "2024-03-04 09:00:00"), // Monday
	})

	counts := svc.CountByWeekday(rs, domain.Filter{})

	require.Len(t, counts, 7)
	assert.Equal(t, time.Monday, counts[0].Weekday)
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, time.Saturday, counts[5].Weekday)
	assert.Equal(t, 1, counts[5].Count)
}

func TestAggregationService_CountByMonth(t *testing.T) {
	svc := services.NewAggregationService()
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:00:00"),
		adoption(t, "Cat", "2023-12-30 15:00:00"),
		adoption(t, "Dog", "2024-03-05 10:00:00"),
		adoption(t, "Dog", "2024-04-06 09:00:00"),
	})

	counts := svc.CountByMonth(rs, domain.Filter{})

	want := []domain.MonthCount{
		{Year: 2023, Month: time.December, Count: 1},
		{Year: 2024, Month: time.March, Count: 2},
		{Year: 2024, Month: time.April, Count: 1},
	}
	assert.Equal(t, want, counts)
}

func TestAggregationService_CountBySpecies(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	counts := svc.CountBySpecies(rs, domain.Filter{})

	want := []domain.SpeciesCount{
		{Species: "Dog", Count: 3},
		{Species: "Cat", Count: 2},
		{Species: "Other", Count: 1},
	}
	assert.Equal(t, want, counts)
}

func TestAggregationService_CountBySpecies_TiesAlphabetical(t *testing.T) {
	svc := services.NewAggregationService()
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Rabbit", "2024-03-04 09:00:00"),
		adoption(t, "Cat", "2024-03-04 10:00:00"),
	})

	counts := svc.CountBySpecies(rs, domain.Filter{})

	require.Len(t, counts, 2)
	assert.Equal(t, "Cat", counts[0].Species)
	assert.Equal(t, "Rabbit", counts[1].Species)
}

func TestAggregationService_Conservation(t *testing.T) {
	// For every grouping and filter, counts must sum to the size of the
	// filtered subset.
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)
	monday := time.Monday
	dog := "Dog"
	march := time.March

	filters := map[string]domain.Filter{
		"no filter":       {},
		"species":         {Species: &dog},
		"weekday":         {Weekday: &monday},
		"month":           {Month: &march},
		"weekday+species": {Weekday: &monday, Species: &dog},
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			matching := 0
			rs.Each(func(r domain.AdoptionRecord) {
				if filter.Matches(r) {
					matching++
				}
			})

			sumDates := 0
			for _, c := range svc.CountByDate(rs, filter) {
				sumDates += c.Count
			}
			sumHours := 0
			for _, c := range svc.CountByHour(rs, filter) {
				sumHours += c.Count
			}
			sumWeekdays := 0
			for _, c := range svc.CountByWeekday(rs, filter) {
				sumWeekdays += c.Count
			}
			sumMonths := 0
			for _, c := range svc.CountByMonth(rs, filter) {
				sumMonths += c.Count
			}
			sumSpecies := 0
			for _, c := range svc.CountBySpecies(rs, filter) {
				sumSpecies += c.Count
			}

			assert.Equal(t, matching, sumDates)
			assert.Equal(t, matching, sumHours)
			assert.Equal(t, matching, sumWeekdays)
			assert.Equal(t, matching, sumMonths)
			assert.Equal(t, matching, sumSpecies)
		})
	}
}

func TestAggregationService_HourlyMeans_Densified(t *testing.T) {
	svc := services.NewAggregationService()
	// Two distinct dates. Hour 9 has adoptions on only one of them, so its
	// mean divides by both days, not just the day that saw adoptions.
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:00:00"),
		adoption(t, "Cat", "2024-03-04 09:30:00"),
		adoption(t, "Dog", "2024-03-05 14:00:00"),
	})

	means := svc.HourlyMeans(rs, domain.Filter{})

	require.Len(t, means, 24)
	byHour := make(map[int]float64, 24)
	for _, m := range means {
		byHour[m.Hour] = m.Mean
	}
	assert.InDelta(t, 1.0, byHour[9], 1e-9)  // 2 adoptions over 2 days
	assert.InDelta(t, 0.5, byHour[14], 1e-9) // 1 adoption over 2 days
	assert.Equal(t, 0.0, byHour[0])
	assert.Equal(t, 0.0, byHour[23])

	// The densified grid covers dayCount x 24 cells, so the means must sum
	// to total records divided by the day count.
	var sum float64
	for _, m := range means {
		sum += m.Mean
	}
	assert.InDelta(t, 1.5, sum, 1e-9)
}

func TestAggregationService_HourlyMeans_EmptySubset(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	means := svc.HourlyMeans(rs, speciesFilter("Hamster"))

	require.Len(t, means, 24)
	for _, m := range means {
		assert.Equal(t, 0.0, m.Mean)
	}
}

func TestAggregationService_HourlyMeans_AllHoursAscending(t *testing.T) {
	svc := services.NewAggregationService()
	rs := sampleRecordSet(t)

	means := svc.HourlyMeans(rs, domain.Filter{})

	require.Len(t, means, 24)
	for h, m := range means {
		assert.Equal(t, h, m.Hour)
	}
}

func TestAggregationService_HourlyStats(t *testing.T) {
	svc := services.NewAggregationService()
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:00:00"),
		adoption(t, "Cat", "2024-03-04 09:30:00"),
		adoption(t, "Dog", "2024-03-05 14:00:00"),
	})

	stats := svc.HourlyStats(rs, domain.Filter{})

	// Hours 9, 9, 14: mean 32/3, sample stddev sqrt(50/3 / 2).
	assert.InDelta(t, 10.6667, stats.MeanHour, 0.001)
	assert.InDelta(t, 2.8868, stats.StdDevHour, 0.001)
}

func TestAggregationService_HourlyStats_Degenerate(t *testing.T) {
	svc := services.NewAggregationService()

	t.Run("empty set", func(t *testing.T) {
		stats := svc.HourlyStats(domain.NewRecordSet(nil), domain.Filter{})
		assert.Equal(t, domain.HourlyStats{}, stats)
	})

	t.Run("single record has zero stddev", func(t *testing.T) {
		rs := domain.NewRecordSet([]domain.AdoptionRecord{
			adoption(t, "Dog", "2024-03-04 09:00:00"),
		})
		stats := svc.HourlyStats(rs, domain.Filter{})
		assert.Equal(t, 9.0, stats.MeanHour)
		assert.Equal(t, 0.0, stats.StdDevHour)
	})
}

func TestAggregationService_Trend(t *testing.T) {
	svc := services.NewAggregationService()
	rs := domain.NewRecordSet([]domain.AdoptionRecord{
		adoption(t, "Dog", "2024-03-04 09:00:00"),
		adoption(t, "Dog", "2024-03-05 09:00:00"),
		adoption(t, "Cat", "2024-03-05 10:00:00"),
		adoption(t, "Dog", "2024-03-06 09:00:00"),
		adoption(t, "Cat", "2024-03-06 10:00:00"),
		adoption(t, "Other", "2024-03-06 11:00:00"),
	})

	t.Run("full range", func(t *testing.T) {
		line := svc.Trend(rs, domain.Filter{}, 0)

		// Daily counts 1, 2, 3 in date order.
		require.Len(t, line.Points, 3)
		assert.InDelta(t, 1.0, line.Slope, 1e-9)
		assert.InDelta(t, 1.0, line.Intercept, 1e-9)
		assert.Equal(t, domain.TrendIncreasing, line.Direction)
	})

	t.Run("calendar window keeps only recent dates", func(t *testing.T) {
		line := svc.Trend(rs, domain.Filter{}, 2)

		// Window ends at March 6, so March 4 falls outside and the fit
		// runs over counts 2, 3.
		require.Len(t, line.Points, 2)
		assert.Equal(t, date(t, "2024-03-05"), line.Points[0].Date)
		assert.InDelta(t, 1.0, line.Slope, 1e-9)
		assert.InDelta(t, 2.0, line.Intercept, 1e-9)
		assert.Equal(t, domain.TrendIncreasing, line.Direction)
	})

	t.Run("window wider than range keeps everything", func(t *testing.T) {
		line := svc.Trend(rs, domain.Filter{}, 365)
		require.Len(t, line.Points, 3)
	})
}
