package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shelterops/adoption-forecast/internal/adapters/secondary/csvfile"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
	"github.com/shelterops/adoption-forecast/internal/core/services"
	"github.com/shelterops/adoption-forecast/internal/infrastructure/logging"
)

func main() {
	var (
		file         string
		minutes      float64
		nonAdopting  float64
		counselors   int
		workdayHours float64
		weekday      string
		species      string
		month        int
		peak         bool
		asJSON       bool
	)

	flag.StringVar(&file, "file", "data/adoptions.csv", "adoption export to analyze")
	flag.Float64Var(&minutes, "minutes", domain.DefaultMinutesPerAdoption, "minutes per adoption")
	flag.Float64Var(&nonAdopting, "non-adopting", domain.DefaultNonAdoptingPercent, "non-adopting visitors as a percentage of adopters")
	flag.IntVar(&counselors, "counselors", domain.DefaultCounselorCount, "counselors on duty")
	flag.Float64Var(&workdayHours, "workday-hours", domain.DefaultWorkdayHours, "length of a counselor workday in hours")
	flag.StringVar(&weekday, "weekday", "", "only count adoptions on this weekday (Monday..Sunday)")
	flag.StringVar(&species, "species", "", "only count adoptions of this species (exact match)")
	flag.IntVar(&month, "month", 0, "only count adoptions in this month (1-12)")
	flag.BoolVar(&peak, "peak", false, "add a busiest-hour staffing estimate")
	flag.BoolVar(&asJSON, "json", false, "emit the report as JSON")
	flag.Parse()

	if err := run(file, minutes, nonAdopting, counselors, workdayHours, weekday, species, month, peak, asJSON); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

func run(file string, minutes, nonAdopting float64, counselors int, workdayHours float64, weekday, species string, month int, peak, asJSON bool) error {
	logCfg := logging.DefaultConfig()
	logCfg.Format = "text"
	logCfg.Level = "warn"
	logCfg.Output = os.Stderr
	logger := logging.NewLogger(logCfg)

	loader := csvfile.NewLoader(logger)
	recordSet, err := loader.Load(context.Background(), file)
	if err != nil {
		return err
	}

	filter, err := buildFilter(weekday, species, month)
	if err != nil {
		return err
	}

	aggregationService := services.NewAggregationService()
	workloadService := services.NewWorkloadService(aggregationService)
	datasetService := services.NewDatasetService(recordSet, file, aggregationService)

	params := ports.EstimateParams{
		Params: domain.WorkloadParams{
			MinutesPerAdoption: minutes,
			NonAdoptingPercent: nonAdopting,
			CounselorCount:     counselors,
			WorkdayHours:       workdayHours,
		},
		Filter: filter,
	}

	estimate, err := workloadService.Estimate(recordSet, params)
	if err != nil {
		return err
	}

	var peakEstimate *domain.PeakWorkloadResult
	if peak {
		peakEstimate, err = workloadService.EstimatePeak(recordSet, params)
		if err != nil {
			return err
		}
	}

	report := buildReport(datasetService, aggregationService, recordSet, filter, estimate, peakEstimate)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(os.Stdout, report, filter)
	return nil
}

func buildFilter(weekday, species string, month int) (domain.Filter, error) {
	var filter domain.Filter

	if weekday != "" {
		wd, err := domain.ParseWeekday(weekday)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %q", err, weekday)
		}
		filter.Weekday = &wd
	}
	if species != "" {
		filter.Species = &species
	}
	if month != 0 {
		m, err := domain.ParseMonth(month)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %d", err, month)
		}
		filter.Month = &m
	}

	return filter, nil
}

type hourTotal struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type weekdayTotal struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type trendSummary struct {
	Slope     float64 `json:"slope"`
	Direction string  `json:"direction"`
}

type estimateReport struct {
	DailyVolume           float64 `json:"dailyVolume"`
	MinutesPerAdoption    float64 `json:"minutesPerAdoption"`
	NonAdoptingPercent    float64 `json:"nonAdoptingPercent"`
	NonAdoptingMultiplier float64 `json:"nonAdoptingMultiplier"`
	ExpectedDailyGuests   float64 `json:"expectedDailyGuests"`
	TotalCounselorHours   float64 `json:"totalCounselorHours"`
	CounselorCount        int     `json:"counselorCount"`
	HoursPerCounselor     float64 `json:"hoursPerCounselor"`
	CapacityUtilization   float64 `json:"capacityUtilization"`
	CapacityStatus        string  `json:"capacityStatus"`
	PeakHour              *int    `json:"peakHour,omitempty"`
	PeakAdoptions         *int    `json:"peakAdoptions,omitempty"`
}

type forecastReport struct {
	Source        string          `json:"source"`
	RecordCount   int             `json:"recordCount"`
	DayCount      int             `json:"dayCount"`
	FirstDate     string          `json:"firstDate,omitempty"`
	LastDate      string          `json:"lastDate,omitempty"`
	Species       []string        `json:"species"`
	Weekdays      []weekdayTotal  `json:"weekdays"`
	BusiestHours  []hourTotal     `json:"busiestHours"`
	Trend         trendSummary    `json:"trend"`
	Estimate      estimateReport  `json:"estimate"`
	PeakEstimate  *estimateReport `json:"peakEstimate,omitempty"`
	FilterApplied bool            `json:"filterApplied"`
}

func buildReport(datasetService ports.DatasetService, aggregationService ports.AggregationService, rs *domain.RecordSet, filter domain.Filter, estimate *domain.WorkloadResult, peakEstimate *domain.PeakWorkloadResult) forecastReport {
	summary := datasetService.Summary()

	weekdays := make([]weekdayTotal, 0, 7)
	for _, wc := range aggregationService.CountByWeekday(rs, filter) {
		weekdays = append(weekdays, weekdayTotal{Weekday: wc.Weekday.String(), Count: wc.Count})
	}

	hours := aggregationService.CountByHour(rs, filter)
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > 5 {
		hours = hours[:5]
	}
	busiest := make([]hourTotal, 0, len(hours))
	for _, hc := range hours {
		busiest = append(busiest, hourTotal{Hour: hc.Hour, Count: hc.Count})
	}

	line := aggregationService.Trend(rs, filter, 0)

	report := forecastReport{
		Source:        summary.Source,
		RecordCount:   summary.RecordCount,
		DayCount:      summary.DayCount,
		Species:       speciesNames(summary.SpeciesBreakdown),
		Weekdays:      weekdays,
		BusiestHours:  busiest,
		Trend:         trendSummary{Slope: line.Slope, Direction: string(line.Direction)},
		Estimate:      toEstimateReport(estimate),
		FilterApplied: !filter.IsZero(),
	}
	if !summary.FirstDate.IsZero() {
		report.FirstDate = summary.FirstDate.Format("2006-01-02")
		report.LastDate = summary.LastDate.Format("2006-01-02")
	}
	if peakEstimate != nil {
		peakReport := toEstimateReport(&peakEstimate.WorkloadResult)
		peakReport.PeakHour = &peakEstimate.PeakHour
		peakReport.PeakAdoptions = &peakEstimate.PeakAdoptions
		report.PeakEstimate = &peakReport
	}

	return report
}

func toEstimateReport(result *domain.WorkloadResult) estimateReport {
	return estimateReport{
		DailyVolume:           result.DailyVolume,
		MinutesPerAdoption:    result.Params.MinutesPerAdoption,
		NonAdoptingPercent:    result.Params.NonAdoptingPercent,
		NonAdoptingMultiplier: result.NonAdoptingMultiplier,
		ExpectedDailyGuests:   result.ExpectedDailyGuests,
		TotalCounselorHours:   result.TotalCounselorHours,
		CounselorCount:        result.Params.CounselorCount,
		HoursPerCounselor:     result.HoursPerCounselor,
		CapacityUtilization:   result.CapacityUtilization,
		CapacityStatus:        string(result.CapacityStatus),
	}
}

func speciesNames(breakdown []domain.SpeciesCount) []string {
	names := make([]string, 0, len(breakdown))
	for _, sc := range breakdown {
		names = append(names, fmt.Sprintf("%s %d", sc.Species, sc.Count))
	}
	return names
}

func printReport(w *os.File, report forecastReport, filter domain.Filter) {
	rule := strings.Repeat("=", 72)
	thin := strings.Repeat("-", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ADOPTION COUNSELOR STAFFING FORECAST")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Dataset: %s\n", report.Source)
	if report.FirstDate != "" {
		fmt.Fprintf(w, "Records: %d adoptions over %d days (%s to %s)\n", report.RecordCount, report.DayCount, report.FirstDate, report.LastDate)
	} else {
		fmt.Fprintf(w, "Records: %d adoptions\n", report.RecordCount)
	}
	if len(report.Species) > 0 {
		fmt.Fprintf(w, "Species: %s\n", strings.Join(report.Species, ", "))
	}
	if report.FilterApplied {
		fmt.Fprintf(w, "Filter:  %s\n", describeFilter(filter))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "WEEKDAY DISTRIBUTION")
	fmt.Fprintln(w, thin)
	for _, wd := range report.Weekdays {
		fmt.Fprintf(w, "  %-10s %6d\n", wd.Weekday, wd.Count)
	}

	if len(report.BusiestHours) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "BUSIEST HOURS (raw totals)")
		fmt.Fprintln(w, thin)
		for _, h := range report.BusiestHours {
			fmt.Fprintf(w, "  %02d:00 %6d\n", h.Hour, h.Count)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "TREND: %+.2f adoptions/day (%s)\n", report.Trend.Slope, report.Trend.Direction)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "WORKLOAD ESTIMATE")
	fmt.Fprintln(w, thin)
	printEstimate(w, report.Estimate)

	if report.PeakEstimate != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PEAK HOUR ESTIMATE")
		fmt.Fprintln(w, thin)
		if report.PeakEstimate.PeakHour != nil {
			fmt.Fprintf(w, "  %-26s %02d:00 (%d adoptions)\n", "Busiest hour", *report.PeakEstimate.PeakHour, *report.PeakEstimate.PeakAdoptions)
		}
		printEstimate(w, *report.PeakEstimate)
	}
}

func printEstimate(w *os.File, est estimateReport) {
	fmt.Fprintf(w, "  %-26s %.2f\n", "Daily adoption volume", est.DailyVolume)
	fmt.Fprintf(w, "  %-26s %.1f\n", "Minutes per adoption", est.MinutesPerAdoption)
	fmt.Fprintf(w, "  %-26s %.0f%% (multiplier %.2f)\n", "Non-adopting visitors", est.NonAdoptingPercent, est.NonAdoptingMultiplier)
	fmt.Fprintf(w, "  %-26s %.2f\n", "Expected daily guests", est.ExpectedDailyGuests)
	fmt.Fprintf(w, "  %-26s %.2f\n", "Total counselor hours", est.TotalCounselorHours)
	fmt.Fprintf(w, "  %-26s %d\n", "Counselors on duty", est.CounselorCount)
	fmt.Fprintf(w, "  %-26s %.2f\n", "Hours per counselor", est.HoursPerCounselor)
	fmt.Fprintf(w, "  %-26s %.1f%% (%s)\n", "Capacity utilization", est.CapacityUtilization, est.CapacityStatus)
}

func describeFilter(filter domain.Filter) string {
	parts := make([]string, 0, 3)
	if filter.Weekday != nil {
		parts = append(parts, "weekday="+filter.Weekday.String())
	}
	if filter.Species != nil {
		parts = append(parts, "species="+*filter.Species)
	}
	if filter.Month != nil {
		parts = append(parts, fmt.Sprintf("month=%d", int(*filter.Month)))
	}
	return strings.Join(parts, " ")
}
