package ports

import (
	"context"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
)

// EstimateParams defines the input for a workload estimate.
type EstimateParams struct {
	Params domain.WorkloadParams
	Filter domain.Filter

	// DailyVolumeOverride replaces the mean daily volume derived from the
	// record set. Ignored by the peak-hour variant.
	DailyVolumeOverride *float64
}

// AggregationService defines the port for grouped adoption counts. All
// methods are pure over the record set and filter they are given and
// recompute on every call.
type AggregationService interface {
	CountByDate(rs *domain.RecordSet, filter domain.Filter) []domain.DateCount
	CountByHour(rs *domain.RecordSet, filter domain.Filter) []domain.HourCount
	CountByWeekday(rs *domain.RecordSet, filter domain.Filter) []domain.WeekdayCount
	CountByMonth(rs *domain.RecordSet, filter domain.Filter) []domain.MonthCount
	CountBySpecies(rs *domain.RecordSet, filter domain.Filter) []domain.SpeciesCount
	HourlyMeans(rs *domain.RecordSet, filter domain.Filter) []domain.HourlyMean
	HourlyStats(rs *domain.RecordSet, filter domain.Filter) domain.HourlyStats

	// Trend fits a least-squares line through the daily counts. A positive
	// lastDays restricts the fit to the calendar window ending at the most
	// recent date in the subset; zero fits the whole range.
	Trend(rs *domain.RecordSet, filter domain.Filter, lastDays int) domain.TrendLine
}

// WorkloadService defines the port for counselor workload estimation.
type WorkloadService interface {
	Estimate(rs *domain.RecordSet, params EstimateParams) (*domain.WorkloadResult, error)
	EstimatePeak(rs *domain.RecordSet, params EstimateParams) (*domain.PeakWorkloadResult, error)
}

// DatasetService defines the port for dataset-level queries over the record
// set loaded at startup.
type DatasetService interface {
	RecordSet() *domain.RecordSet
	Summary() domain.DatasetSummary
	Ping(ctx context.Context) error
}
