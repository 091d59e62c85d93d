package services

import (
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

// WorkloadService implements counselor workload estimation over aggregated
// adoption volumes.
type WorkloadService struct {
	aggregator ports.AggregationService
}

var _ ports.WorkloadService = (*WorkloadService)(nil)

// NewWorkloadService creates a new workload service
func NewWorkloadService(aggregator ports.AggregationService) ports.WorkloadService {
	return &WorkloadService{aggregator: aggregator}
}

// Estimate applies the workload formula to the mean daily adoption volume of
// the filtered record set, or to the caller's explicit volume override.
func (s *WorkloadService) Estimate(rs *domain.RecordSet, params ports.EstimateParams) (*domain.WorkloadResult, error) {
	if err := params.Params.Validate(); err != nil {
		return nil, err
	}

	var volume float64
	if params.DailyVolumeOverride != nil {
		if *params.DailyVolumeOverride < 0 {
			return nil, apperrors.ErrBadRequest
		}
		volume = *params.DailyVolumeOverride
	} else {
		daily := s.aggregator.CountByDate(rs, params.Filter)
		if len(daily) == 0 {
			return nil, apperrors.ErrEmptyDataset
		}
		total := 0
		for _, d := range daily {
			total += d.Count
		}
		volume = float64(total) / float64(len(daily))
	}

	return domain.EstimateWorkload(volume, params.Params)
}

// EstimatePeak substitutes the busiest single hour's raw adoption total for
// the daily volume and applies the same formula. The volume override is
// ignored here; the peak always comes from the data.
func (s *WorkloadService) EstimatePeak(rs *domain.RecordSet, params ports.EstimateParams) (*domain.PeakWorkloadResult, error) {
	if err := params.Params.Validate(); err != nil {
		return nil, err
	}

	hours := s.aggregator.CountByHour(rs, params.Filter)
	if len(hours) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	peak := hours[0]
	for _, h := range hours[1:] {
		if h.Count > peak.Count {
			peak = h
		}
	}

	result, err := domain.EstimateWorkload(float64(peak.Count), params.Params)
	if err != nil {
		return nil, err
	}
	return &domain.PeakWorkloadResult{
		WorkloadResult: *result,
		PeakHour:       peak.Hour,
		PeakAdoptions:  peak.Count,
	}, nil
}
