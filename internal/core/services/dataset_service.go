package services

import (
	"context"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

// DatasetService is a read-only view over the record set loaded at startup.
// The set itself never changes for the process lifetime.
type DatasetService struct {
	rs         *domain.RecordSet
	source     string
	aggregator ports.AggregationService
}

var _ ports.DatasetService = (*DatasetService)(nil)

// NewDatasetService creates a new dataset service
func NewDatasetService(rs *domain.RecordSet, source string, aggregator ports.AggregationService) ports.DatasetService {
	return &DatasetService{rs: rs, source: source, aggregator: aggregator}
}

// RecordSet returns the loaded record set.
func (s *DatasetService) RecordSet() *domain.RecordSet {
	return s.rs
}

// Summary describes the loaded dataset: size, date coverage and species mix.
func (s *DatasetService) Summary() domain.DatasetSummary {
	summary := domain.DatasetSummary{
		RecordCount:      s.rs.Len(),
		DayCount:         s.rs.DayCount(),
		Source:           s.source,
		SpeciesBreakdown: s.aggregator.CountBySpecies(s.rs, domain.Filter{}),
	}
	if first, last, ok := s.rs.DateRange(); ok {
		summary.FirstDate = first
		summary.LastDate = last
	}
	if summary.DayCount > 0 {
		summary.MeanDailyAdoptions = float64(summary.RecordCount) / float64(summary.DayCount)
	}
	return summary
}

// Ping reports whether a non-empty record set is loaded, the readiness
// condition for serving estimates.
func (s *DatasetService) Ping(ctx context.Context) error {
	if s.rs == nil || s.rs.Len() == 0 {
		return apperrors.ErrEmptyDataset
	}
	return nil
}
