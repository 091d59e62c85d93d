package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
)

func datePoints(counts ...int) []domain.DateCount {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.DateCount, len(counts))
	for i, c := range counts {
		points[i] = domain.DateCount{Date: base.AddDate(0, 0, i), Count: c}
	}
	return points
}

func TestFitTrend(t *testing.T) {
	tests := []struct {
		name          string
		counts        []int
		wantSlope     float64
		wantIntercept float64
		wantDirection domain.TrendDirection
	}{
		{"steadily increasing", []int{1, 2, 3, 4}, 1, 1, domain.TrendIncreasing},
		{"steadily decreasing", []int{9, 7, 5, 3}, -2, 9, domain.TrendDecreasing},
		{"perfectly flat", []int{5, 5, 5}, 0, 5, domain.TrendStable},
		{"noisy upward", []int{2, 1, 4, 3, 6}, 1, 1.2, domain.TrendIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := domain.FitTrend(datePoints(tt.counts...))

			assert.InDelta(t, tt.wantSlope, line.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, line.Intercept, 1e-9)
			assert.Equal(t, tt.wantDirection, line.Direction)
			assert.Len(t, line.Points, len(tt.counts))
		})
	}
}

func TestFitTrend_DegenerateInputs(t *testing.T) {
	assert.Equal(t, domain.TrendStable, domain.FitTrend(nil).Direction)

	single := domain.FitTrend(datePoints(7))
	assert.Equal(t, domain.TrendStable, single.Direction)
	assert.Equal(t, 0.0, single.Slope)
	assert.Equal(t, 0.0, single.Intercept)
}
