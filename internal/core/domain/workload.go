package domain

import (
	"math"

	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
)

// Default workload parameters offered by the CLI and dashboard before the
// operator adjusts them.
const (
	DefaultMinutesPerAdoption = 30.0
	DefaultNonAdoptingPercent = 30.0
	DefaultCounselorCount     = 3
	DefaultWorkdayHours       = 8.0
)

// CapacityStatus classifies capacity utilization for display.
type CapacityStatus string

const (
	CapacityComfortable CapacityStatus = "comfortable"
	CapacityBusy        CapacityStatus = "busy"
	CapacityOverloaded  CapacityStatus = "overloaded"
)

// WorkloadParams are the operator-supplied inputs to the estimator.
type WorkloadParams struct {
	MinutesPerAdoption float64
	NonAdoptingPercent float64
	CounselorCount     int
	WorkdayHours       float64
}

// Validate rejects parameter values the formula cannot safely consume.
func (p WorkloadParams) Validate() error {
	if p.CounselorCount <= 0 {
		return apperrors.ErrNonPositiveCounselorCount
	}
	if p.NonAdoptingPercent < 0 || math.IsNaN(p.NonAdoptingPercent) || math.IsInf(p.NonAdoptingPercent, 0) {
		return apperrors.ErrInvalidPercentage
	}
	if p.MinutesPerAdoption <= 0 {
		return apperrors.ErrNonPositiveMinutes
	}
	if p.WorkdayHours <= 0 {
		return apperrors.ErrNonPositiveWorkdayHours
	}
	return nil
}

// WorkloadResult is the estimator output. Every field follows from the input
// volume and parameters alone; nothing here touches the record set.
type WorkloadResult struct {
	DailyVolume           float64
	NonAdoptingMultiplier float64
	TotalAdoptionMinutes  float64
	TotalCounselorMinutes float64
	TotalCounselorHours   float64
	HoursPerCounselor     float64
	ExpectedDailyGuests   float64
	CapacityUtilization   float64
	CapacityStatus        CapacityStatus
	Params                WorkloadParams
}

// PeakWorkloadResult is a workload estimate anchored to the busiest single
// hour of the dataset rather than the mean daily volume.
type PeakWorkloadResult struct {
	WorkloadResult
	PeakHour      int
	PeakAdoptions int
}

// EstimateWorkload converts a daily adoption volume into counselor hours:
//
//	multiplier       = 1 + nonAdoptingPercent/100
//	adoptionMinutes  = dailyVolume * minutesPerAdoption
//	counselorMinutes = adoptionMinutes * multiplier
//	counselorHours   = counselorMinutes / 60
//	perCounselor     = counselorHours / counselorCount
//
// Capacity utilization is perCounselor over the configured workday length,
// as a percentage.
func EstimateWorkload(dailyVolume float64, p WorkloadParams) (*WorkloadResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	multiplier := 1 + p.NonAdoptingPercent/100
	adoptionMinutes := dailyVolume * p.MinutesPerAdoption
	counselorMinutes := adoptionMinutes * multiplier
	counselorHours := counselorMinutes / 60
	perCounselor := counselorHours / float64(p.CounselorCount)
	utilization := perCounselor / p.WorkdayHours * 100

	return &WorkloadResult{
		DailyVolume:           dailyVolume,
		NonAdoptingMultiplier: multiplier,
		TotalAdoptionMinutes:  adoptionMinutes,
		TotalCounselorMinutes: counselorMinutes,
		TotalCounselorHours:   counselorHours,
		HoursPerCounselor:     perCounselor,
		ExpectedDailyGuests:   dailyVolume * multiplier,
		CapacityUtilization:   utilization,
		CapacityStatus:        ClassifyCapacity(utilization),
		Params:                p,
	}, nil
}

// ClassifyCapacity maps a utilization percentage onto the display bands:
// under 70 is comfortable, 70 to 100 is busy, above 100 is overloaded.
func ClassifyCapacity(utilizationPct float64) CapacityStatus {
	switch {
	case utilizationPct > 100:
		return CapacityOverloaded
	case utilizationPct >= 70:
		return CapacityBusy
	default:
		return CapacityComfortable
	}
}
