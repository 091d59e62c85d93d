package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shelterops/adoption-forecast/internal/adapters/primary/validation"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

type WorkloadHandler struct {
	datasetService  ports.DatasetService
	workloadService ports.WorkloadService
	defaults        domain.WorkloadParams
	metrics         *metrics.Registry
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewWorkloadHandler creates the estimate endpoints. defaults are the
// configured estimator parameters: the dashboard prefills its controls from
// them, and WorkdayHours is applied when a request omits its own.
func NewWorkloadHandler(datasetService ports.DatasetService, workloadService ports.WorkloadService, defaults domain.WorkloadParams, m *metrics.Registry, errorHandler *ErrorHandler, logger *slog.Logger) *WorkloadHandler {
	return &WorkloadHandler{
		datasetService:  datasetService,
		workloadService: workloadService,
		defaults:        defaults,
		metrics:         m,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "workload"),
	}
}

func (h *WorkloadHandler) RegisterRoutes(r chi.Router) {
	r.Get("/defaults", h.HandleDefaults)
	r.Post("/estimate", h.HandleEstimate)
	r.Post("/peak", h.HandleEstimatePeak)
}

// HandleDefaults handles GET /workload/defaults
func (h *WorkloadHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, WorkloadParamsDTO{
		MinutesPerAdoption: h.defaults.MinutesPerAdoption,
		NonAdoptingPercent: h.defaults.NonAdoptingPercent,
		CounselorCount:     h.defaults.CounselorCount,
		WorkdayHours:       h.defaults.WorkdayHours,
	})
}

type FilterRequest struct {
	Weekday *string `json:"weekday,omitempty"`
	Species *string `json:"species,omitempty"`
	Month   *int    `json:"month,omitempty"`
}

type EstimateRequest struct {
	MinutesPerAdoption  float64        `json:"minutesPerAdoption"`
	NonAdoptingPercent  float64        `json:"nonAdoptingPercent"`
	CounselorCount      int            `json:"counselorCount"`
	WorkdayHours        *float64       `json:"workdayHours,omitempty"`
	DailyVolumeOverride *float64       `json:"dailyVolumeOverride,omitempty"`
	Filter              *FilterRequest `json:"filter,omitempty"`
}

func (r *EstimateRequest) Validate() error {
	v := validation.NewValidator()

	if r.DailyVolumeOverride != nil {
		v.Custom("dailyVolumeOverride", *r.DailyVolumeOverride >= 0, "Must be zero or greater")
	}
	if r.Filter != nil {
		if r.Filter.Weekday != nil {
			_, err := domain.ParseWeekday(*r.Filter.Weekday)
			v.Custom("filter.weekday", err == nil, "Must be an English weekday name")
		}
		if r.Filter.Month != nil {
			v.Range("filter.month", *r.Filter.Month, 1, 12)
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *EstimateRequest) toEstimateParams(defaultWorkdayHours float64) (ports.EstimateParams, error) {
	workdayHours := defaultWorkdayHours
	if r.WorkdayHours != nil {
		workdayHours = *r.WorkdayHours
	}

	params := ports.EstimateParams{
		Params: domain.WorkloadParams{
			MinutesPerAdoption: r.MinutesPerAdoption,
			NonAdoptingPercent: r.NonAdoptingPercent,
			CounselorCount:     r.CounselorCount,
			WorkdayHours:       workdayHours,
		},
		DailyVolumeOverride: r.DailyVolumeOverride,
	}

	if r.Filter == nil {
		return params, nil
	}

	if r.Filter.Weekday != nil {
		weekday, err := domain.ParseWeekday(*r.Filter.Weekday)
		if err != nil {
			return ports.EstimateParams{}, err
		}
		params.Filter.Weekday = &weekday
	}
	if r.Filter.Species != nil {
		species := strings.TrimSpace(*r.Filter.Species)
		if species != "" {
			params.Filter.Species = &species
		}
	}
	if r.Filter.Month != nil {
		month, err := domain.ParseMonth(*r.Filter.Month)
		if err != nil {
			return ports.EstimateParams{}, err
		}
		params.Filter.Month = &month
	}

	return params, nil
}

// HandleEstimate handles POST /workload/estimate
func (h *WorkloadHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[EstimateRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toEstimateParams(h.defaults.WorkdayHours)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.workloadService.Estimate(h.datasetService.RecordSet(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.metrics.ObserveEstimate(metrics.VariantMean, metrics.TransportHTTP)
	WriteJSON(w, http.StatusOK, toWorkloadEstimateResponse(result))
}

// HandleEstimatePeak handles POST /workload/peak
func (h *WorkloadHandler) HandleEstimatePeak(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[EstimateRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toEstimateParams(h.defaults.WorkdayHours)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.workloadService.EstimatePeak(h.datasetService.RecordSet(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.metrics.ObserveEstimate(metrics.VariantPeak, metrics.TransportHTTP)
	WriteJSON(w, http.StatusOK, toPeakWorkloadResponse(result))
}

type WorkloadParamsDTO struct {
	MinutesPerAdoption float64 `json:"minutesPerAdoption"`
	NonAdoptingPercent float64 `json:"nonAdoptingPercent"`
	CounselorCount     int     `json:"counselorCount"`
	WorkdayHours       float64 `json:"workdayHours"`
}

type WorkloadEstimateResponse struct {
	DailyVolume           float64           `json:"dailyVolume"`
	NonAdoptingMultiplier float64           `json:"nonAdoptingMultiplier"`
	TotalAdoptionMinutes  float64           `json:"totalAdoptionMinutes"`
	TotalCounselorMinutes float64           `json:"totalCounselorMinutes"`
	TotalCounselorHours   float64           `json:"totalCounselorHours"`
	HoursPerCounselor     float64           `json:"hoursPerCounselor"`
	ExpectedDailyGuests   float64           `json:"expectedDailyGuests"`
	CapacityUtilization   float64           `json:"capacityUtilization"`
	CapacityStatus        string            `json:"capacityStatus"`
	Params                WorkloadParamsDTO `json:"params"`
}

type PeakWorkloadResponse struct {
	WorkloadEstimateResponse
	PeakHour      int `json:"peakHour"`
	PeakAdoptions int `json:"peakAdoptions"`
}

func toWorkloadEstimateResponse(result *domain.WorkloadResult) WorkloadEstimateResponse {
	return WorkloadEstimateResponse{
		DailyVolume:           result.DailyVolume,
		NonAdoptingMultiplier: result.NonAdoptingMultiplier,
		TotalAdoptionMinutes:  result.TotalAdoptionMinutes,
		TotalCounselorMinutes: result.TotalCounselorMinutes,
		TotalCounselorHours:   result.TotalCounselorHours,
		HoursPerCounselor:     result.HoursPerCounselor,
		ExpectedDailyGuests:   result.ExpectedDailyGuests,
		CapacityUtilization:   result.CapacityUtilization,
		CapacityStatus:        string(result.CapacityStatus),
		Params: WorkloadParamsDTO{
			MinutesPerAdoption: result.Params.MinutesPerAdoption,
			NonAdoptingPercent: result.Params.NonAdoptingPercent,
			CounselorCount:     result.Params.CounselorCount,
			WorkdayHours:       result.Params.WorkdayHours,
		},
	}
}

func toPeakWorkloadResponse(result *domain.PeakWorkloadResult) PeakWorkloadResponse {
	return PeakWorkloadResponse{
		WorkloadEstimateResponse: toWorkloadEstimateResponse(&result.WorkloadResult),
		PeakHour:                 result.PeakHour,
		PeakAdoptions:            result.PeakAdoptions,
	}
}
