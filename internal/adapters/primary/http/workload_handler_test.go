package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/services"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

func TestWorkloadEstimate(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"dailyVolumeOverride":20}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WorkloadEstimateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.InDelta(t, 20.0, response.DailyVolume, 1e-9)
	assert.InDelta(t, 1.3, response.NonAdoptingMultiplier, 1e-9)
	assert.InDelta(t, 600.0, response.TotalAdoptionMinutes, 1e-9)
	assert.InDelta(t, 780.0, response.TotalCounselorMinutes, 1e-9)
	assert.InDelta(t, 13.0, response.TotalCounselorHours, 1e-9)
	assert.InDelta(t, 13.0/3.0, response.HoursPerCounselor, 1e-9)
	assert.InDelta(t, 26.0, response.ExpectedDailyGuests, 1e-9)
	assert.InDelta(t, 54.1666666667, response.CapacityUtilization, 1e-6)
	assert.Equal(t, "comfortable", response.CapacityStatus)

	assert.InDelta(t, 30.0, response.Params.MinutesPerAdoption, 1e-9)
	assert.InDelta(t, 30.0, response.Params.NonAdoptingPercent, 1e-9)
	assert.Equal(t, 3, response.Params.CounselorCount)
	assert.InDelta(t, 8.0, response.Params.WorkdayHours, 1e-9)
}

func TestWorkloadEstimate_FromDataset(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WorkloadEstimateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	// Nine records over three distinct dates.
	assert.InDelta(t, 3.0, response.DailyVolume, 1e-9)
	assert.InDelta(t, 90.0, response.TotalAdoptionMinutes, 1e-9)
	assert.InDelta(t, 117.0, response.TotalCounselorMinutes, 1e-9)
	assert.InDelta(t, 1.95, response.TotalCounselorHours, 1e-9)
	assert.InDelta(t, 0.65, response.HoursPerCounselor, 1e-9)
	assert.Equal(t, "comfortable", response.CapacityStatus)
}

func TestWorkloadEstimate_FilteredVolume(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"filter":{"weekday":"Saturday"}}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WorkloadEstimateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.InDelta(t, 4.0, response.DailyVolume, 1e-9)
	assert.InDelta(t, 120.0, response.TotalAdoptionMinutes, 1e-9)
}

func TestWorkloadEstimate_WorkdayHoursOverride(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"workdayHours":4}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WorkloadEstimateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.InDelta(t, 4.0, response.Params.WorkdayHours, 1e-9)
	assert.InDelta(t, 16.25, response.CapacityUtilization, 1e-6)
}

func TestWorkloadEstimate_NonPositiveCounselors(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":0}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "NON_POSITIVE_COUNSELOR_COUNT", errResp.Code)
}

func TestWorkloadEstimate_NegativePercent(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":-5,"counselorCount":3}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "INVALID_PERCENTAGE", errResp.Code)
}

func TestWorkloadEstimate_EmptySubset(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"filter":{"species":"Hamster"}}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "EMPTY_DATASET", errResp.Code)
}

func TestWorkloadEstimate_ValidationErrors(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"dailyVolumeOverride":-1,"filter":{"month":13}}`)
	recorder := postJSON(router, "/workload/estimate", payload)

	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var errResp ValidationErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "dailyVolumeOverride")
	assert.Contains(t, errResp.Fields, "filter.month")
}

func TestWorkloadEstimate_MalformedBody(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	recorder := postJSON(router, "/workload/estimate", []byte(`{nope`))

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	assert.Equal(t, "BAD_REQUEST", errResp.Code)
}

func TestWorkloadEstimatePeak(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3}`)
	recorder := postJSON(router, "/workload/peak", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PeakWorkloadResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Equal(t, 10, response.PeakHour)
	assert.Equal(t, 4, response.PeakAdoptions)
	assert.InDelta(t, 4.0, response.DailyVolume, 1e-9)
	assert.InDelta(t, 120.0, response.TotalAdoptionMinutes, 1e-9)
	assert.InDelta(t, 156.0, response.TotalCounselorMinutes, 1e-9)
	assert.InDelta(t, 2.6, response.TotalCounselorHours, 1e-9)
	assert.InDelta(t, 2.6/3.0, response.HoursPerCounselor, 1e-9)
}

func TestWorkloadEstimatePeak_IgnoresVolumeOverride(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	payload := []byte(`{"minutesPerAdoption":30,"nonAdoptingPercent":30,"counselorCount":3,"dailyVolumeOverride":50}`)
	recorder := postJSON(router, "/workload/peak", payload)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PeakWorkloadResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.InDelta(t, 4.0, response.DailyVolume, 1e-9)
	assert.Equal(t, 4, response.PeakAdoptions)
}

func TestWorkloadDefaults(t *testing.T) {
	router := newWorkloadRouter(sampleAdoptions(t))

	req := httptest.NewRequest(stdhttp.MethodGet, "/workload/defaults", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WorkloadParamsDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.InDelta(t, domain.DefaultMinutesPerAdoption, response.MinutesPerAdoption, 1e-9)
	assert.InDelta(t, domain.DefaultNonAdoptingPercent, response.NonAdoptingPercent, 1e-9)
	assert.Equal(t, domain.DefaultCounselorCount, response.CounselorCount)
	assert.InDelta(t, domain.DefaultWorkdayHours, response.WorkdayHours, 1e-9)
}

func newWorkloadRouter(records []domain.AdoptionRecord) *chi.Mux {
	aggregationService := services.NewAggregationService()
	datasetService := services.NewDatasetService(domain.NewRecordSet(records), "test.csv", aggregationService)
	workloadService := services.NewWorkloadService(aggregationService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	defaults := domain.WorkloadParams{
		MinutesPerAdoption: domain.DefaultMinutesPerAdoption,
		NonAdoptingPercent: domain.DefaultNonAdoptingPercent,
		CounselorCount:     domain.DefaultCounselorCount,
		WorkdayHours:       domain.DefaultWorkdayHours,
	}
	workloadHandler := NewWorkloadHandler(datasetService, workloadService, defaults, metrics.NewRegistry(), errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/workload", workloadHandler.RegisterRoutes)

	return router
}

func postJSON(router *chi.Mux, path string, payload []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
