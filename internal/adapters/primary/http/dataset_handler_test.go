package http

import (
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
)

func TestDatasetSummary(t *testing.T) {
	router := newDatasetRouter(sampleAdoptions(t))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(stdhttp.MethodGet, "/dataset/summary", nil))

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DatasetSummaryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Equal(t, 9, response.RecordCount)
	assert.Equal(t, 3, response.DayCount)
	require.NotNil(t, response.FirstDate)
	require.NotNil(t, response.LastDate)
	assert.Equal(t, "2024-03-04", *response.FirstDate)
	assert.Equal(t, "2024-03-09", *response.LastDate)
	assert.InDelta(t, 3.0, response.MeanDailyAdoptions, 1e-9)
	assert.Equal(t, "test.csv", response.Source)

	assert.Equal(t, []SpeciesCountDTO{
		{Species: "Dog", Count: 5},
		{Species: "Cat", Count: 3},
		{Species: "Rabbit", Count: 1},
	}, response.SpeciesBreakdown)
}

func TestDatasetSummary_Empty(t *testing.T) {
	router := newDatasetRouter(nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(stdhttp.MethodGet, "/dataset/summary", nil))

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DatasetSummaryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Zero(t, response.RecordCount)
	assert.Zero(t, response.DayCount)
	assert.Nil(t, response.FirstDate)
	assert.Nil(t, response.LastDate)
	assert.Zero(t, response.MeanDailyAdoptions)
	assert.Empty(t, response.SpeciesBreakdown)
}

func newDatasetRouter(records []domain.AdoptionRecord) *chi.Mux {
	aggregationService := services.NewAggregationService()
	datasetService := services.NewDatasetService(domain.NewRecordSet(records), "test.csv", aggregationService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	datasetHandler := NewDatasetHandler(datasetService, errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/dataset", datasetHandler.RegisterRoutes)

	return router
}
