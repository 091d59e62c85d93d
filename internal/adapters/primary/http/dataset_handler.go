package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

type DatasetHandler struct {
	datasetService ports.DatasetService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

func NewDatasetHandler(datasetService ports.DatasetService, errorHandler *ErrorHandler, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "dataset"),
	}
}

func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
}

// HandleSummary handles GET /dataset/summary
func (h *DatasetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.datasetService.Summary()

	WriteJSON(w, http.StatusOK, toDatasetSummaryResponse(summary))
}

type DatasetSummaryResponse struct {
	RecordCount        int               `json:"recordCount"`
	FirstDate          *string           `json:"firstDate"`
	LastDate           *string           `json:"lastDate"`
	DayCount           int               `json:"dayCount"`
	MeanDailyAdoptions float64           `json:"meanDailyAdoptions"`
	SpeciesBreakdown   []SpeciesCountDTO `json:"speciesBreakdown"`
	Source             string            `json:"source"`
}

func toDatasetSummaryResponse(summary domain.DatasetSummary) DatasetSummaryResponse {
	var firstDate, lastDate *string
	if !summary.FirstDate.IsZero() {
		value := summary.FirstDate.Format("2006-01-02")
		firstDate = &value
	}
	if !summary.LastDate.IsZero() {
		value := summary.LastDate.Format("2006-01-02")
		lastDate = &value
	}

	breakdown := make([]SpeciesCountDTO, 0, len(summary.SpeciesBreakdown))
	for _, sc := range summary.SpeciesBreakdown {
		breakdown = append(breakdown, SpeciesCountDTO{Species: sc.Species, Count: sc.Count})
	}

	return DatasetSummaryResponse{
		RecordCount:        summary.RecordCount,
		FirstDate:          firstDate,
		LastDate:           lastDate,
		DayCount:           summary.DayCount,
		MeanDailyAdoptions: summary.MeanDailyAdoptions,
		SpeciesBreakdown:   breakdown,
		Source:             summary.Source,
	}
}
