package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shelterops/adoption-forecast/internal/adapters/primary/validation"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

type AnalyticsHandler struct {
	datasetService     ports.DatasetService
	aggregationService ports.AggregationService
	errorHandler       *ErrorHandler
	logger             *slog.Logger
}

func NewAnalyticsHandler(datasetService ports.DatasetService, aggregationService ports.AggregationService, errorHandler *ErrorHandler, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		datasetService:     datasetService,
		aggregationService: aggregationService,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "analytics"),
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily", h.HandleDaily)
	r.Get("/hourly", h.HandleHourly)
	r.Get("/hours/totals", h.HandleHourTotals)
	r.Get("/weekdays", h.HandleWeekdays)
	r.Get("/months", h.HandleMonths)
	r.Get("/species", h.HandleSpecies)
	r.Get("/trend", h.HandleTrend)
}

// HandleDaily handles GET /analytics/daily
func (h *AnalyticsHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	daily := h.aggregationService.CountByDate(h.datasetService.RecordSet(), filter)

	response := make([]DateCountDTO, 0, len(daily))
	for _, dc := range daily {
		response = append(response, toDateCountDTO(dc))
	}

	WriteList(w, response)
}

// HandleHourly handles GET /analytics/hourly. The response carries the mean
// adoptions for every hour of day, including hours that never saw one, plus
// summary statistics over the raw record hours.
func (h *AnalyticsHandler) HandleHourly(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	rs := h.datasetService.RecordSet()
	means := h.aggregationService.HourlyMeans(rs, filter)
	stats := h.aggregationService.HourlyStats(rs, filter)

	hours := make([]HourlyMeanDTO, 0, len(means))
	for _, hm := range means {
		hours = append(hours, HourlyMeanDTO{Hour: hm.Hour, MeanAdoptions: hm.Mean})
	}

	WriteJSON(w, http.StatusOK, HourlyDistributionResponse{
		Hours:      hours,
		MeanHour:   stats.MeanHour,
		StdDevHour: stats.StdDevHour,
	})
}

// HandleHourTotals handles GET /analytics/hours/totals. Unlike the hourly
// means these are raw totals over the whole subset, with silent hours absent.
func (h *AnalyticsHandler) HandleHourTotals(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	totals := h.aggregationService.CountByHour(h.datasetService.RecordSet(), filter)

	response := make([]HourCountDTO, 0, len(totals))
	for _, hc := range totals {
		response = append(response, HourCountDTO{Hour: hc.Hour, Count: hc.Count})
	}

	WriteList(w, response)
}

// HandleWeekdays handles GET /analytics/weekdays
func (h *AnalyticsHandler) HandleWeekdays(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	weekdays := h.aggregationService.CountByWeekday(h.datasetService.RecordSet(), filter)

	response := make([]WeekdayCountDTO, 0, len(weekdays))
	for _, wc := range weekdays {
		response = append(response, WeekdayCountDTO{Weekday: wc.Weekday.String(), Count: wc.Count})
	}

	WriteList(w, response)
}

// HandleMonths handles GET /analytics/months
func (h *AnalyticsHandler) HandleMonths(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	months := h.aggregationService.CountByMonth(h.datasetService.RecordSet(), filter)

	response := make([]MonthCountDTO, 0, len(months))
	for _, mc := range months {
		response = append(response, MonthCountDTO{
			Year:  mc.Year,
			Month: int(mc.Month),
			Label: mc.Month.String(),
			Count: mc.Count,
		})
	}

	WriteList(w, response)
}

// HandleSpecies handles GET /analytics/species
func (h *AnalyticsHandler) HandleSpecies(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	species := h.aggregationService.CountBySpecies(h.datasetService.RecordSet(), filter)

	response := make([]SpeciesCountDTO, 0, len(species))
	for _, sc := range species {
		response = append(response, SpeciesCountDTO{Species: sc.Species, Count: sc.Count})
	}

	WriteList(w, response)
}

// HandleTrend handles GET /analytics/trend
func (h *AnalyticsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	days := validation.ParseIntQueryParam(r, "days", 0)

	line := h.aggregationService.Trend(h.datasetService.RecordSet(), filter, days)

	WriteJSON(w, http.StatusOK, toTrendResponse(line))
}

type DateCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type HourCountDTO struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type HourlyMeanDTO struct {
	Hour          int     `json:"hour"`
	MeanAdoptions float64 `json:"meanAdoptions"`
}

type WeekdayCountDTO struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type MonthCountDTO struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SpeciesCountDTO struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

type HourlyDistributionResponse struct {
	Hours      []HourlyMeanDTO `json:"hours"`
	MeanHour   float64         `json:"meanHour"`
	StdDevHour float64         `json:"stdDevHour"`
}

type TrendResponse struct {
	Slope     float64        `json:"slope"`
	Intercept float64        `json:"intercept"`
	Direction string         `json:"direction"`
	Points    []DateCountDTO `json:"points"`
}

func toDateCountDTO(dc domain.DateCount) DateCountDTO {
	return DateCountDTO{
		Date:  dc.Date.Format("2006-01-02"),
		Count: dc.Count,
	}
}

func toTrendResponse(line domain.TrendLine) TrendResponse {
	points := make([]DateCountDTO, 0, len(line.Points))
	for _, p := range line.Points {
		points = append(points, toDateCountDTO(p))
	}

	return TrendResponse{
		Slope:     line.Slope,
		Intercept: line.Intercept,
		Direction: string(line.Direction),
		Points:    points,
	}
}

// parseFilterQuery builds the record filter from the weekday, species and
// month query parameters shared by every analytics endpoint.
func parseFilterQuery(r *http.Request) (domain.Filter, error) {
	var filter domain.Filter

	if raw := validation.ParseStringQueryParam(r, "weekday"); raw != nil {
		weekday, err := domain.ParseWeekday(*raw)
		if err != nil {
			return domain.Filter{}, err
		}
		filter.Weekday = &weekday
	}

	if raw := validation.ParseStringQueryParam(r, "species"); raw != nil {
		species := strings.TrimSpace(*raw)
		if species != "" {
			filter.Species = &species
		}
	}

	if raw := validation.ParseStringQueryParam(r, "month"); raw != nil {
		value, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return domain.Filter{}, apperrors.ErrInvalidMonth
		}
		month, err := domain.ParseMonth(value)
		if err != nil {
			return domain.Filter{}, err
		}
		filter.Month = &month
	}

	return filter, nil
}
