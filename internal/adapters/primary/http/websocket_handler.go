package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	wsAdapter "github.com/shelterops/adoption-forecast/internal/adapters/primary/websocket"
	"github.com/shelterops/adoption-forecast/internal/config"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

// WebSocketHandler upgrades live-estimate connections
type WebSocketHandler struct {
	datasetService  ports.DatasetService
	workloadService ports.WorkloadService
	workdayHours    float64
	metrics         *metrics.Registry
	upgrader        websocket.Upgrader
	logger          *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	datasetService ports.DatasetService,
	workloadService ports.WorkloadService,
	cfg *config.Config,
	m *metrics.Registry,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		datasetService:  datasetService,
		workloadService: workloadService,
		workdayHours:    cfg.Workload.WorkdayHours,
		metrics:         m,
		logger:          logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		// Check against allowed origins
		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"error", err,
		)
		return
	}

	client := wsAdapter.NewClient(conn, h.datasetService, h.workloadService, h.workdayHours, h.metrics, h.logger)
	h.metrics.WSConnections.Inc()

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"connection_id", client.ID.String(),
		"remote_addr", r.RemoteAddr,
	)

	// Start the I/O pumps in new goroutines
	go client.WritePump()
	go client.ReadPump()
}
