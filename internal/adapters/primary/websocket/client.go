package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client runs one live-estimate session. Each inbound frame carries workload
// parameters; the reply carries the recomputed estimate. Connections never
// receive server-originated events, so there is no hub between them.
type Client struct {
	// ID identifies this connection in logs.
	ID uuid.UUID

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan OutboundMessage

	datasetService  ports.DatasetService
	workloadService ports.WorkloadService
	workdayHours    float64
	metrics         *metrics.Registry

	// closeOnce ensures the Send channel is only closed once
	closeOnce sync.Once

	logger *slog.Logger
}

// NewClient creates a live-estimate session over an upgraded connection.
// workdayHours is the configured default applied when a frame omits its own.
func NewClient(conn *websocket.Conn, datasetService ports.DatasetService, workloadService ports.WorkloadService, workdayHours float64, m *metrics.Registry, logger *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		ID:              id,
		Conn:            conn,
		Send:            make(chan OutboundMessage, 256),
		datasetService:  datasetService,
		workloadService: workloadService,
		workdayHours:    workdayHours,
		metrics:         m,
		logger:          logger.With("connection_id", id.String()),
	}
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump pumps messages from the websocket connection into the estimator.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.CloseSend()
		_ = c.Conn.Close()
		c.metrics.WSConnections.Dec()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the Send channel to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The session closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(msg OutboundMessage) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OutboundMessage is the structure for frames sent back to the client.
type OutboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// EstimateFilter narrows the record subset an estimate runs over.
type EstimateFilter struct {
	Weekday *string `json:"weekday,omitempty"`
	Species *string `json:"species,omitempty"`
	Month   *int    `json:"month,omitempty"`
}

// EstimatePayload carries the workload parameters for one recomputation. It
// mirrors the REST estimate request body.
type EstimatePayload struct {
	MinutesPerAdoption  float64         `json:"minutesPerAdoption"`
	NonAdoptingPercent  float64         `json:"nonAdoptingPercent"`
	CounselorCount      int             `json:"counselorCount"`
	WorkdayHours        *float64        `json:"workdayHours,omitempty"`
	DailyVolumeOverride *float64        `json:"dailyVolumeOverride,omitempty"`
	Filter              *EstimateFilter `json:"filter,omitempty"`
}

// ErrorPayload is the payload of an error frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EstimateResultPayload is the payload of an estimate result frame.
type EstimateResultPayload struct {
	DailyVolume           float64 `json:"dailyVolume"`
	NonAdoptingMultiplier float64 `json:"nonAdoptingMultiplier"`
	TotalAdoptionMinutes  float64 `json:"totalAdoptionMinutes"`
	TotalCounselorMinutes float64 `json:"totalCounselorMinutes"`
	TotalCounselorHours   float64 `json:"totalCounselorHours"`
	HoursPerCounselor     float64 `json:"hoursPerCounselor"`
	ExpectedDailyGuests   float64 `json:"expectedDailyGuests"`
	CapacityUtilization   float64 `json:"capacityUtilization"`
	CapacityStatus        string  `json:"capacityStatus"`
	PeakHour              *int    `json:"peakHour,omitempty"`
	PeakAdoptions         *int    `json:"peakAdoptions,omitempty"`
}

// handleIncomingMessage processes messages received from the client
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		c.sendError("BAD_REQUEST", "Invalid message frame")
		return
	}

	switch msg.Type {
	case "estimate":
		c.handleEstimate(msg.Payload)

	case "estimate_peak":
		c.handleEstimatePeak(msg.Payload)

	case "ping":
		// Client-side keep-alive, respond with pong
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
		c.sendError("UNKNOWN_TYPE", "Unknown message type")
	}
}

func (c *Client) handleEstimate(payload json.RawMessage) {
	params, ok := c.decodeParams(payload)
	if !ok {
		return
	}

	result, err := c.workloadService.Estimate(c.datasetService.RecordSet(), params)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.metrics.ObserveEstimate(metrics.VariantMean, metrics.TransportWS)
	c.send(OutboundMessage{Type: "estimate_result", Payload: toResultPayload(result)})
}

func (c *Client) handleEstimatePeak(payload json.RawMessage) {
	params, ok := c.decodeParams(payload)
	if !ok {
		return
	}

	result, err := c.workloadService.EstimatePeak(c.datasetService.RecordSet(), params)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	resultPayload := toResultPayload(&result.WorkloadResult)
	resultPayload.PeakHour = &result.PeakHour
	resultPayload.PeakAdoptions = &result.PeakAdoptions

	c.metrics.ObserveEstimate(metrics.VariantPeak, metrics.TransportWS)
	c.send(OutboundMessage{Type: "estimate_peak_result", Payload: resultPayload})
}

// decodeParams converts an estimate payload into service parameters,
// reporting any decode or filter problem back over the connection.
func (c *Client) decodeParams(payload json.RawMessage) (ports.EstimateParams, bool) {
	var p EstimatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal estimate payload", "error", err)
		c.sendError("BAD_REQUEST", "Invalid estimate payload")
		return ports.EstimateParams{}, false
	}

	workdayHours := c.workdayHours
	if p.WorkdayHours != nil {
		workdayHours = *p.WorkdayHours
	}

	params := ports.EstimateParams{
		Params: domain.WorkloadParams{
			MinutesPerAdoption: p.MinutesPerAdoption,
			NonAdoptingPercent: p.NonAdoptingPercent,
			CounselorCount:     p.CounselorCount,
			WorkdayHours:       workdayHours,
		},
		DailyVolumeOverride: p.DailyVolumeOverride,
	}

	if p.Filter != nil {
		if p.Filter.Weekday != nil {
			weekday, err := domain.ParseWeekday(*p.Filter.Weekday)
			if err != nil {
				c.sendError(errorCode(err), err.Error())
				return ports.EstimateParams{}, false
			}
			params.Filter.Weekday = &weekday
		}
		if p.Filter.Species != nil {
			species := strings.TrimSpace(*p.Filter.Species)
			if species != "" {
				params.Filter.Species = &species
			}
		}
		if p.Filter.Month != nil {
			month, err := domain.ParseMonth(*p.Filter.Month)
			if err != nil {
				c.sendError(errorCode(err), err.Error())
				return ports.EstimateParams{}, false
			}
			params.Filter.Month = &month
		}
	}

	return params, true
}

func toResultPayload(result *domain.WorkloadResult) EstimateResultPayload {
	return EstimateResultPayload{
		DailyVolume:           result.DailyVolume,
		NonAdoptingMultiplier: result.NonAdoptingMultiplier,
		TotalAdoptionMinutes:  result.TotalAdoptionMinutes,
		TotalCounselorMinutes: result.TotalCounselorMinutes,
		TotalCounselorHours:   result.TotalCounselorHours,
		HoursPerCounselor:     result.HoursPerCounselor,
		ExpectedDailyGuests:   result.ExpectedDailyGuests,
		CapacityUtilization:   result.CapacityUtilization,
		CapacityStatus:        string(result.CapacityStatus),
	}
}

// errorCode mirrors the REST error codes so dashboard clients can share
// handling between transports.
func errorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEmptyDataset):
		return "EMPTY_DATASET"
	case errors.Is(err, apperrors.ErrNonPositiveCounselorCount):
		return "NON_POSITIVE_COUNSELOR_COUNT"
	case errors.Is(err, apperrors.ErrInvalidPercentage):
		return "INVALID_PERCENTAGE"
	case errors.Is(err, apperrors.ErrNonPositiveMinutes):
		return "NON_POSITIVE_MINUTES"
	case errors.Is(err, apperrors.ErrNonPositiveWorkdayHours):
		return "NON_POSITIVE_WORKDAY_HOURS"
	case errors.Is(err, apperrors.ErrInvalidWeekday):
		return "INVALID_WEEKDAY"
	case errors.Is(err, apperrors.ErrInvalidMonth):
		return "INVALID_MONTH"
	case errors.Is(err, apperrors.ErrBadRequest):
		return "BAD_REQUEST"
	default:
		return "ESTIMATE_FAILED"
	}
}

func (c *Client) send(msg OutboundMessage) {
	select {
	case c.Send <- msg:
	default:
		c.logger.Warn("send buffer full, dropping frame", "type", msg.Type)
	}
}

func (c *Client) sendError(code, message string) {
	c.send(OutboundMessage{Type: "error", Payload: ErrorPayload{Code: code, Message: message}})
}

func (c *Client) sendPong() {
	c.send(OutboundMessage{Type: "pong"})
}
