package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/db"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// TrackerHandler handles the jar endpoints.
type TrackerHandler struct {
	tracker *core.Tracker
	logger  *zap.Logger
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(tracker *core.Tracker, logger *zap.Logger) *TrackerHandler {
	return &TrackerHandler{tracker: tracker, logger: logger}
}

// mapTrackerErrorToStatus maps errors from core.Tracker to HTTP status codes and ErrorResponse.
func (h *TrackerHandler) mapTrackerErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse
	var remoteErr *db.RemoteError

	switch {
	case errors.Is(err, core.ErrMissingDate):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrMissingDate.Error()}
	case errors.Is(err, core.ErrMissingUser):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "missing fields", Details: err.Error()}
	case errors.Is(err, models.ErrUnknownUser):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: models.ErrUnknownUser.Error(), Details: err.Error()}
	case errors.Is(err, models.ErrInvalidStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: models.ErrInvalidStatus.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrInvalidRequest):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidRequest.Error(), Details: err.Error()}
	case errors.As(err, &remoteErr):
		h.logger.Error("Upstream API error", zap.Error(err))
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "upstream API error", Details: remoteErr.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		statusCode = http.StatusGatewayTimeout
		errResponse = ErrorResponse{Error: "backend timed out"}
	default:
		h.logger.Error("Internal Server Error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// current returns the latest state, refetching first for backends that do
// not push their changes.
func (h *TrackerHandler) current(ctx context.Context) *models.TrackerState {
	if _, push := h.tracker.Backend().(core.Watcher); !push {
		if err := h.tracker.Refresh(ctx); err != nil {
			h.logger.Warn("Serving last known state", zap.Error(err))
		}
	}
	return h.tracker.Snapshot()
}

// Ping handles GET /api/ping
func (h *TrackerHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Health handles GET /health
func (h *TrackerHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Mode: h.tracker.Mode()})
}

// GetData handles GET /api/data
func (h *TrackerHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.current(c.Request.Context()))
}

// Mark handles POST /api/mark
func (h *TrackerHandler) Mark(c *gin.Context) {
	var req models.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing fields", Details: err.Error()})
		return
	}
	if err := h.tracker.Mark(c.Request.Context(), req.Date, req.User, req.Status); err != nil {
		h.mapTrackerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// CloseDay handles POST /api/close-day
func (h *TrackerHandler) CloseDay(c *gin.Context) {
	var req models.CloseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrMissingDate.Error(), Details: err.Error()})
		return
	}
	changed, err := h.tracker.CloseDay(c.Request.Context(), req.Date)
	if err != nil {
		h.mapTrackerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CloseDayResponse{OK: true, Changed: changed})
}

// InitUsers handles POST /api/init
func (h *TrackerHandler) InitUsers(c *gin.Context) {
	var req models.InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "users must be a list", Details: err.Error()})
		return
	}
	if err := h.tracker.InitUsers(c.Request.Context(), req.Users); err != nil {
		h.mapTrackerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// ExportCSV handles GET /api/export-csv
func (h *TrackerHandler) ExportCSV(c *gin.Context) {
	body := core.ExportCSV(h.current(c.Request.Context()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.CSVFileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// ExportJSON handles GET /api/export-json
func (h *TrackerHandler) ExportJSON(c *gin.Context) {
	body, err := core.ExportJSON(h.current(c.Request.Context()))
	if err != nil {
		h.mapTrackerErrorToStatus(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.ExportFileName))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Totals handles GET /api/totals
func (h *TrackerHandler) Totals(c *gin.Context) {
	state := h.current(c.Request.Context())
	c.JSON(http.StatusOK, TotalsResponse{
		Totals: core.TotalsView(state),
		Jar:    core.JarBalance(core.ComputeTotals(state)),
		Text:   core.RenderTotals(state),
	})
}

// Status handles GET /api/status?date=
func (h *TrackerHandler) Status(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrMissingDate.Error()})
		return
	}
	state := h.current(c.Request.Context())
	missing := state.MissingOn(date)
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, StatusResponse{
		Date:    date,
		Users:   core.DayView(state, date),
		Missing: missing,
		Text:    core.RenderDay(state, date),
	})
}

// History handles GET /api/history?user=
func (h *TrackerHandler) History(c *gin.Context) {
	rows := core.FilterHistory(core.HistoryRows(h.current(c.Request.Context())), c.Query("user"))
	c.JSON(http.StatusOK, HistoryResponse{Rows: rows, Text: core.RenderHistory(rows)})
}
