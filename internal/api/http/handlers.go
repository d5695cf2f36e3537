package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/domain/command"
	"github.com/GriffinCanCode/webterm/internal/domain/session"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webterm/internal/providers/system"
)

// Version is reported by the status endpoints
const Version = "0.1.0"

// Dispatcher executes one command line
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) command.Result
}

// ExecuteRequest is the body of POST /execute
type ExecuteRequest struct {
	Command string `json:"command"`
}

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher Dispatcher
	session    *session.State
	metrics    *monitoring.Metrics
	shellMode  string
	logger     *zap.Logger
	startTime  time.Time
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(dispatcher Dispatcher, state *session.State, metrics *monitoring.Metrics, shellMode string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		dispatcher: dispatcher,
		session:    state,
		metrics:    metrics,
		shellMode:  shellMode,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Root reports that the service is up
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "webterm",
		"version": Version,
	})
}

// Health reports the session cursor and process details
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"cwd":        h.session.Dir(),
		"shell_mode": h.shellMode,
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
		"runtime":    system.Runtime(),
	})
}

// Execute runs one command. The response is always 200 with the result
// triple; a body that can't be decoded is treated as an empty command.
func (h *Handlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Malformed execute request", zap.Error(err))
		req.Command = ""
	}

	c.JSON(http.StatusOK, h.dispatcher.Dispatch(c.Request.Context(), req.Command))
}

// MetricsSummary returns the running totals as JSON
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
