package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/domain/command"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/monitoring"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is applied by the HTTP middleware
	},
}

// Dispatcher executes one command line
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) command.Result
}

// Message is a client frame
type Message struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Command string `json:"command,omitempty"`
}

// Response is a system, pong or error frame
type Response struct {
	Type         string `json:"type"`
	ID           string `json:"id,omitempty"`
	Message      string `json:"message,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// ResultFrame carries a command result, flattened like the /execute body
type ResultFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	command.Result
	Timestamp int64 `json:"timestamp"`
}

// Handler manages WebSocket connections. Commands on one connection run one
// at a time, in the order they arrive.
type Handler struct {
	dispatcher Dispatcher
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(dispatcher Dispatcher, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// HandleConnection upgrades the request and serves frames until the client
// goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	logger := h.logger.With(zap.String("connection_id", connID))
	ctx := c.Request.Context()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	logger.Info("WebSocket connected", zap.String("remote", c.ClientIP()))

	h.send(conn, Response{
		Type:         "system",
		Message:      "Connected to webterm",
		ConnectionID: connID,
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.record("in", "invalid")
			h.sendError(conn, "", "invalid message")
			continue
		}
		h.record("in", msg.Type)

		switch msg.Type {
		case "execute":
			res := h.dispatcher.Dispatch(ctx, msg.Command)
			h.sendResult(conn, msg.ID, res)
		case "ping":
			h.send(conn, Response{Type: "pong", ID: msg.ID})
		default:
			h.sendError(conn, msg.ID, "unknown message type")
		}
	}

	logger.Info("WebSocket disconnected")
}

func (h *Handler) send(conn *websocket.Conn, resp Response) error {
	resp.Timestamp = time.Now().Unix()
	return h.write(conn, resp.Type, resp)
}

func (h *Handler) sendResult(conn *websocket.Conn, id string, res command.Result) error {
	return h.write(conn, "result", ResultFrame{
		Type:      "result",
		ID:        id,
		Result:    res,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Handler) write(conn *websocket.Conn, msgType string, frame any) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}

	h.record("out", msgType)
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Handler) sendError(conn *websocket.Conn, id, msg string) error {
	return h.send(conn, Response{Type: "error", ID: id, Message: msg})
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
