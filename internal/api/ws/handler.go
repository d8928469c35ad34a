package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	outboxSize     = 16
)

// Frame types that are not session events
const (
	TypeSystem        = "system"
	TypePing          = "ping"
	TypePong          = "pong"
	TypeNotifications = "notifications"
	TypeError         = "error"
)

// Handler streams session events to the shell over a WebSocket
type Handler struct {
	session  *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Metrics may be nil.
func NewHandler(s *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		session: s,
		metrics: metrics,
		logger:  logger.Named("ws"),
		upgrader: websocket.Upgrader{
			// Origins are enforced by the CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and pushes every session event
// until either side goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, cancel := h.session.Subscribe(session.DefaultSubscriberBuffer)
	defer cancel()

	outbox := make(chan types.WSMessage, outboxSize)
	quit := make(chan struct{})
	done := make(chan struct{})
	defer close(quit)
	go h.readLoop(conn, outbox, quit, done)

	h.logger.Debug("Client connected", zap.String("remote", c.ClientIP()))
	if err := h.send(conn, types.WSMessage{
		Type: TypeSystem,
		Data: gin.H{"message": "Connected to WebDesk"},
	}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Debug("Client disconnected", zap.String("remote", c.ClientIP()))
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := h.send(conn, types.WSMessage{Type: string(e.Type), Data: e.Data, Timestamp: e.Timestamp}); err != nil {
				return
			}
		case msg := <-outbox:
			if err := h.send(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop answers client frames through outbox. It closes done when the
// connection fails and gives up once quit is closed.
func (h *Handler) readLoop(conn *websocket.Conn, outbox chan<- types.WSMessage, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		reply := h.handle(data)
		select {
		case outbox <- reply:
		case <-quit:
			return
		}
	}
}

// handle builds the reply to one client frame
func (h *Handler) handle(data []byte) types.WSMessage {
	var msg types.WSMessage
	if err := sonic.Unmarshal(data, &msg); err != nil {
		h.record("in", "invalid")
		return types.WSMessage{Type: TypeError, Data: gin.H{"message": "invalid message"}}
	}

	switch msg.Type {
	case TypePing:
		h.record("in", TypePing)
		return types.WSMessage{Type: TypePong, Timestamp: time.Now().UnixMilli()}
	case TypeNotifications:
		h.record("in", TypeNotifications)
		return types.WSMessage{Type: TypeNotifications, Data: h.session.Notifications()}
	default:
		// client-chosen types stay out of the label set
		h.record("in", "unknown")
		return types.WSMessage{Type: TypeError, Data: gin.H{"message": "unknown message type"}}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg types.WSMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode frame", zap.String("type", msg.Type), zap.Error(err))
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return err
	}
	h.record("out", msg.Type)
	return nil
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
