package ws

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

func setup(t *testing.T) (*session.Manager, *monitoring.Metrics, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := session.NewManager(nil, session.DefaultOptions(), nil, nil)
	require.NoError(t, err)
	metrics := monitoring.NewMetrics()

	router := gin.New()
	router.GET("/stream", NewHandler(m, metrics, nil).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return m, metrics, conn
}

func readFrame(t *testing.T, conn *websocket.Conn) types.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg types.WSMessage
	require.NoError(t, sonic.Unmarshal(data, &msg))
	return msg
}

func TestStreamPushesSessionEvents(t *testing.T) {
	m, metrics, conn := setup(t)

	assert.Equal(t, TypeSystem, readFrame(t, conn).Type)
	assert.Equal(t, 1, m.Subscribers())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WSConnections))

	_, err := m.Launch("calculator", "", "")
	require.NoError(t, err)
	msg := readFrame(t, conn)
	assert.Equal(t, string(session.EventWindowsChanged), msg.Type)
	assert.NotZero(t, msg.Timestamp)
	assert.Equal(t, "launch", msg.Data.(map[string]any)["op"])

	m.Notify(session.LevelSuccess, "saved", nil)
	msg = readFrame(t, conn)
	assert.Equal(t, string(session.EventNotification), msg.Type)
	assert.Equal(t, "saved", msg.Data.(map[string]any)["message"])
}

func TestStreamAnswersClientFrames(t *testing.T) {
	m, metrics, conn := setup(t)
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, TypePong, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	assert.Equal(t, TypeError, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, TypeError, readFrame(t, conn).Type)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WSMessages.WithLabelValues("in", "ping")))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WSMessages.WithLabelValues("out", "pong")) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, m.Subscribers())
}

func TestUnknownFrameTypesShareOneSeries(t *testing.T) {
	m, err := session.NewManager(nil, session.DefaultOptions(), nil, nil)
	require.NoError(t, err)
	metrics := monitoring.NewMetrics()
	h := NewHandler(m, metrics, nil)

	for i := range 200 {
		reply := h.handle([]byte(fmt.Sprintf(`{"type":"junk-%d"}`, i)))
		assert.Equal(t, TypeError, reply.Type)
	}
	h.handle([]byte(`{"type":"ping"}`))

	assert.Equal(t, 2, testutil.CollectAndCount(metrics.WSMessages))
	assert.Equal(t, 200.0, testutil.ToFloat64(metrics.WSMessages.WithLabelValues("in", "unknown")))
}

func TestStreamDrainsNotifications(t *testing.T) {
	m, _, conn := setup(t)
	readFrame(t, conn)

	m.Notify(session.LevelInfo, "one", nil)
	assert.Equal(t, string(session.EventNotification), readFrame(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"notifications"}`)))
	msg := readFrame(t, conn)
	assert.Equal(t, TypeNotifications, msg.Type)
	assert.Len(t, msg.Data, 1)
	assert.Empty(t, m.Notifications())
}

func TestStreamUnsubscribesOnClose(t *testing.T) {
	m, metrics, conn := setup(t)
	readFrame(t, conn)
	require.Equal(t, 1, m.Subscribers())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Eventually(t, func() bool { return m.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return testutil.ToFloat64(metrics.WSConnections) == 0 }, 2*time.Second, 10*time.Millisecond)
}
