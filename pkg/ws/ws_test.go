package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

func startHub(t *testing.T) *ws.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return hub
}

func connected(n float64) func() bool {
	return func() bool { return testutil.ToFloat64(metrics.FeedClients) == n }
}

func TestPublishReachesClients(t *testing.T) {
	hub := startHub(t)

	srv := httptest.NewServer(http.HandlerFunc(hub.Upgrade))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, connected(1), 2*time.Second, 10*time.Millisecond)

	hub.Publish(map[string]string{"type": "order.created"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"order.created"}`, string(msg))
}

func TestClientDisconnectIsTracked(t *testing.T) {
	hub := startHub(t)

	srv := httptest.NewServer(http.HandlerFunc(hub.Upgrade))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, connected(1), 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, connected(0), 2*time.Second, 10*time.Millisecond)
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *ws.Hub
	assert.NotPanics(t, func() { hub.Publish("x") })
}
