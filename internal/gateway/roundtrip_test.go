package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jredh-dev/nexus-sms/internal/config"
	"github.com/jredh-dev/nexus-sms/internal/gateway"
	"github.com/jredh-dev/nexus-sms/internal/handlers"
	"github.com/jredh-dev/nexus-sms/internal/hub"
	"github.com/jredh-dev/nexus-sms/internal/logging"
	"github.com/jredh-dev/nexus-sms/internal/sms"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) find(msg string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(b.buf.String(), "\n") {
		var rec map[string]any
		if json.Unmarshal([]byte(line), &rec) == nil && rec["msg"] == msg {
			return rec
		}
	}
	return nil
}

// TestRoundTrip drives MO -> MT -> DLR through the mock gateway and the test
// client over real HTTP and websocket connections.
func TestRoundTrip(t *testing.T) {
	h := hub.New(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	gw := gateway.New(&config.Gateway{DLRDelay: 10 * time.Millisecond}, h, sms.NewHTTPSender(5*time.Second), logging.Discard())
	gr := chi.NewRouter()
	gw.Routes(gr)
	gsrv := httptest.NewServer(gr)
	defer gsrv.Close()

	logs := &syncBuffer{}
	clientLog := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cr := chi.NewRouter()
	csrv := httptest.NewServer(cr)
	defer csrv.Close()

	cfg := &config.Client{
		MTURL: gsrv.URL + "/mt",
		MT: map[string]any{
			"account":  "acc",
			"username": "user",
			"password": "pass",
			"price":    "0.10",
			"dlr_url":  csrv.URL + "/dlr",
		},
		ReplyDelay: 10 * time.Millisecond,
	}
	client := handlers.New(cfg, sms.NewHTTPSender(5*time.Second), clientLog)
	client.Routes(cr)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(gsrv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(hub.Message{
		Type: hub.TypeMO,
		Data: map[string]string{
			"url":      csrv.URL + "/mo",
			"short_id": "1234",
			"from":     "+1555",
			"text":     "PING please",
			"provider": "test",
		},
	}))

	seen := map[string]hub.Message{}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(seen) < 2 {
		var m hub.Message
		require.NoError(t, conn.ReadJSON(&m))
		seen[m.Type] = m
	}

	assert.Equal(t, "success", seen[hub.TypeMOReply].Data["status"])

	mt := seen[hub.TypeMT]
	assert.Equal(t, "+1555", mt.Data["to"])
	assert.Equal(t, "PING please", mt.Data["text"])
	assert.Equal(t, "PING@1234", mt.Data["keyword"])
	assert.Equal(t, "acc", mt.Data["account"])
	_, hasFrom := mt.Data["from"]
	assert.False(t, hasFrom)

	client.Wait()
	gw.Wait()

	dlr := logs.find("Received DLR")
	require.NotNil(t, dlr, "client never logged the DLR")
	payload, ok := dlr["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "+1555", payload["mobile"])
	assert.Equal(t, sms.DLRStatusDelivered, payload["status"])

	resp := logs.find("MT response")
	require.NotNil(t, resp)
	mtResp, ok := resp["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "success", mtResp["status"])
	assert.Equal(t, mtResp["msg_id"], payload["msgId"])
}
