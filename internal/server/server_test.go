package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"worldforge/internal/pipeline"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func TestProgressBroadcastReachesClient(t *testing.T) {
	s := New()
	ts := httptest.NewServer(http.HandlerFunc(s.HandleWebSocket))
	defer ts.Close()

	conn := dial(t, ts.URL)
	defer conn.Close()

	waitForClientCount(t, s, 1)

	report := s.Progress()
	report(pipeline.StageDetail, 0.5)

	var evt ProgressEvent
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("reading progress event: %v", err)
	}
	if evt.Type != "progress" || evt.Stage != "Detail" || evt.Fraction != 0.5 {
		t.Fatalf("unexpected event: %+v", evt)
	}
}

func TestClientRemovedOnDisconnect(t *testing.T) {
	s := New()
	ts := httptest.NewServer(http.HandlerFunc(s.HandleWebSocket))
	defer ts.Close()

	conn := dial(t, ts.URL)
	waitForClientCount(t, s, 1)

	conn.Close()
	waitForClientCount(t, s, 0)
}

func waitForClientCount(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for client count %d, got %d", want, s.ClientCount())
}
