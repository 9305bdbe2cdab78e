// Package server optionally streams a generation run's progress over a
// websocket, the way onuse-worldgenerator_go/server.go streams live mesh
// geometry to a browser — same upgrader/per-client-mutex/broadcast shape,
// repointed from a ticking simulation loop at per-stage progress events
// and the final MapSystem bundle instead of a continuous planet mesh.
package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"worldforge/internal/pipeline"
)

// ProgressEvent is broadcast once per report() call within a stage, and
// once more with fraction 1.0 when the driver finishes the stage (§4.8).
type ProgressEvent struct {
	Type     string  `json:"type"`
	Stage    string  `json:"stage"`
	Fraction float64 `json:"fraction"`
}

// ResultEvent carries the finished MapSystem, sent once generation
// completes successfully.
type ResultEvent struct {
	Type string              `json:"type"`
	Map  *pipeline.MapSystem `json:"map"`
}

// ErrorEvent reports a pipeline failure (§7's structured diagnostic).
type ErrorEvent struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server holds the set of connected progress-streaming clients.
type Server struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// New returns an empty Server ready to accept websocket connections.
func New() *Server {
	return &Server{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// HandleWebSocket upgrades the request and registers the connection until
// it errors or the client disconnects. Registered for "/ws" by cmd/worldgen.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMutex
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast JSON-encodes v and writes it to every connected client,
// dropping any that error, mirroring broadcastMeshData's failed-client
// sweep.
func (s *Server) broadcast(v any) {
	s.mu.RLock()
	dead := make([]*websocket.Conn, 0)
	for conn, mu := range s.clients {
		mu.Lock()
		err := conn.WriteJSON(v)
		mu.Unlock()
		if err != nil {
			log.Println("websocket write error:", err)
			conn.Close()
			dead = append(dead, conn)
		}
	}
	s.mu.RUnlock()

	if len(dead) == 0 {
		return
	}
	s.mu.Lock()
	for _, conn := range dead {
		delete(s.clients, conn)
	}
	s.mu.Unlock()
}

// Progress returns a pipeline.Progress callback that broadcasts each
// stage's fraction to every connected client.
func (s *Server) Progress() pipeline.Progress {
	return func(stage pipeline.StageID, fraction float64) {
		s.broadcast(ProgressEvent{Type: "progress", Stage: stage.String(), Fraction: fraction})
	}
}

// BroadcastResult sends the finished MapSystem to every connected client.
func (s *Server) BroadcastResult(ms *pipeline.MapSystem) {
	s.broadcast(ResultEvent{Type: "result", Map: ms})
}

// BroadcastError sends a pipeline failure to every connected client.
func (s *Server) BroadcastError(err *pipeline.Error) {
	s.broadcast(ErrorEvent{
		Type:    "error",
		Kind:    err.Kind.String(),
		Stage:   err.Stage.String(),
		Message: err.Error(),
	})
}

// ClientCount reports the number of currently connected clients, mostly
// useful for tests and diagnostics.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
