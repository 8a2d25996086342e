package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/atikulmunna/agentlog/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const wsLogDataLimit = 10

func newUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigin),
	}
}

// originChecker admits clients without an Origin header (non-browser),
// the configured dashboard origin, and pages served by this host.
func originChecker(allowedOrigin string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowedOrigin != "" && strings.EqualFold(origin, allowedOrigin) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// wsMessage is the envelope for every message in both directions.
type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// handleWebSocket upgrades to WebSocket and streams push events to the client.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	log.Printf("[SOCKET] client connected: %s", id)
	defer log.Printf("[SOCKET] client disconnected: %s", id)

	events := s.hub.Subscribe()
	defer s.hub.Unsubscribe(events)

	// Read pump: forwards client requests and detects disconnect.
	requests := make(chan string, 8)
	go func() {
		defer close(requests)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg wsMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			select {
			case requests <- msg.Event:
			default:
			}
		}
	}()

	// Write pump: the only goroutine that writes to conn.
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(wsMessage{Event: ev.Name, Data: ev.Data}); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}
		case req, ok := <-requests:
			if !ok {
				return
			}
			if !strings.EqualFold(req, "requestLogUpdate") {
				continue
			}
			if err := conn.WriteJSON(wsMessage{Event: model.EventLogData, Data: s.logData()}); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}
		}
	}
}

func (s *Server) logData() gin.H {
	entries, err := s.ingest.Recent(wsLogDataLimit)
	if err != nil {
		log.Printf("[SOCKET] error fetching log data: %v", err)
		return gin.H{"success": false, "error": err.Error()}
	}
	return gin.H{"success": true, "entries": entries, "total": len(entries)}
}
