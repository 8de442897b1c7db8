package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"askai-skillbuilder/internal/agent"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool {
		// The chat UI may be served from anywhere during development.
		return true
	},
}

const busyNotice = "I'm currently processing your request. Please wait a moment..."

// inboundEnvelope is the structured form of a user submission. Frames that do
// not parse as JSON are treated as plain text.
type inboundEnvelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// client owns one websocket connection. Outbound frames go through a buffered
// send channel so a slow reader never blocks the agent.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, 256),
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// trySend queues a frame, dropping it when the client is too far behind.
func (c *client) trySend(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("web: marshal frame: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("web: send buffer full, dropping frame")
	}
}

func (c *client) sendStatus(status, detail string) {
	c.trySend(map[string]string{"type": "status", "status": status, "detail": detail})
}

func (c *client) sendMessage(sender, content string) {
	c.trySend(map[string]string{"type": "message", "sender": sender, "content": content})
}

// handleWS runs one chat session. Inbound text is funneled through an
// unbuffered channel to a single dispatch goroutine, so each utterance is
// processed to completion before the next; input arriving mid-dispatch is
// discarded with a busy notice.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	log.Printf("web: session %s connected", sessionID)

	c := newClient(conn)
	go c.writePump()

	trace, err := s.rec.Start(sessionID)
	if err != nil {
		log.Printf("web: session %s trace unavailable: %v", sessionID, err)
	}

	sink := agent.SinkFunc(func(e agent.Event) {
		switch ev := e.(type) {
		case agent.Status:
			c.sendStatus(ev.Status, ev.Detail)
		case agent.Message:
			c.sendMessage(ev.Sender, ev.Content)
		}
	})

	a := agent.New(sessionID, agent.Deps{
		Searcher: s.searcher,
		Analyzer: s.analyzer,
		Skills:   s.skills,
		Sink:     sink,
		Trace:    trace,
	})

	ctx := r.Context()
	a.Introduce(ctx)

	inputs := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for text := range inputs {
			a.HandleInput(ctx, text)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		content := decodeInput(data)
		if strings.TrimSpace(content) == "" {
			continue
		}

		// Echo the user's message back for display.
		c.sendMessage("user", content)

		select {
		case inputs <- content:
		default:
			c.sendMessage("agent", busyNotice)
		}
	}

	close(inputs)
	<-done
	close(c.send)
	_ = trace.Close()
	log.Printf("web: session %s disconnected", sessionID)
}

// decodeInput extracts the user's text from a frame: the envelope's content
// field when the frame parses as JSON, the raw bytes otherwise.
func decodeInput(data []byte) string {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err == nil {
		return env.Content
	}
	return string(data)
}
