// Quizbox room
//
// One moderator and any number of anonymous players share a single room.
// Players pick a display name and type answers into a shared log; the
// moderator sets the answer, the value of the round and the lock, and
// curates the log and the scoreboard.
//
// Features:
// - One WebSocket endpoint (/ws) carrying JSON envelopes {type, data, ack}
// - Every change is fanned out to all clients; new clients get a replay
// - A single goroutine owns the room state, so each action is atomic
// - Names are checked once and bound to the connection with their role
// - Slow clients whose buffer fills up are dropped rather than waited on
// - In-browser QR button to share the room, backed by go-qrcode

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/quizbox/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64

	// Bounds on the size of one inbound frame.
	minReadLimit = 64 << 10
	maxReadLimit = 1 << 20
)

// Messages coming from clients
type ClientMessage struct {
	Type string          `json:"type"`          // "check_name", "submit_answer", "toggle_lock", ...
	Data json.RawMessage `json:"data,omitempty"` // event payload
	Ack  json.RawMessage `json:"ack,omitempty"`  // echoed back on replies
}

// Messages sent to clients
type ServerMessage struct {
	Type string          `json:"type"`
	Data any             `json:"data"`
	Ack  json.RawMessage `json:"ack,omitempty"`
}

type submitPayload struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type scorePayload struct {
	Name  string          `json:"name"`
	Delta json.RawMessage `json:"delta"`
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan ServerMessage

	// Set by a successful check_name. Only the hub goroutine touches these.
	name       string
	privileged bool
}

type clientEvent struct {
	client *Client
	msg    ClientMessage
}

// Hub fans room changes out to every connected client. It is the only
// goroutine that touches the session.
type Hub struct {
	cfg     *Config
	session *session.Session
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	events   chan clientEvent
	done     chan struct{}
}

func newHub(cfg *Config) *Hub {
	return &Hub{
		cfg: cfg,
		session: session.New(session.Options{
			Moderator:        cfg.moderator,
			MaxMessageLength: cfg.maxMessageLength,
		}),
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		events:   make(chan clientEvent),
		done:     make(chan struct{}),
	}
}

func (h *Hub) run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			for _, ev := range h.session.Replay() {
				h.deliver(c, ServerMessage{Type: ev.Name, Data: ev.Data})
			}

		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case ev := <-h.events:
			h.handle(ev.client, ev.msg)
		}
	}
}

// closeAll disconnects every client once the hub stops.
func (h *Hub) closeAll() {
	close(h.done)

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// deliver queues msg for c without blocking. A client that cannot keep up
// is disconnected.
func (h *Hub) deliver(c *Client, msg ServerMessage) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		logf(h.cfg, "QUIZ: Dropping slow client %s", c.id)
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg ServerMessage) {
	for c := range h.clients {
		h.deliver(c, msg)
	}
}

func (h *Hub) emit(c *Client, events []session.Event) {
	for _, ev := range events {
		msg := ServerMessage{Type: ev.Name, Data: ev.Data}
		if ev.Private {
			h.deliver(c, msg)
		} else {
			h.broadcast(msg)
		}
	}
}

// handle applies one client action to the session and emits the result.
// Malformed payloads are ignored.
func (h *Hub) handle(c *Client, msg ClientMessage) {
	s := h.session

	switch msg.Type {
	case "check_name":
		var name string
		_ = json.Unmarshal(msg.Data, &name)

		res := s.CheckName(name)
		if res.Success {
			c.name = name
			c.privileged = res.Privileged
		}
		logf(h.cfg, "QUIZ: Name check for %q from %s: %t", name, c.id, res.Success)

		h.deliver(c, ServerMessage{Type: "check_name", Data: res, Ack: msg.Ack})

	case "submit_answer":
		var p submitPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}

		name, privileged := p.Name, s.Privileged(p.Name)
		if c.name != "" {
			name, privileged = c.name, c.privileged
		}

		before := s.Points()
		events := s.SubmitAnswer(name, p.Text, privileged)
		if len(events) > 0 {
			logf(h.cfg, "QUIZ: %q submitted %q", name, p.Text)
		}
		if after := s.Points(); after != before {
			logf(h.cfg, "QUIZ: Round now worth %d points", after)
		}
		h.emit(c, events)

	case "set_correct_answer":
		var raw string
		if err := json.Unmarshal(msg.Data, &raw); err != nil {
			return
		}
		h.emit(c, s.SetCorrectAnswer(raw))
		logf(h.cfg, "QUIZ: Answer set to %q", s.AnswerKey().Raw())

	case "toggle_lock":
		var locked bool
		if err := json.Unmarshal(msg.Data, &locked); err != nil {
			return
		}
		h.emit(c, s.ToggleLock(locked))
		logf(h.cfg, "QUIZ: Submissions locked: %t", s.Locked())

	case "set_limit":
		h.emit(c, s.SetSubmissionLimit(parseLimit(msg.Data)))
		logf(h.cfg, "QUIZ: Submission limit set to %d", s.Limit())

	case "delete_msg":
		id := parseID(msg.Data)
		events := s.DeleteMessage(id)
		if len(events) > 0 {
			logf(h.cfg, "QUIZ: Deleted message %s", id)
		}
		h.emit(c, events)

	case "toggle_scoreboard":
		var visible bool
		if err := json.Unmarshal(msg.Data, &visible); err != nil {
			return
		}
		logf(h.cfg, "QUIZ: Scoreboard visible: %t", visible)
		h.emit(c, s.ToggleScoreboard(visible))

	case "update_score":
		var p scorePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		delta, ok := parseInt(p.Delta)
		if !ok {
			return
		}
		events := s.UpdateScore(p.Name, delta)
		if len(events) > 0 {
			logf(h.cfg, "QUIZ: Adjusted score of %q by %d", p.Name, delta)
		}
		h.emit(c, events)

	case "delete_player":
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			return
		}
		logf(h.cfg, "QUIZ: Removing player %q", name)
		h.emit(c, s.DeletePlayer(name))

	case "reset_stars":
		logf(h.cfg, "QUIZ: Winners cleared")
		h.emit(c, s.ResetWinners())

	case "order_scoreboard":
		logf(h.cfg, "QUIZ: Scoreboard ordered by score")
		h.emit(c, s.OrderScoreboard())

	default:
		// ignore unknown types
	}
}

// parseInt reads an integer from a JSON number or a numeric string.
// Fractions are truncated toward zero and a string may carry trailing
// garbage after its leading digits, so "3 tries" reads as 3.
func parseInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false
	}

	str = strings.TrimSpace(str)
	end := 0
	for end < len(str) {
		ch := str[end]
		if (ch == '-' || ch == '+') && end == 0 {
			end++
			continue
		}
		if ch < '0' || ch > '9' {
			break
		}
		end++
	}

	n, err := strconv.Atoi(str[:end])
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}

	return n, true
}

// parseLimit coerces a submission limit. Anything that is not a number
// means no limit.
func parseLimit(raw json.RawMessage) int {
	n, ok := parseInt(raw)
	if !ok || n < 0 {
		return 0
	}

	return n
}

// parseID accepts a message id as a JSON string or as a bare number.
func parseID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}

	return string(bytes.TrimSpace(raw))
}

// submit hands an event to the hub unless it has stopped.
func (h *Hub) submit(ev clientEvent) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan ServerMessage, sendBufferSize),
		}

		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "QUIZ: Client %s connected from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(h)

		logf(cfg, "QUIZ: Client %s disconnected", client.id)
	}
}

// readLimit leaves room for a submission of the longest legal length at
// four bytes a rune plus its envelope. Longer texts still arrive and are
// truncated by the session.
func readLimit(cfg *Config) int64 {
	if cfg.maxMessageLength == 0 {
		return maxReadLimit
	}

	return max(int64(cfg.maxMessageLength)*4+1024, minReadLimit)
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit(h.cfg))
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				logf(h.cfg, "QUIZ: Client %s sent a frame over %d bytes", c.id, readLimit(h.cfg))
			}
			return
		}

		h.submit(clientEvent{client: c, msg: msg})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// QR handler: generates a PNG QR code for the room URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/"

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// registerQuiz sets up routes so that:
//   - $prefix/                   → HTML client
//   - $prefix/assets/quiz/*      → client script and styles
//   - $prefix/ws                 → WebSocket for the room
//   - $prefix/qr                 → PNG QR code for the room URL
func registerQuiz(ctx context.Context, cfg *Config, mux *httprouter.Router, errs chan<- error) *Hub {
	hub := newHub(cfg)
	go hub.run(ctx)

	mux.GET(cfg.prefix+"/", serveIndex(cfg, errs))
	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))
	mux.GET(cfg.prefix+"/ws", serveWS(cfg, hub))
	mux.GET(cfg.prefix+"/qr", qrHandler(cfg))

	return hub
}
