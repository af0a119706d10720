// Undercover — an odd-one-out party guessing game.
//
// One player secretly receives a differently-worded prompt than everyone
// else. All players answer, answers are revealed at once, and the group
// votes on who had the odd prompt. Guessing right scores the group a point
// each; guessing wrong scores the odd player.
//
// Features:
// - Rooms keyed by short crypto-random codes, with server-side collision check
// - One WebSocket per player: /undercover/ws, request/ack framing
// - Private per-player prompts at round start; never sent on the broadcast path
// - Quorum-driven stage advancement over the currently-connected player set
// - Host reassignment on disconnect, join-order first
// - Rooms with no connected players auto-reaped after a configurable timeout
// - In-browser QR button to share a room code, backed by go-qrcode

package main

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// clientRequest is the envelope for every message a player sends.
type clientRequest struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Name      string `json:"name,omitempty"`
	Code      string `json:"code,omitempty"`
	Answer    string `json:"answer,omitempty"`
	TargetID  string `json:"targetId,omitempty"`
}

// ackMessage answers exactly one clientRequest.
type ackMessage struct {
	Type      string       `json:"type"` // "ack"
	RequestID string       `json:"requestId,omitempty"`
	OK        bool         `json:"ok"`
	Error     string       `json:"error,omitempty"`
	Code      string       `json:"code,omitempty"`
	State     *PublicState `json:"state,omitempty"`
}

// pushMessage carries a room event to a client.
type pushMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type Client struct {
	conn   *websocket.Conn
	send   chan any
	connID string
}

// Gateway routes requests from sockets into the registry and delivers the
// resulting events back out, privately or room-wide.
type Gateway struct {
	cfg *Config
	reg *Registry

	mu      sync.Mutex
	clients map[string]*Client
}

func newGateway(cfg *Config, reg *Registry) *Gateway {
	return &Gateway{
		cfg:     cfg,
		reg:     reg,
		clients: make(map[string]*Client),
	}
}

func (gw *Gateway) addClient(c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.clients[c.connID] = c
}

func (gw *Gateway) removeClient(c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if _, ok := gw.clients[c.connID]; ok {
		delete(gw.clients, c.connID)
		close(c.send)
	}
}

// sendTo queues a message for one connection, evicting it if its buffer is
// full.
func (gw *Gateway) sendTo(connID string, msg any) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	c, ok := gw.clients[connID]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(gw.clients, connID)
		close(c.send)
	}
}

// deliver fans room events out: targeted events to one connection, the rest
// to every member with a live socket.
func (gw *Gateway) deliver(room *Room, events []Event) {
	members := room.MemberIDs()
	for _, ev := range events {
		msg := pushMessage{Type: ev.Name, Payload: ev.Payload}
		if ev.To != "" {
			gw.sendTo(ev.To, msg)
			continue
		}
		for _, id := range members {
			gw.sendTo(id, msg)
		}
	}
}

func (gw *Gateway) ack(c *Client, req clientRequest) ackMessage {
	return ackMessage{Type: "ack", RequestID: req.RequestID, OK: true}
}

func (gw *Gateway) nack(c *Client, req clientRequest, err error) {
	gw.sendTo(c.connID, ackMessage{
		Type:      "ack",
		RequestID: req.RequestID,
		Error:     err.Error(),
	})
}

func (gw *Gateway) handle(c *Client, req clientRequest) {
	switch req.Type {
	case "room:create":
		room, events := gw.reg.Create(c.connID, req.Name)
		state := room.Snapshot()
		ack := gw.ack(c, req)
		ack.Code = room.Code()
		ack.State = &state
		gw.sendTo(c.connID, ack)
		gw.deliver(room, events)
		logf(gw.cfg, "GAMES: %q created room %s", state.Players[0].Name, room.Code())

	case "room:join":
		room, ok := gw.reg.Get(req.Code)
		if !ok {
			gw.nack(c, req, ErrRoomNotFound)
			return
		}
		events, err := room.Join(c.connID, req.Name)
		if err != nil {
			gw.nack(c, req, err)
			return
		}
		state := room.Snapshot()
		ack := gw.ack(c, req)
		ack.Code = room.Code()
		ack.State = &state
		gw.sendTo(c.connID, ack)
		gw.deliver(room, events)
		logf(gw.cfg, "GAMES: Player joined room %s", room.Code())

	case "room:leave":
		// Silently ignored when the room or player is unknown.
		if room, ok := gw.reg.Get(req.Code); ok {
			gw.deliver(room, room.Leave(c.connID))
		}
		gw.sendTo(c.connID, gw.ack(c, req))

	case "round:start":
		room, ok := gw.reg.Get(req.Code)
		if !ok {
			gw.nack(c, req, ErrRoomNotFound)
			return
		}
		events, err := room.StartRound(c.connID)
		if err != nil {
			gw.nack(c, req, err)
			return
		}
		gw.sendTo(c.connID, gw.ack(c, req))
		gw.deliver(room, events)
		logf(gw.cfg, "GAMES: Round started in room %s", room.Code())

	case "round:submitAnswer":
		room, ok := gw.reg.Get(req.Code)
		if !ok {
			gw.nack(c, req, ErrRoomNotFound)
			return
		}
		events, err := room.SubmitAnswer(c.connID, req.Answer)
		if err != nil {
			gw.nack(c, req, err)
			return
		}
		gw.sendTo(c.connID, gw.ack(c, req))
		gw.deliver(room, events)

	case "round:vote":
		room, ok := gw.reg.Get(req.Code)
		if !ok {
			gw.nack(c, req, ErrRoomNotFound)
			return
		}
		events, err := room.CastVote(c.connID, req.TargetID)
		if err != nil {
			gw.nack(c, req, err)
			return
		}
		gw.sendTo(c.connID, gw.ack(c, req))
		gw.deliver(room, events)

	default:
		// ignore unknown types
	}
}

// disconnect handles a closed socket: mark the player gone in every room and
// push the updated projections.
func (gw *Gateway) disconnect(c *Client) {
	gw.removeClient(c)
	for _, re := range gw.reg.Disconnect(c.connID) {
		gw.deliver(re.Room, re.Events)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, gw *Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:   conn,
			send:   make(chan any, 8),
			connID: uuid.NewString(),
		}

		gw.addClient(client)

		// The client needs its own connection id to recognize itself in
		// the player list.
		client.send <- pushMessage{Type: "session", Payload: sessionPayload{ID: client.connID}}

		go client.writePump()
		client.readPump(gw)
	}
}

func (c *Client) readPump(gw *Gateway) {
	defer func() {
		gw.disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		var req clientRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			return
		}
		gw.handle(c, req)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for a room's join URL using go-qrcode.
func qrHandler(cfg *Config, path string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := strings.ToUpper(strings.TrimSpace(ps.ByName("code")))
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + path + "?room=" + code

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func serveGamePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(gamePageHTML))
}

// registerUndercoverGame sets up routes so that:
//   - $path           → HTML client (reads ?room= to prefill a join code)
//   - $path/ws        → per-player WebSocket
//   - $path/qr/:code  → PNG QR code for a room's join URL
func registerUndercoverGame(cfg *Config, path string, mux *httprouter.Router) error {
	pairs := DefaultPairSource()
	if cfg.questions != "" {
		loaded, err := LoadPairSource(cfg.questions)
		if err != nil {
			return err
		}
		pairs = loaded
		logf(cfg, "GAMES: Loaded %d question pairs from %s", pairs.Len(), cfg.questions)
	}

	reg := NewRegistry(cfg, pairs)
	gw := newGateway(cfg, reg)

	mux.GET(cfg.prefix+path, serveGamePage)
	mux.GET(cfg.prefix+path+"/ws", serveWS(cfg, gw))
	mux.GET(cfg.prefix+path+"/qr/:code", qrHandler(cfg, path))

	return nil
}
