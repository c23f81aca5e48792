package netedge

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"fight-club/internal/api"
	"fight-club/internal/config"
	"fight-club/internal/game"
)

// newPlayerID mints a fresh connection-scoped player id. Unlike the room
// id (a short hex string meant to be typed/shared for direct joins), this
// never needs to be human-facing, so a full UUID is fine.
func newPlayerID() string { return uuid.NewString() }

// RoomSource is the subset of *game.Manager the net edge needs: matchmaking
// and lookup by id. Kept as an interface so connection tests can fake it.
type RoomSource interface {
	FindOrCreateRoom(mapID string) (*game.Room, error)
	Room(id string) (*game.Room, bool)
}

// Hub owns the upgrader and per-connection bookkeeping for every open
// WebSocket. It holds no game state of its own — each connection's Room
// pointer is the only thing it needs once joined.
type Hub struct {
	cfg      config.NetConfig
	server   config.ServerConfig
	rooms    RoomSource
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*conn]struct{}

	conns *api.WSConnLimiter
}

// NewHub builds a hub bound to the given room source. CORS on the upgrade
// handshake follows the same allow-list as the HTTP control surface.
func NewHub(cfg config.NetConfig, server config.ServerConfig, rooms RoomSource) *Hub {
	h := &Hub{
		cfg:     cfg,
		server:  server,
		rooms:   rooms,
		clients: map[*conn]struct{}{},
		conns:   api.NewWSConnLimiter(cfg.MaxConnsPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.cfg.CORSAllowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.cfg.CORSAllowedOrigins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// conn is one connected player's session: its socket, its room membership,
// its rate limiters, and its snapshot diff cache.
type conn struct {
	ws   *websocket.Conn
	hub  *Hub
	send chan []byte

	inputLimiter *rate.Limiter
	chatLimiter  *rate.Limiter

	mu         sync.Mutex
	playerID   string
	playerName string
	room       *game.Room
	diff       diffCache
	wantDeltas bool
	helloSeen  bool
}

// ServeWS upgrades an HTTP request to a WebSocket and runs the connection's
// read/write loops until it closes. Blocks until the connection ends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := api.GetClientIP(r)
	if !h.conns.Acquire(ip) {
		api.RecordConnectionRejected("ws_limit")
		http.Error(w, "too many connections from this address", http.StatusTooManyRequests)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.conns.Release(ip)
		return
	}

	c := &conn{
		ws:           ws,
		hub:          h,
		send:         make(chan []byte, 64),
		inputLimiter: rate.NewLimiter(rate.Limit(h.cfg.InputRatePerSec), int(h.cfg.InputBurst)),
		chatLimiter:  rate.NewLimiter(rate.Limit(h.cfg.ChatRatePerSec), int(h.cfg.ChatBurst)),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	api.UpdateWSConnections(len(h.clients))
	h.mu.Unlock()

	c.write(S2CInfo, InfoPayload{Message: "fight-club " + h.server.ServerVersion})

	go c.writeLoop()
	c.readLoop()

	h.mu.Lock()
	delete(h.clients, c)
	api.UpdateWSConnections(len(h.clients))
	h.mu.Unlock()
	h.conns.Release(ip)

	c.leave()
	close(c.send)
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.sendError("bad_envelope", "malformed message")
			continue
		}
		if !IsValidC2SType(env.Type) {
			c.sendError("unknown_type", "unrecognized message type")
			continue
		}
		c.dispatch(env)
	}
}

func (c *conn) dispatch(env Envelope) {
	switch env.Type {
	case C2SHello:
		c.handleHello(env.Data)
	case C2SJoin:
		c.handleJoin(env.Data)
	case C2SInput:
		c.handleInput(env.Data)
	case C2SChat:
		c.handleChat(env.Data)
	case C2SPing:
		c.handlePing(env.Data)
	case C2SLeave:
		c.leave()
	}
}

func (c *conn) handleHello(raw json.RawMessage) {
	var p HelloPayload
	_ = json.Unmarshal(raw, &p)
	c.mu.Lock()
	c.helloSeen = true
	c.mu.Unlock()
	c.write(S2CVersion, VersionPayload{
		ServerVersion:   c.hub.server.ServerVersion,
		ProtocolVersion: c.hub.server.ProtocolVersion,
	})
}

// handleJoin matchmakes or joins a specific room, then sends the welcome
// frame. want_deltas is always forced false on join: the first snapshot a
// connection ever gets must be a full one regardless of what the client
// asked for, so its diff cache always starts from a known baseline.
func (c *conn) handleJoin(raw json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("bad_join", "malformed join payload")
		return
	}
	name := strings.TrimSpace(p.PlayerName)
	if name == "" {
		name = "player"
	}
	if len(name) > 24 {
		name = name[:24]
	}

	var room *game.Room
	var err error
	if p.RoomID != "" {
		var ok bool
		room, ok = c.hub.rooms.Room(p.RoomID)
		if !ok {
			c.sendError("unknown_room", "no such room")
			return
		}
	} else {
		room, err = c.hub.rooms.FindOrCreateRoom(p.MapID)
		if err != nil {
			c.sendError("join_failed", err.Error())
			return
		}
	}

	playerID := newPlayerID()
	if _, err := room.AddPlayer(playerID, name); err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.mu.Lock()
	c.playerID = playerID
	c.playerName = name
	c.room = room
	c.wantDeltas = false
	c.diff = diffCache{}
	c.mu.Unlock()

	c.write(S2CWelcome, WelcomePayload{
		PlayerID:     playerID,
		RoomID:       room.RoomID,
		MapID:        room.MapID,
		Seed:         room.Seed,
		TickRate:     c.hub.roomTickRate(),
		SnapshotRate: c.hub.roomSnapshotRate(),
	})
}

func (h *Hub) roomTickRate() int     { return tickRateHz }
func (h *Hub) roomSnapshotRate() int { return snapshotRateHz }

// BroadcastRoom fans one snapshot wave out to every connection currently
// joined to r. It drains r's global event queue exactly once and each
// recipient's directed queue exactly once, concatenating global events
// before directed ones so every client sees the same total order within
// the wave.
func (h *Hub) BroadcastRoom(r *game.Room) {
	global := r.DrainGlobalEvents()

	h.mu.Lock()
	recipients := make([]*conn, 0, len(h.clients))
	for c := range h.clients {
		c.mu.Lock()
		joined := c.room == r
		c.mu.Unlock()
		if joined {
			recipients = append(recipients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range recipients {
		c.mu.Lock()
		playerID := c.playerID
		wantDeltas := c.wantDeltas
		c.mu.Unlock()

		directed := r.DrainDirectedEvents(playerID)
		events := make([]game.Event, 0, len(global)+len(directed))
		events = append(events, global...)
		events = append(events, directed...)

		snap, ok := r.BuildSnapshot(playerID, events)
		if !ok {
			continue
		}

		c.mu.Lock()
		mode, baseTick, you := c.diff.diffYou(snap.You, snap.ServerTick, wantDeltas)
		c.mu.Unlock()

		c.write(S2CSnapshot, SnapshotPayload{
			Mode:        mode,
			ServerTick:  snap.ServerTick,
			BaseTick:    baseTick,
			RoomID:      snap.RoomID,
			MapID:       snap.MapID,
			Seed:        snap.Seed,
			You:         you,
			Others:      snap.Others,
			Projectiles: snap.Projectiles,
			Pickups:     snap.Pickups,
			Events:      snap.Events,
		})
	}
}

// tickRateHz and snapshotRateHz mirror config.DefaultRoomConfig's simulation
// and broadcast cadence for the welcome handshake; they're compiled
// constants here rather than plumbed through RoomSource because every room
// in the process runs the same manager-wide cadence.
const (
	tickRateHz     = 60
	snapshotRateHz = 30
)

func (c *conn) handleInput(raw json.RawMessage) {
	c.mu.Lock()
	room := c.room
	playerID := c.playerID
	c.mu.Unlock()
	if room == nil {
		c.sendError("not_joined", "join a room before sending input")
		return
	}
	if !c.inputLimiter.Allow() {
		return
	}

	var p InputPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	dt := p.Dt
	if dt < 0 {
		dt = 0
	}
	if dt > c.hub.cfg.MaxDt {
		dt = c.hub.cfg.MaxDt
	}

	cmd := game.Command{
		MoveX:    clamp(p.MoveX, -1, 1),
		MoveY:    clamp(p.MoveY, -1, 1),
		Jump:     p.Jump,
		Sprint:   p.Sprint,
		Yaw:      normalizeYaw(p.Yaw),
		Pitch:    clamp(p.Pitch, -1.4, 1.4),
		Fire:     p.Fire,
		WeaponID: p.WeaponID,
		Reload:   p.Reload,
	}
	room.ApplyInput(playerID, p.Seq, int64(c.hub.cfg.InputSeqWindow), cmd)
}

func (c *conn) handleChat(raw json.RawMessage) {
	c.mu.Lock()
	room := c.room
	playerID := c.playerID
	name := c.playerName
	c.mu.Unlock()
	if room == nil {
		c.sendError("not_joined", "join a room before sending chat")
		return
	}
	if !c.chatLimiter.Allow() {
		return
	}
	var p ChatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return
	}
	if len(text) > 160 {
		text = text[:160]
	}
	room.Chat(playerID, name, text)
}

func (c *conn) handlePing(raw json.RawMessage) {
	var p PingPayload
	_ = json.Unmarshal(raw, &p)
	c.write(S2CPong, PongPayload{T: p.T})
}

func (c *conn) leave() {
	c.mu.Lock()
	room := c.room
	playerID := c.playerID
	c.room = nil
	c.mu.Unlock()
	if room != nil && playerID != "" {
		room.RemovePlayer(playerID)
	}
}

func (c *conn) write(msgType string, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
		api.IncrementWSMessages()
		if msgType == S2CSnapshot {
			api.RecordSnapshotSent()
		}
	default:
		log.Printf("netedge: dropping slow connection write for %s", msgType)
		if msgType == S2CSnapshot {
			api.RecordSnapshotDropped()
		}
	}
}

func (c *conn) sendError(code, message string) {
	c.write(S2CError, ErrorPayload{Code: code, Message: message})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeYaw folds yaw into (-π, π], matching the movement system's own
// normalization (internal/game/movement.go) so the net edge's validation
// pipeline and the simulation tick agree on the wire convention even
// though the tick re-normalizes whatever it receives.
func normalizeYaw(yaw float64) float64 {
	for yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	for yaw <= -math.Pi {
		yaw += 2 * math.Pi
	}
	return yaw
}
