package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fight-club/internal/config"
	"fight-club/internal/game"
	"fight-club/internal/store"
)

// RoomLister is the subset of *game.Manager the control surface needs:
// matchmaking and enumeration. Kept as an interface so router tests can
// fake it without a real simulation running.
type RoomLister interface {
	Rooms() []*game.Room
	FindOrCreateRoom(mapID string) (*game.Room, error)
}

// Service bundles everything the control surface's handlers read: the room
// manager, the persistence store, and the static server identity used in
// the version/health payloads.
type Service struct {
	Manager   RoomLister
	Store     store.Store
	Server    config.ServerConfig
	Room      config.RoomConfig
	ServerID  string
	StartedAt time.Time
}

func (s *Service) versionPayload() map[string]interface{} {
	return map[string]interface{}{
		"serverId":        s.ServerID,
		"serverVersion":   s.Server.ServerVersion,
		"protocolVersion": s.Server.ProtocolVersion,
		"simulationHz":    s.Room.SimulationHz,
		"snapshotHz":      s.Room.SnapshotHz,
	}
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router, kept separate from Service so tests can swap a fake RoomLister.
type RouterConfig struct {
	Service *Service

	// RateLimiter is an optional pre-configured rate limiter. If nil, a
	// new one is created using RateLimitConfig.
	RateLimiter *IPRateLimiter
	// RateLimitConfig configures the rate limiter when RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSAllowAll and CORSAllowedOrigins mirror config.NetConfig.
	CORSAllowAll       bool
	CORSAllowedOrigins []string

	// WSHandler serves GET /ws (the netedge hub's upgrade handler).
	WSHandler http.HandlerFunc

	// DisableLogging turns off the request logger middleware, useful in tests.
	DisableLogging bool
}

// NewRouter constructs the HTTP control surface: health, version, rooms,
// matchmake, leaderboard, schema, and the WebSocket upgrade route. It is
// pure — no goroutines, no listeners — so it's safe to drive with
// httptest.NewServer in tests.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.CORSAllowedOrigins
	if cfg.CORSAllowAll {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: !cfg.CORSAllowAll,
		MaxAge:           86400,
	}))

	h := &routerHandlers{svc: cfg.Service}

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Get("/version", h.handleVersion)
	r.Get("/rooms", h.handleRooms)
	r.Post("/matchmake", h.handleMatchmake)
	r.Get("/leaderboard", h.handleLeaderboard)
	r.Get("/schema", h.handleSchema)
	if cfg.WSHandler != nil {
		r.Get("/ws", cfg.WSHandler)
	}

	return r
}

type routerHandlers struct {
	svc *Service
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type roomInfo struct {
	RoomID     string `json:"roomId"`
	MapID      string `json:"mapId"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
}

func publicRoomInfo(r *game.Room) roomInfo {
	return roomInfo{
		RoomID:     r.RoomID,
		MapID:      r.MapID,
		Players:    r.TotalSlots(),
		MaxPlayers: r.Config.MaxPlayersPerRoom,
	}
}

func (h *routerHandlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"ok":      true,
		"service": "fight-club",
		"endpoints": map[string]string{
			"health":      "/health",
			"version":     "/version",
			"rooms":       "/rooms",
			"matchmake":   "/matchmake",
			"leaderboard": "/leaderboard",
			"schema":      "/schema",
			"ws":          "/ws",
		},
	}
	for k, v := range h.svc.versionPayload() {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	rooms := h.svc.Manager.Rooms()
	players := 0
	for _, room := range rooms {
		players += room.TotalSlots()
	}
	body := map[string]interface{}{
		"ok":        true,
		"uptimeSec": time.Since(h.svc.StartedAt).Seconds(),
		"rooms":     len(rooms),
		"players":   players,
	}
	for k, v := range h.svc.versionPayload() {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *routerHandlers) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.versionPayload())
}

func (h *routerHandlers) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.svc.Manager.Rooms()
	out := make([]roomInfo, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, publicRoomInfo(room))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": out})
}

func (h *routerHandlers) handleMatchmake(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MapID string `json:"mapId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	room, err := h.svc.Manager.FindOrCreateRoom(body.MapID)
	if err != nil {
		status := http.StatusTooManyRequests
		if err == game.ErrUnknownMap {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"roomId": room.RoomID})
}

func (h *routerHandlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Store.Leaderboard(25)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// handleSchema returns a self-describing document of the wire protocol and
// map format: this repository has no shared/schema.json companion file
// (the original's lives outside what was retrieved), so the shapes are
// built from the same constants the rest of the server uses.
func (h *routerHandlers) handleSchema(w http.ResponseWriter, r *http.Request) {
	weapons := make(map[string]config.WeaponSpec, len(h.svc.Room.Weapons))
	for id, spec := range h.svc.Room.Weapons {
		weapons[id] = spec
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"protocolVersion": h.svc.Server.ProtocolVersion,
		"envelope":        map[string]string{"type": "string", "data": "object"},
		"clientToServer":  []string{"hello", "join", "input", "chat", "leave", "ping"},
		"serverToClient":  []string{"info", "version", "welcome", "snapshot", "pong", "error"},
		"events": []string{
			"join", "leave", "round_start", "round_end", "respawn", "damage",
			"kill", "hit", "miss", "fire", "reload", "reload_done", "pickup",
			"pickup_spawn", "projectile_spawn", "projectile_hit", "explosion", "chat",
		},
		"weapons": weapons,
		"map": map[string]string{
			"mapId":     "string",
			"bounds":    "{center:[x,y,z], size:[sx,sy,sz]}",
			"colliders": "[{center,size}]",
			"spawns":    "[[x,y,z]]",
			"pickups":   "[{pickupId?, kind, pos:[x,y,z]}]",
		},
	})
}
