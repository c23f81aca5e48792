package game

import (
	"fmt"
	"math/rand"
	"sync"

	"fight-club/internal/config"
	"fight-club/internal/game/navgrid"
	"fight-club/internal/game/world"
	"fight-club/internal/store"
)

// Room owns one simulated arena: its map, entities, event queues, and
// round state. All mutation happens inside Step, except for the narrow
// doors the net edge is allowed to use (ApplyInput, AddPlayer,
// RemovePlayer, Chat) — see SPEC_FULL.md §5. mu is taken by Step, those
// doors, the count getters and the snapshot read path, so the tick and the
// network goroutines never observe a half-updated entity.
type Room struct {
	mu sync.Mutex

	RoomID string
	MapID  string
	Map    *world.Map
	Config config.RoomConfig
	Store  store.Store

	Seed int64
	rng  *rand.Rand

	Players     map[string]*Player
	Projectiles map[string]*Projectile
	Pickups     map[string]*Pickup
	Bots        map[string]bool
	botState    map[string]*botScratch

	globalEvents    []Event
	directedEvents  map[string][]Event

	T          float64
	ServerTick int64

	roundActive   bool
	roundEndsAt   float64
	roundResetAt  float64
	pendingReset  bool

	Nav *navgrid.Grid

	nextID int64
}

// NewRoom constructs a room on the given map with a fresh random seed,
// seeds its pickups from the map document, and (if enabled) fills it with
// bots up to the configured count.
func NewRoom(roomID string, m *world.Map, cfg config.RoomConfig, st store.Store) *Room {
	seed := rand.Int63n(1<<31-1) + 1
	r := &Room{
		RoomID:         roomID,
		MapID:          m.MapID,
		Map:            m,
		Config:         cfg,
		Store:          st,
		Seed:           seed,
		rng:            rand.New(rand.NewSource(seed)),
		Players:        map[string]*Player{},
		Projectiles:    map[string]*Projectile{},
		Pickups:        map[string]*Pickup{},
		Bots:           map[string]bool{},
		botState:       map[string]*botScratch{},
		directedEvents: map[string][]Event{},
	}
	r.initPickups()
	r.Nav = navgrid.Build(m.Bounds, m.Colliders, cfg.PlayerRadius)
	r.ensureBots()
	return r
}

func (r *Room) initPickups() {
	for i, p := range r.Map.Pickups {
		id := p.PickupID
		if id == "" {
			id = fmt.Sprintf("pk_%d", i)
		}
		r.Pickups[id] = &Pickup{
			PickupID:  id,
			Kind:      p.Kind,
			Pos:       world.Vec3{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]},
			Available: true,
		}
	}
}

func (r *Room) ensureBots() {
	if !r.Config.BotsEnabled {
		return
	}
	maxBots := r.Config.BotCount
	if maxBots > r.Config.MaxPlayersPerRoom-1 {
		maxBots = r.Config.MaxPlayersPerRoom - 1
	}
	if maxBots < 0 {
		maxBots = 0
	}
	for len(r.Bots) < maxBots {
		id := fmt.Sprintf("bot_%d", r.nextID)
		r.nextID++
		r.Bots[id] = true
		r.spawnPlayer(id, fmt.Sprintf("Bot %d", len(r.Bots)))
	}
}

func (r *Room) randomSpawn() world.Vec3 {
	if len(r.Map.Spawns) == 0 {
		return world.Vec3{}
	}
	return r.Map.Spawns[r.rng.Intn(len(r.Map.Spawns))]
}

func (r *Room) spawnPlayer(id, name string) *Player {
	weapons := make(map[string]int, len(r.Config.Weapons))
	for wid, spec := range r.Config.Weapons {
		weapons[wid] = spec.MaxAmmo
	}
	p := newPlayer(id, name, r.randomSpawn(), weapons)
	p.isBot = r.Bots[id]
	r.Players[id] = p
	return p
}

// PlayerCount returns the number of connected human players (bots excluded).
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.Players {
		if !p.isBot {
			n++
		}
	}
	return n
}

// TotalSlots returns the number of occupied player slots, humans and bots
// together — what room capacity is measured against.
func (r *Room) TotalSlots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Players)
}

// ProjectileCount returns the number of in-flight projectiles.
func (r *Room) ProjectileCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Projectiles)
}

// AddPlayer joins a new human player to the room, spawning it and starting
// a round if one isn't already active. Returns an error if the room is
// already at capacity.
func (r *Room) AddPlayer(playerID, name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.Players[playerID]; ok {
		return p, nil
	}
	if len(r.Players) >= r.Config.MaxPlayersPerRoom {
		return nil, fmt.Errorf("room full")
	}
	p := r.spawnPlayer(playerID, name)
	r.pushGlobal(EventJoin, map[string]interface{}{"playerId": p.PlayerID, "name": p.Name})
	if !r.roundActive {
		r.startRound()
	}
	return p, nil
}

// RemovePlayer drops a player from the room (idempotent).
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Players[playerID]
	if !ok {
		return
	}
	delete(r.Players, playerID)
	delete(r.directedEvents, playerID)
	r.pushGlobal(EventLeave, map[string]interface{}{"playerId": p.PlayerID, "name": p.Name})
}

// ApplyInput overwrites a player's pending command if seq is newer than the
// last accepted one. This is the only network-context door onto simulation
// state besides AddPlayer/RemovePlayer. Returns false if the player is
// unknown or the input was stale/duplicate and should be dropped.
//
// window mirrors NetConfig.InputSeqWindow and is evaluated per §4.12's
// "seq ≤ lastInputSeq − window" rule alongside the plain duplicate check;
// since lastInputSeq−window never exceeds lastInputSeq for window≥0, that
// rule can never reject an input the duplicate check wouldn't already
// reject. lastInputSeq is kept strictly monotonic (§3, §8) rather than
// accepting an old sequence as a "reset" — see DESIGN.md for the
// ambiguity this resolves.
func (r *Room) ApplyInput(playerID string, seq, window int64, cmd Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Players[playerID]
	if !ok {
		return false
	}
	if seq <= p.LastInputSeq-window {
		return false
	}
	if seq <= p.LastInputSeq {
		return false
	}
	p.LastInputSeq = seq
	p.LastCmd = cmd
	return true
}

// Chat records a chat line as a global event. Text is assumed already
// trimmed and length-bounded by the net edge before this is called.
func (r *Room) Chat(playerID, name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Players[playerID]; !ok {
		return
	}
	r.pushGlobal(EventChat, map[string]interface{}{
		"playerId": playerID,
		"name":     name,
		"text":     text,
	})
}

func (r *Room) startRound() {
	r.roundActive = true
	r.roundEndsAt = r.T + r.Config.RoundTimeSec
	r.pendingReset = false
	r.pushGlobal(EventRoundStart, map[string]interface{}{"roomId": r.RoomID, "mapId": r.MapID})
}

// roundResetDelaySec is how long the room lingers on a finished round
// (showing the winner) before stats clear and a new round begins.
const roundResetDelaySec = 4.0

// resetRound clears every player's kills/deaths/score, respawns anyone
// currently dead, drops all in-flight projectiles, and starts a fresh
// round. Called from stepScoring once the post-round delay has elapsed.
func (r *Room) resetRound() {
	for id, p := range r.Players {
		p.Kills = 0
		p.Deaths = 0
		p.Score = 0
		if !p.Alive {
			r.respawnPlayer(id)
		}
	}
	for id := range r.Projectiles {
		delete(r.Projectiles, id)
	}
	r.startRound()
}

func (r *Room) pushGlobal(t EventType, payload interface{}) {
	r.globalEvents = append(r.globalEvents, Event{Type: t, Payload: payload})
}

func (r *Room) pushDirected(playerID string, t EventType, payload interface{}) {
	r.directedEvents[playerID] = append(r.directedEvents[playerID], Event{Type: t, Payload: payload})
}

// Step advances the simulation by one fixed tick: bots decide intent, then
// movement, weapons, projectiles, pickups, and scoring run in that fixed
// order, then every player is clamped back within map bounds on XZ.
func (r *Room) Step(serverTick int64, dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ServerTick = serverTick
	r.T += dt

	stepBots(r, dt)
	stepMovement(r, dt)
	stepWeapons(r, dt)
	stepProjectiles(r, dt)
	stepPickups(r, dt)
	stepScoring(r, dt)

	bmin, bmax := r.Map.Bounds.Min, r.Map.Bounds.Max
	for _, p := range r.Players {
		p.Pos.X = world.Clamp(p.Pos.X, bmin.X, bmax.X)
		p.Pos.Z = world.Clamp(p.Pos.Z, bmin.Z, bmax.Z)
	}
}

// RespawnPlayer resets a player to a random spawn at full health. Called by
// the scoring/death systems from within Step, so it assumes the caller
// already holds mu.
func (r *Room) respawnPlayer(playerID string) {
	p, ok := r.Players[playerID]
	if !ok {
		return
	}
	p.Pos = r.randomSpawn()
	p.Vel = world.Vec3{}
	p.HP = 100
	p.Armor = 0
	p.Alive = true
	p.RespawnAt = 0
	p.ReloadingUntil = 0
	p.OnGround = false
	r.pushGlobal(EventRespawn, map[string]interface{}{"playerId": p.PlayerID})
}
