package game

import "fight-club/internal/game/world"

// YouView is the full first-person state sent to the owning player. Its
// field set is also what the net edge's delta diff cache compares against
// the previous tick to build a changed-subset-only payload.
type YouView struct {
	PlayerID     string     `json:"playerId"`
	Pos          [3]float64 `json:"pos"`
	Vel          [3]float64 `json:"vel"`
	Yaw          float64    `json:"yaw"`
	Pitch        float64    `json:"pitch"`
	HP           float64    `json:"hp"`
	Armor        float64    `json:"armor"`
	WeaponID     string     `json:"weaponId"`
	Ammo         int        `json:"ammo"`
	Alive        bool       `json:"alive"`
	Kills        int        `json:"kills"`
	Deaths       int        `json:"deaths"`
	Score        int        `json:"score"`
	LastInputSeq int64      `json:"lastInputSeq"`
}

// OtherView is what every other connected player sees of a given player:
// no ammo count or input sequence, since those are private to the owner.
type OtherView struct {
	PlayerID string     `json:"playerId"`
	Name     string     `json:"name"`
	Pos      [3]float64 `json:"pos"`
	Yaw      float64    `json:"yaw"`
	HP       float64    `json:"hp"`
	Alive    bool       `json:"alive"`
}

type ProjectileView struct {
	ProjectileID string     `json:"projectileId"`
	WeaponID     string     `json:"weaponId"`
	Pos          [3]float64 `json:"pos"`
}

type PickupView struct {
	PickupID  string     `json:"pickupId"`
	Kind      string     `json:"kind"`
	Pos       [3]float64 `json:"pos"`
	Available bool       `json:"available"`
}

// RoomSnapshot is the full, undiffed state handed to the net edge for one
// player on one broadcast wave. The net edge decides whether to ship it in
// full or reduce You to a changed-field delta.
type RoomSnapshot struct {
	RoomID      string
	MapID       string
	Seed        int64
	ServerTick  int64
	You         YouView
	Others      []OtherView
	Projectiles []ProjectileView
	Pickups     []PickupView
	Events      []Event
}

func vecArr(v world.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// BuildSnapshot assembles the full state visible to playerID as of right
// now. ok is false if the player isn't in the room (already disconnected).
func (r *Room) BuildSnapshot(playerID string, events []Event) (RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.Players[playerID]
	if !ok {
		return RoomSnapshot{}, false
	}

	snap := RoomSnapshot{
		RoomID:     r.RoomID,
		MapID:      r.MapID,
		Seed:       r.Seed,
		ServerTick: r.ServerTick,
		Events:     events,
		You: YouView{
			PlayerID:     me.PlayerID,
			Pos:          vecArr(me.Pos),
			Vel:          vecArr(me.Vel),
			Yaw:          me.Yaw,
			Pitch:        me.Pitch,
			HP:           me.HP,
			Armor:        me.Armor,
			WeaponID:     me.WeaponID,
			Ammo:         me.Ammo[me.WeaponID],
			Alive:        me.Alive,
			Kills:        me.Kills,
			Deaths:       me.Deaths,
			Score:        me.Score,
			LastInputSeq: me.LastInputSeq,
		},
	}

	for id, p := range r.Players {
		if id == playerID {
			continue
		}
		snap.Others = append(snap.Others, OtherView{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Pos:      vecArr(p.Pos),
			Yaw:      p.Yaw,
			HP:       p.HP,
			Alive:    p.Alive,
		})
	}
	for _, proj := range r.Projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ProjectileID: proj.ProjectileID,
			WeaponID:     proj.WeaponID,
			Pos:          vecArr(proj.Pos),
		})
	}
	for _, pk := range r.Pickups {
		snap.Pickups = append(snap.Pickups, PickupView{
			PickupID:  pk.PickupID,
			Kind:      pk.Kind,
			Pos:       vecArr(pk.Pos),
			Available: pk.Available,
		})
	}
	return snap, true
}

// DrainGlobalEvents takes and clears the room's shared event queue. Called
// once per broadcast wave before BuildSnapshot fans out to each player.
func (r *Room) DrainGlobalEvents() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.globalEvents
	r.globalEvents = nil
	return ev
}

// DrainDirectedEvents takes and clears one player's private event queue.
func (r *Room) DrainDirectedEvents(playerID string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.directedEvents[playerID]
	delete(r.directedEvents, playerID)
	return ev
}

// PlayerIDs returns a snapshot of the currently connected player ids.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	return ids
}
