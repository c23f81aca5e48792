package world

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// PickupDef is a pickup spawn point as authored in the map document.
// PickupID is optional; rooms generate a stable id when absent.
type PickupDef struct {
	PickupID string  `json:"pickupId"`
	Kind     string  `json:"kind"`
	Pos      [3]float64 `json:"pos"`
}

// Map is the immutable geometry a room is built on: world bounds, static
// colliders, spawn points, and pickup placements. It never changes after
// Load returns.
type Map struct {
	MapID     string
	Bounds    AABB
	Colliders []AABB
	Spawns    []Vec3
	Pickups   []PickupDef
}

type mapBoundsDoc struct {
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

type mapColliderDoc struct {
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

type mapDoc struct {
	MapID     string           `json:"mapId"`
	Bounds    mapBoundsDoc     `json:"bounds"`
	Colliders []mapColliderDoc `json:"colliders"`
	Spawns    [][3]float64     `json:"spawns"`
	Pickups   []PickupDef      `json:"pickups"`
}

func vecOf(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// LoadMap reads and validates a map JSON document from disk. It returns an
// error (wrapped with the path) if the file is missing, malformed, or
// missing the required top-level fields.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %q", path)
	}

	var doc mapDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse map %q", path)
	}
	if doc.Bounds.Size == ([3]float64{}) && doc.Bounds.Center == ([3]float64{}) {
		return nil, errors.Errorf("map %q: missing bounds", path)
	}
	if doc.Colliders == nil || doc.Spawns == nil || doc.Pickups == nil {
		return nil, errors.Errorf("map %q: missing colliders, spawns or pickups", path)
	}

	m := &Map{
		MapID:  doc.MapID,
		Bounds: AABBFromCenterSize(vecOf(doc.Bounds.Center), vecOf(doc.Bounds.Size)),
	}
	for _, c := range doc.Colliders {
		m.Colliders = append(m.Colliders, AABBFromCenterSize(vecOf(c.Center), vecOf(c.Size)))
	}
	for _, s := range doc.Spawns {
		m.Spawns = append(m.Spawns, vecOf(s))
	}
	m.Pickups = doc.Pickups
	return m, nil
}
