package game

import (
	"testing"

	"fight-club/internal/config"
	"fight-club/internal/game/world"
)

func testManager(t *testing.T, maxRooms, maxPlayers int) *Manager {
	t.Helper()
	cfg := config.Load()
	cfg.Room = testRoomConfig()
	cfg.Room.MaxRooms = maxRooms
	cfg.Room.MaxPlayersPerRoom = maxPlayers
	cfg.Room.DefaultMapID = "test01"

	maps := map[string]*world.Map{"test01": testMap()}
	return NewManager(cfg, maps, nil)
}

func TestFindOrCreateRoomCreatesThenReuses(t *testing.T) {
	m := testManager(t, 10, 16)

	r1, err := m.FindOrCreateRoom("test01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1.AddPlayer("p1", "Alice")

	r2, err := m.FindOrCreateRoom("test01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.RoomID != r2.RoomID {
		t.Error("expected a room under capacity to be reused rather than creating a new one")
	}
}

func TestFindOrCreateRoomDefaultsMapID(t *testing.T) {
	m := testManager(t, 10, 16)
	r, err := m.FindOrCreateRoom("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.MapID != "test01" {
		t.Errorf("MapID = %q, want the configured default", r.MapID)
	}
}

func TestFindOrCreateRoomUnknownMap(t *testing.T) {
	m := testManager(t, 10, 16)
	_, err := m.FindOrCreateRoom("nonexistent-map")
	if err != ErrUnknownMap {
		t.Errorf("err = %v, want ErrUnknownMap", err)
	}
}

func TestFindOrCreateRoomCapacityReached(t *testing.T) {
	m := testManager(t, 1, 1)
	r, err := m.FindOrCreateRoom("test01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.AddPlayer("p1", "Alice") // fills the only room to its 1-player cap

	_, err = m.FindOrCreateRoom("test01")
	if err != ErrRoomsFull {
		t.Errorf("err = %v, want ErrRoomsFull", err)
	}
}

func TestManagerRoomLookup(t *testing.T) {
	m := testManager(t, 10, 16)
	r, _ := m.FindOrCreateRoom("test01")

	got, ok := m.Room(r.RoomID)
	if !ok || got.RoomID != r.RoomID {
		t.Error("expected Room to find the created room by id")
	}

	if _, ok := m.Room("nope"); ok {
		t.Error("expected Room to report false for an unknown id")
	}

	if len(m.Rooms()) != 1 {
		t.Errorf("Rooms() = %d, want 1", len(m.Rooms()))
	}
}

func TestManagerStepAllAdvancesEveryRoom(t *testing.T) {
	// A 1-player-per-room cap forces FindOrCreateRoom to spin up a second
	// room once the first fills, giving us two distinct rooms to check.
	m := testManager(t, 2, 1)
	r1, _ := m.FindOrCreateRoom("test01")
	r1.AddPlayer("p1", "Alice")

	r2, err := m.FindOrCreateRoom("test01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.RoomID == r2.RoomID {
		t.Fatal("expected a second distinct room")
	}

	m.stepAll(1.0 / 60.0)
	if r1.ServerTick != 1 || r2.ServerTick != 1 {
		t.Errorf("expected both rooms to advance one tick: r1=%d r2=%d", r1.ServerTick, r2.ServerTick)
	}
}
