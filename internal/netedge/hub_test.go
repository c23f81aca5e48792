package netedge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"fight-club/internal/config"
	"fight-club/internal/game"
	"fight-club/internal/game/world"
)

// fakeRoomSource hands out one pre-built room regardless of mapID/roomID,
// enough for the dispatch-layer tests below which never exercise real
// matchmaking policy.
type fakeRoomSource struct {
	room *game.Room
}

func (f *fakeRoomSource) FindOrCreateRoom(mapID string) (*game.Room, error) {
	return f.room, nil
}

func (f *fakeRoomSource) Room(id string) (*game.Room, bool) {
	if id == f.room.RoomID {
		return f.room, true
	}
	return nil, false
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	m := &world.Map{
		MapID:  "test01",
		Bounds: world.AABB{Min: world.Vec3{X: -20, Y: 0, Z: -20}, Max: world.Vec3{X: 20, Y: 10, Z: 20}},
		Spawns: []world.Vec3{{X: 0, Y: 0, Z: 0}},
	}
	cfg := config.DefaultRoomConfig()
	cfg.BotsEnabled = false
	room := game.NewRoom("room0", m, cfg, nil)

	netCfg := config.DefaultNetConfig()
	serverCfg := config.ServerConfig{ServerVersion: "test", ProtocolVersion: 1}
	hub := NewHub(netCfg, serverCfg, &fakeRoomSource{room: room})

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readEnvelope reads and decodes the next frame, skipping the initial
// S2CInfo greeting ServeWS always sends on connect.
func readEnvelope(t *testing.T, ws *websocket.Conn) Envelope {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("malformed envelope from server: %v", err)
		}
		if env.Type == S2CInfo {
			continue
		}
		return env
	}
}

func TestServeWSSendsErrorOnUnknownType(t *testing.T) {
	_, srv := newTestHub(t)
	ws := dialWS(t, srv)

	if err := ws.WriteJSON(Envelope{Type: "not_a_real_type"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	env := readEnvelope(t, ws)
	if env.Type != S2CError {
		t.Fatalf("Type = %q, want %q", env.Type, S2CError)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("error payload did not decode: %v", err)
	}
	if payload.Code != "unknown_type" {
		t.Errorf("Code = %q, want unknown_type", payload.Code)
	}
}

func TestServeWSSendsErrorOnInputBeforeJoin(t *testing.T) {
	_, srv := newTestHub(t)
	ws := dialWS(t, srv)

	raw, _ := json.Marshal(InputPayload{Seq: 1, Dt: 0.016})
	if err := ws.WriteJSON(Envelope{Type: C2SInput, Data: raw}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	env := readEnvelope(t, ws)
	if env.Type != S2CError {
		t.Fatalf("Type = %q, want %q", env.Type, S2CError)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("error payload did not decode: %v", err)
	}
	if payload.Code != "not_joined" {
		t.Errorf("Code = %q, want not_joined", payload.Code)
	}
}

func TestServeWSSendsErrorOnChatBeforeJoin(t *testing.T) {
	_, srv := newTestHub(t)
	ws := dialWS(t, srv)

	raw, _ := json.Marshal(ChatPayload{Text: "hi"})
	if err := ws.WriteJSON(Envelope{Type: C2SChat, Data: raw}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	env := readEnvelope(t, ws)
	if env.Type != S2CError {
		t.Fatalf("Type = %q, want %q", env.Type, S2CError)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("error payload did not decode: %v", err)
	}
	if payload.Code != "not_joined" {
		t.Errorf("Code = %q, want not_joined", payload.Code)
	}
}

func TestServeWSJoinThenInputIsAccepted(t *testing.T) {
	_, srv := newTestHub(t)
	ws := dialWS(t, srv)

	joinRaw, _ := json.Marshal(JoinPayload{PlayerName: "Tester"})
	if err := ws.WriteJSON(Envelope{Type: C2SJoin, Data: joinRaw}); err != nil {
		t.Fatalf("join write failed: %v", err)
	}
	env := readEnvelope(t, ws)
	if env.Type != S2CWelcome {
		t.Fatalf("Type = %q, want %q", env.Type, S2CWelcome)
	}

	inputRaw, _ := json.Marshal(InputPayload{Seq: 1, Dt: 0.016, WeaponID: "pistol"})
	if err := ws.WriteJSON(Envelope{Type: C2SInput, Data: inputRaw}); err != nil {
		t.Fatalf("input write failed: %v", err)
	}

	// No error frame should follow a valid, post-join input; ping instead to
	// get a deterministic reply and confirm the connection is still healthy.
	pingRaw, _ := json.Marshal(PingPayload{T: 42})
	if err := ws.WriteJSON(Envelope{Type: C2SPing, Data: pingRaw}); err != nil {
		t.Fatalf("ping write failed: %v", err)
	}
	env = readEnvelope(t, ws)
	if env.Type != S2CPong {
		t.Fatalf("Type = %q, want %q (input before it should not have produced an error frame)", env.Type, S2CPong)
	}
}
