// Package netedge implements the WebSocket wire protocol, connection
// bookkeeping, and per-connection rate limiting that sit between a
// gorilla/websocket connection and a simulated room.
package netedge

import "encoding/json"

// Envelope is the wire shape for every frame in both directions:
// {"type": "<string>", "data": {...}}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client-to-server message types.
const (
	C2SHello = "hello"
	C2SJoin  = "join"
	C2SInput = "input"
	C2SChat  = "chat"
	C2SLeave = "leave"
	C2SPing  = "ping"
)

// Server-to-client message types.
const (
	S2CInfo     = "info"
	S2CVersion  = "version"
	S2CWelcome  = "welcome"
	S2CSnapshot = "snapshot"
	S2CPong     = "pong"
	S2CError    = "error"
)

var validC2S = map[string]bool{
	C2SHello: true, C2SJoin: true, C2SInput: true,
	C2SChat: true, C2SLeave: true, C2SPing: true,
}

// IsValidC2SType reports whether t is a recognized client-to-server message
// type. The connection read loop answers an unknown type with an
// "unknown_type" error frame and keeps the connection open.
func IsValidC2SType(t string) bool { return validC2S[t] }

type HelloPayload struct {
	ClientVersion int `json:"clientVersion"`
}

type JoinPayload struct {
	RoomID      string `json:"roomId,omitempty"`
	MapID       string `json:"mapId,omitempty"`
	Matchmake   bool   `json:"matchmake"`
	PlayerName  string `json:"playerName"`
	WantDeltas  bool   `json:"wantDeltas"`
}

type InputPayload struct {
	Seq      int64   `json:"seq"`
	Dt       float64 `json:"dt"`
	MoveX    float64 `json:"moveX"`
	MoveY    float64 `json:"moveY"`
	Jump     bool    `json:"jump"`
	Sprint   bool    `json:"sprint"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	Fire     bool    `json:"fire"`
	WeaponID string  `json:"weaponId"`
	Reload   bool    `json:"reload"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type PingPayload struct {
	T int64 `json:"t"`
}

type InfoPayload struct {
	Message string `json:"message"`
}

type VersionPayload struct {
	ServerVersion   string `json:"serverVersion"`
	ProtocolVersion int    `json:"protocolVersion"`
}

type WelcomePayload struct {
	PlayerID     string `json:"playerId"`
	RoomID       string `json:"roomId"`
	MapID        string `json:"mapId"`
	Seed         int64  `json:"seed"`
	TickRate     int    `json:"tickRate"`
	SnapshotRate int    `json:"snapshotRate"`
}

type PongPayload struct {
	T int64 `json:"t"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SnapshotPayload is the wire shape of one broadcast wave sent to a single
// player: either the full room view or a delta against the last frame that
// player received, per the connection's diff cache.
type SnapshotPayload struct {
	Mode        string      `json:"mode"`
	ServerTick  int64       `json:"serverTick"`
	BaseTick    int64       `json:"baseTick,omitempty"`
	RoomID      string      `json:"roomId"`
	MapID       string      `json:"mapId"`
	Seed        int64       `json:"seed"`
	You         interface{} `json:"you"`
	Others      interface{} `json:"others"`
	Projectiles interface{} `json:"projectiles"`
	Pickups     interface{} `json:"pickups"`
	Events      interface{} `json:"events"`
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}
