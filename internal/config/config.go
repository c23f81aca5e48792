// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all room, network, and weapon
// settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// WEAPON SPECS
// =============================================================================

// WeaponFamily distinguishes instantaneous hitscan weapons from travelling
// projectile weapons.
type WeaponFamily string

const (
	FamilyHitscan    WeaponFamily = "hitscan"
	FamilyProjectile WeaponFamily = "projectile"
)

// WeaponSpec is the static, read-only description of one weapon.
type WeaponSpec struct {
	WeaponID string
	Family   WeaponFamily
	Damage   float64
	FireRate float64 // shots/sec
	SpreadRad float64
	Pellets  int
	Range    float64
	MaxAmmo  int
	ReloadSec float64

	ProjectileSpeed    float64
	ProjectileRadius   float64
	ExplosionRadius    float64
}

// DefaultWeapons returns the stock weapon table: pistol, shotgun, rocket.
func DefaultWeapons() map[string]WeaponSpec {
	return map[string]WeaponSpec{
		"pistol": {
			WeaponID: "pistol", Family: FamilyHitscan,
			Damage: 18, FireRate: 3, SpreadRad: 0.01,
			Pellets: 1, Range: 80, MaxAmmo: 12, ReloadSec: 1.4,
		},
		"shotgun": {
			WeaponID: "shotgun", Family: FamilyHitscan,
			Damage: 8, FireRate: 1, SpreadRad: 0.10,
			Pellets: 8, Range: 35, MaxAmmo: 8, ReloadSec: 2.6,
		},
		"rocket": {
			WeaponID: "rocket", Family: FamilyProjectile,
			Damage: 95, FireRate: 0.8, SpreadRad: 0,
			Pellets: 1, Range: 120, MaxAmmo: 4, ReloadSec: 3.2,
			ProjectileSpeed: 22, ProjectileRadius: 0.18, ExplosionRadius: 3,
		},
	}
}

// =============================================================================
// MOVEMENT CAPS
// =============================================================================

// MovementCaps bounds the movement system's acceleration/speed/gravity math.
type MovementCaps struct {
	Accel          float64
	MaxSpeedWalk   float64
	MaxSpeedSprint float64
	Friction       float64
	Gravity        float64
	JumpSpeed      float64
	AirControl     float64
}

func DefaultMovementCaps() MovementCaps {
	return MovementCaps{
		Accel: 45, MaxSpeedWalk: 6, MaxSpeedSprint: 9,
		Friction: 14, Gravity: 22, JumpSpeed: 8.5, AirControl: 0.35,
	}
}

// =============================================================================
// ROOM CONFIGURATION
// =============================================================================

// RoomConfig holds the tunables a room needs to run its simulation: tick
// rates, player/room caps, round rules, world dimensions, bots, and the
// weapon table.
type RoomConfig struct {
	SimulationHz int
	SnapshotHz   int

	MaxRooms         int
	MaxPlayersPerRoom int
	DefaultMapID     string
	KillsToWin       int
	RoundTimeSec     float64
	RespawnSec       float64

	PlayerRadius float64
	PlayerHeight float64
	EyeHeight    float64

	Movement MovementCaps
	Weapons  map[string]WeaponSpec

	BotsEnabled bool
	BotCount    int
}

// DefaultRoomConfig returns production defaults, matching the source's
// constants (simulation at 60Hz, snapshots at 30Hz, 8-minute rounds, etc).
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		SimulationHz: 60,
		SnapshotHz:   30,

		MaxRooms:          20,
		MaxPlayersPerRoom: 16,
		DefaultMapID:      "map01",
		KillsToWin:        25,
		RoundTimeSec:      8 * 60,
		RespawnSec:        3,

		PlayerRadius: 0.35,
		PlayerHeight: 1.75,
		EyeHeight:    1.55,

		Movement: DefaultMovementCaps(),
		Weapons:  DefaultWeapons(),

		BotsEnabled: true,
		BotCount:    4,
	}
}

// RoomConfigFromEnv overlays environment variable overrides onto
// DefaultRoomConfig. Weapon specs and movement caps are not environment
// tunable in this deployment; they come from the compiled-in table.
func RoomConfigFromEnv() RoomConfig {
	cfg := DefaultRoomConfig()
	if v := getEnvInt("FPS_BOT_COUNT", -1); v >= 0 {
		cfg.BotCount = v
	}
	cfg.BotsEnabled = getEnvBool("FPS_BOTS", cfg.BotsEnabled)
	if v := getEnvInt("FPS_MAX_ROOMS", -1); v >= 0 {
		cfg.MaxRooms = v
	}
	if v := getEnvInt("FPS_MAX_PLAYERS_PER_ROOM", -1); v >= 0 {
		cfg.MaxPlayersPerRoom = v
	}
	if v := os.Getenv("FPS_DEFAULT_MAP_ID"); v != "" {
		cfg.DefaultMapID = v
	}
	return cfg
}

func (c RoomConfig) Weapon(weaponID string) WeaponSpec {
	if w, ok := c.Weapons[weaponID]; ok {
		return w
	}
	return c.Weapons["pistol"]
}

// =============================================================================
// NET CONFIGURATION
// =============================================================================

// NetConfig holds the net edge's validation and rate-limiting tunables.
type NetConfig struct {
	MaxDt           float64
	InputSeqWindow  int

	InputRatePerSec float64
	InputBurst      float64
	ChatRatePerSec  float64
	ChatBurst       float64

	MaxConnsPerIP int

	CORSAllowAll       bool
	CORSAllowedOrigins []string
}

func DefaultNetConfig() NetConfig {
	return NetConfig{
		MaxDt:          0.05,
		InputSeqWindow: 240,

		InputRatePerSec: 120,
		InputBurst:      240,
		ChatRatePerSec:  1.5,
		ChatBurst:       3,

		MaxConnsPerIP: 8,

		CORSAllowAll: true,
	}
}

func NetConfigFromEnv() NetConfig {
	cfg := DefaultNetConfig()
	cfg.MaxConnsPerIP = getEnvInt("FPS_MAX_CONNS_PER_IP", cfg.MaxConnsPerIP)
	cfg.CORSAllowAll = getEnvBool("FPS_CORS_ALLOW_ALL", cfg.CORSAllowAll)
	if v := os.Getenv("FPS_CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	return cfg
}

// =============================================================================
// HTTP SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int

	ServerVersion   string
	ProtocolVersion int

	SQLiteEnabled bool
	SQLitePath    string

	MapsDir string
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8765,
		ServerVersion:   "0.1.0",
		ProtocolVersion: 1,
		SQLiteEnabled:   false,
		SQLitePath:      "server_stats.sqlite3",
		MapsDir:         "./maps",
	}
}

func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if v := os.Getenv("FPS_HOST"); v != "" {
		cfg.Host = v
	}
	if v := getEnvInt("FPS_PORT", 0); v > 0 {
		cfg.Port = v
	}
	cfg.SQLiteEnabled = getEnvBool("FPS_SQLITE", cfg.SQLiteEnabled)
	if v := os.Getenv("FPS_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("FPS_MAPS_DIR"); v != "" {
		cfg.MapsDir = v
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Room   RoomConfig
	Net    NetConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Room:   RoomConfigFromEnv(),
		Net:    NetConfigFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultVal
	}
}
