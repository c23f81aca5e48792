package config

import (
	"os"
	"testing"
)

func TestDefaultRoomConfig(t *testing.T) {
	cfg := DefaultRoomConfig()
	if cfg.SimulationHz != 60 || cfg.SnapshotHz != 30 {
		t.Errorf("expected 60Hz simulation / 30Hz snapshot, got %d/%d", cfg.SimulationHz, cfg.SnapshotHz)
	}
	if cfg.SimulationHz%cfg.SnapshotHz != 0 {
		t.Error("expected simulation rate to be an integer multiple of the snapshot rate")
	}
	if len(cfg.Weapons) != 3 {
		t.Errorf("expected 3 stock weapons, got %d", len(cfg.Weapons))
	}
}

func TestRoomConfigWeaponFallback(t *testing.T) {
	cfg := DefaultRoomConfig()
	if w := cfg.Weapon("does-not-exist"); w.WeaponID != "pistol" {
		t.Errorf("expected an unknown weapon id to fall back to pistol, got %q", w.WeaponID)
	}
	if w := cfg.Weapon("rocket"); w.WeaponID != "rocket" {
		t.Errorf("expected a known weapon id to resolve itself, got %q", w.WeaponID)
	}
}

func TestRoomConfigFromEnvOverrides(t *testing.T) {
	os.Setenv("FPS_BOT_COUNT", "7")
	os.Setenv("FPS_MAX_ROOMS", "3")
	defer os.Unsetenv("FPS_BOT_COUNT")
	defer os.Unsetenv("FPS_MAX_ROOMS")

	cfg := RoomConfigFromEnv()
	if cfg.BotCount != 7 {
		t.Errorf("BotCount = %d, want 7", cfg.BotCount)
	}
	if cfg.MaxRooms != 3 {
		t.Errorf("MaxRooms = %d, want 3", cfg.MaxRooms)
	}
}

func TestNetConfigFromEnvParsesOriginList(t *testing.T) {
	os.Setenv("FPS_CORS_ORIGINS", "https://a.example, https://b.example")
	os.Setenv("FPS_CORS_ALLOW_ALL", "false")
	defer os.Unsetenv("FPS_CORS_ORIGINS")
	defer os.Unsetenv("FPS_CORS_ALLOW_ALL")

	cfg := NetConfigFromEnv()
	if cfg.CORSAllowAll {
		t.Error("expected CORSAllowAll to be false")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d: %v", len(cfg.CORSAllowedOrigins), cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("origin[0] = %q", cfg.CORSAllowedOrigins[0])
	}
}

func TestGetEnvBoolVariants(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"on", true},
		{"0", false}, {"false", false}, {"no", false}, {"off", false},
		{"garbage", true}, // falls back to defaultVal, which we pass as true below
	}
	for _, tt := range tests {
		os.Setenv("FPS_TEST_BOOL", tt.val)
		if got := getEnvBool("FPS_TEST_BOOL", true); got != tt.want {
			t.Errorf("getEnvBool(%q, true) = %v, want %v", tt.val, got, tt.want)
		}
	}
	os.Unsetenv("FPS_TEST_BOOL")
}

func TestLoadAggregatesAllSections(t *testing.T) {
	cfg := Load()
	if cfg.Room.SimulationHz == 0 {
		t.Error("expected Load to populate RoomConfig")
	}
	if cfg.Server.ServerVersion == "" {
		t.Error("expected Load to populate ServerConfig")
	}
}
