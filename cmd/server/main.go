package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fight-club/internal/api"
	"fight-club/internal/config"
	"fight-club/internal/game"
	"fight-club/internal/game/world"
	"fight-club/internal/netedge"
	"fight-club/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	cfg := config.Load()

	maps, err := loadMaps(cfg.Server.MapsDir)
	if err != nil {
		log.Fatalf("loading maps: %v", err)
	}
	if _, ok := maps[cfg.Room.DefaultMapID]; !ok {
		log.Fatalf("default map %q not found in %s", cfg.Room.DefaultMapID, cfg.Server.MapsDir)
	}

	st, err := newStore(cfg.Server)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	if closer, ok := st.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	manager := game.NewManager(cfg, maps, st)

	hub := netedge.NewHub(cfg.Net, cfg.Server, manager)

	svc := &api.Service{
		Manager:   manager,
		Store:     st,
		Server:    cfg.Server,
		Room:      cfg.Room,
		ServerID:  uuid.NewString(),
		StartedAt: time.Now(),
	}
	server := api.NewServer(svc, cfg.Net, hub.ServeWS)

	if err := api.StartDebugServer(api.DefaultDebugConfig()); err != nil {
		log.Printf("debug server did not start: %v", err)
	}

	manager.SetTickObserver(api.RecordTick)
	manager.Start(hub.BroadcastRoom)
	defer manager.Stop()

	go reportGaugesPeriodically(manager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()
	defer server.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("http server stopped: %v", err)
	case s := <-sig:
		log.Printf("received %v, shutting down", s)
	}
}

// loadMaps globs every *.json file under dir and loads it as a map
// document, keyed by the mapId each file declares.
func loadMaps(dir string) (map[string]*world.Map, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no map files found under %s", dir)
	}
	out := make(map[string]*world.Map, len(paths))
	for _, p := range paths {
		m, err := world.LoadMap(p)
		if err != nil {
			return nil, err
		}
		out[m.MapID] = m
	}
	return out, nil
}

// reportGaugesPeriodically keeps the room/player/projectile Prometheus
// gauges fresh without instrumenting the tick loop itself.
func reportGaugesPeriodically(manager *game.Manager) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		rooms := manager.Rooms()
		players, projectiles := 0, 0
		for _, r := range rooms {
			players += r.TotalSlots()
			projectiles += r.ProjectileCount()
		}
		api.UpdateRoomCount(len(rooms))
		api.UpdatePlayerCount(players)
		api.UpdateProjectileCount(projectiles)
	}
}

func newStore(cfg config.ServerConfig) (store.Store, error) {
	if cfg.SQLiteEnabled {
		return store.NewSQLiteStore(cfg.SQLitePath)
	}
	return store.NewMemoryStore(), nil
}
