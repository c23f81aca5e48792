package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-player labels to prevent DoS)
var (
	// Game engine metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_tick_duration_seconds",
		Help:    "Time spent in game tick",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	roomCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_room_count",
		Help: "Current number of live rooms",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_player_count",
		Help: "Current number of players across all rooms",
	})

	projectileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_projectile_count",
		Help: "Current number of in-flight projectiles across all rooms",
	})

	// Snapshot fan-out metrics
	snapshotsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshots_sent_total",
		Help: "Total snapshot frames written to connections",
	})

	snapshotsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshots_dropped_total",
		Help: "Snapshot frames dropped because a connection's send buffer was full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "invalid", "ws_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is path pattern, not full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})

	// Rate limiter decisions, one vector shared by every limiter the control
	// surface and net edge run (HTTP per-IP buckets, WS per-IP connection
	// caps) so a dashboard can compare them without wiring a metric per
	// limiter kind. Bounded: limiter is one of "http_ip"/"ws_conn", decision
	// is "allowed"/"rejected".
	rateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_decisions_total",
		Help: "Rate limiter allow/reject decisions by limiter and outcome",
	}, []string{"limiter", "decision"})
)

// DebugConfig controls the side-channel server that exposes Prometheus
// metrics and pprof profiling for the room simulation. It is never the
// same listener as the control surface or the WebSocket net edge.
type DebugConfig struct {
	Enabled       bool
	ListenAddr    string
	BasicAuthUser string
	BasicAuthPass string
}

const debugLocalAddr = "127.0.0.1:6060"

func DefaultDebugConfig() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: debugLocalAddr,
	}
}

// debugMux assembles the pprof + metrics + health routes shared by the
// debug server, factored out so tests can exercise routing without binding
// a listener.
func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// RunDebugServer starts the metrics/pprof listener and blocks until it
// exits, unlike StartDebugServer's background goroutine; cmd/server runs
// it in its own goroutine alongside the control surface and net edge.
// Binding anywhere but loopback is refused unless FIGHT_CLUB_DEBUG_EXTERNAL
// is set, since pprof's profile/trace endpoints are themselves a DoS
// surface if reachable from outside the host.
func RunDebugServer(cfg DebugConfig) error {
	if !cfg.Enabled {
		log.Print("debug server disabled")
		return nil
	}

	addr := cfg.ListenAddr
	if addr != debugLocalAddr && addr != "localhost:6060" && os.Getenv("FIGHT_CLUB_DEBUG_EXTERNAL") != "true" {
		log.Printf("debug server address %q is not loopback, forcing %s", addr, debugLocalAddr)
		addr = debugLocalAddr
	}

	var handler http.Handler = debugMux()
	if cfg.BasicAuthUser != "" {
		handler = requireBasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass, handler)
	}

	log.Printf("debug server listening on %s (pprof + /metrics)", addr)
	return http.ListenAndServe(addr, handler)
}

// StartDebugServer launches RunDebugServer on a background goroutine and
// returns immediately; cmd/server uses this form so a debug-server bind
// failure logs rather than blocking startup.
func StartDebugServer(cfg DebugConfig) error {
	go func() {
		if err := RunDebugServer(cfg); err != nil && err != http.ErrServerClosed {
			log.Printf("debug server stopped: %v", err)
		}
	}()
	return nil
}

// requireBasicAuth gates next behind a single fixed username/password,
// enough to keep the debug listener from being wide open if it's ever
// reachable beyond loopback.
func requireBasicAuth(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="fight-club-debug"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTick records tick timing for metrics
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
}

// UpdateRoomCount updates the live room gauge.
func UpdateRoomCount(count int) {
	roomCount.Set(float64(count))
}

// UpdatePlayerCount updates the player gauge
func UpdatePlayerCount(count int) {
	playerCount.Set(float64(count))
}

// UpdateProjectileCount updates the in-flight projectile gauge
func UpdateProjectileCount(count int) {
	projectileCount.Set(float64(count))
}

// RecordSnapshotSent increments the sent-snapshot counter
func RecordSnapshotSent() {
	snapshotsSentTotal.Inc()
}

// RecordSnapshotDropped increments the dropped-snapshot counter
func RecordSnapshotDropped() {
	snapshotsDroppedTotal.Inc()
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "invalid", "ws_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
