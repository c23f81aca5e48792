package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fight-club/internal/config"
)

// Server is the HTTP control surface: health/version/rooms/matchmake/
// leaderboard/schema plus the WebSocket upgrade route, built once at
// startup and handed to http.ListenAndServe.
type Server struct {
	router      *chi.Mux
	rateLimiter *IPRateLimiter
}

// NewServer builds the control-surface router over svc, proxying WebSocket
// upgrades to wsHandler (normally (*netedge.Hub).ServeWS). CORS policy
// mirrors the net edge's own config.NetConfig so both surfaces agree.
func NewServer(svc *Service, net config.NetConfig, wsHandler http.HandlerFunc) *Server {
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)
	router := NewRouter(RouterConfig{
		Service:            svc,
		RateLimiter:        rateLimiter,
		CORSAllowAll:       net.CORSAllowAll,
		CORSAllowedOrigins: net.CORSAllowedOrigins,
		WSHandler:          wsHandler,
	})
	return &Server{router: router, rateLimiter: rateLimiter}
}

// Router returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Router() http.Handler { return s.router }

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Printf("fight-club: control surface listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Stop releases the server's background resources.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
