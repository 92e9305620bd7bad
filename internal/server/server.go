package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/behaviorchart/internal/auth"
	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/handler"
	"github.com/dukerupert/behaviorchart/internal/middleware"
	"github.com/dukerupert/behaviorchart/internal/store"
	ws "github.com/dukerupert/behaviorchart/internal/websocket"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

type Server struct {
	store       store.Store
	hub         *ws.Hub
	sessions    *auth.Sessions
	authH       *handler.AuthHandler
	dashboardH  *handler.DashboardHandler
	rewardH     *handler.RewardHandler
	rateLimiter *middleware.RateLimiter
	proxy       string
	logger      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithTrustedProxy makes the login rate limit key on the client address
// reported by the given proxy mode (middleware.ProxyCloudflare or
// middleware.ProxyForwarded). The default keys on the connection address.
func WithTrustedProxy(mode string) Option {
	return func(s *Server) { s.proxy = mode }
}

func New(st store.Store, ledger *behavior.Ledger, sessions *auth.Sessions, logger *slog.Logger, opts ...Option) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	renderer, err := handler.NewRenderer(ledger.Calendar().Location(), logger.With("component", "template"))
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	s := &Server{
		store:       st,
		hub:         hub,
		sessions:    sessions,
		authH:       handler.NewAuthHandler(st, sessions, renderer, logger.With("component", "auth")),
		dashboardH:  handler.NewDashboardHandler(ledger, hub, renderer, logger.With("component", "dashboard")),
		rewardH:     handler.NewRewardHandler(st, ledger, hub, renderer, logger.With("component", "reward")),
		rateLimiter: middleware.NewRateLimiter(),
		proxy:       middleware.ProxyNone,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RateLimiter returns the login rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /login", s.authH.LoginPage)
	mux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("GET /logout", s.authH.Logout)
	mux.HandleFunc("GET /admin", s.authH.AdminLoginPage)
	mux.HandleFunc("POST /admin", s.rateLimitedHandler(s.authH.AdminLogin))
	mux.HandleFunc("GET /admin/logout", s.authH.AdminLogout)
	mux.HandleFunc("GET /health", s.healthHandler)

	// User routes
	mux.Handle("GET /{$}", middleware.RequireUser(http.HandlerFunc(s.dashboardH.Show)))
	mux.Handle("POST /{$}", middleware.RequireUser(http.HandlerFunc(s.dashboardH.Act)))
	mux.Handle("GET /ws", middleware.RequireUser(ws.HandleWebSocket(s.hub)))

	// Admin routes
	s.registerAdminRoutes(mux)

	h := middleware.Authenticate(s.sessions)(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}
	mux.Handle("GET /rewards", admin(s.rewardH.Page))
	mux.Handle("POST /update_points", admin(s.rewardH.UpdatePoints))
	mux.Handle("POST /add_reward", admin(s.rewardH.Create))
	mux.Handle("POST /edit_reward/{id}", admin(s.rewardH.Update))
	mux.Handle("POST /delete_reward/{id}", admin(s.rewardH.Delete))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ClientKey(s.proxy), loginLimit, loginWindow)
	return rl(h).ServeHTTP
}
