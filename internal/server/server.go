package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/catalog"
	"github.com/dukerupert/pairhouse/internal/config"
	"github.com/dukerupert/pairhouse/internal/email"
	"github.com/dukerupert/pairhouse/internal/handler"
	"github.com/dukerupert/pairhouse/internal/middleware"
	"github.com/dukerupert/pairhouse/internal/partnership"
	"github.com/dukerupert/pairhouse/internal/store"
	ws "github.com/dukerupert/pairhouse/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	authH          *handler.AuthHandler
	profileH       *handler.ProfileHandler
	partnershipH   *handler.PartnershipHandler
	taskH          *handler.TaskHandler
	shoppingH      *handler.ShoppingHandler
	movieH         *handler.MovieHandler
	financeH       *handler.FinanceHandler
	calendarEventH *handler.CalendarEventHandler
	wishH          *handler.WishHandler
	memoryH        *handler.MemoryHandler
	dashboardH     *handler.DashboardHandler
	sessionStore   *store.SessionStore
	userStore      *store.UserStore
	tokens         *auth.TokenManager
	households     *partnership.Service
	rateLimiter    *middleware.RateLimiter
	metrics        *middleware.Metrics
	allowedOrigins []string
	loginLimit     int
	logger         *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, emailClient *email.Client, movieCatalog *catalog.Client, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	sessionStore := store.NewSessionStore(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	notifier := &partnershipNotifier{
		hub:      hub,
		email:    emailClient,
		profiles: profileStore,
		logger:   logger.With("component", "partnership_notifier"),
	}
	households := partnership.NewService(
		store.NewPartnershipStore(db), userStore, profileStore,
		partnership.WithNotifier(notifier),
		partnership.WithLogger(logger.With("component", "partnership")),
	)

	metrics := middleware.NewMetrics()
	metrics.Registry().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pairhouse_websocket_clients",
		Help: "Connected websocket clients.",
	}, func() float64 { return float64(hub.ClientCount()) }))

	loginLimit := cfg.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 10
	}

	return &Server{
		db:  db,
		hub: hub,
		authH: handler.NewAuthHandler(
			auth.NewPasswordAuthenticator(userStore), userStore, profileStore, sessionStore, tokens, households,
			logger.With("component", "auth"),
		),
		profileH:       handler.NewProfileHandler(profileStore, hub, logger.With("component", "profile")),
		partnershipH:   handler.NewPartnershipHandler(households, logger.With("component", "partnership_handler")),
		taskH:          handler.NewTaskHandler(store.NewTaskStore(db), hub, logger.With("component", "task")),
		shoppingH:      handler.NewShoppingHandler(store.NewShoppingStore(db), hub, logger.With("component", "shopping")),
		movieH:         handler.NewMovieHandler(store.NewMovieStore(db), movieCatalog, hub, logger.With("component", "movie")),
		financeH:       handler.NewFinanceHandler(store.NewFinanceStore(db), hub, logger.With("component", "finance")),
		calendarEventH: handler.NewCalendarEventHandler(store.NewEventStore(db), hub, logger.With("component", "calendar")),
		wishH:          handler.NewWishHandler(store.NewWishStore(db), hub, logger.With("component", "wish")),
		memoryH:        handler.NewMemoryHandler(store.NewMemoryStore(db), hub, logger.With("component", "memory")),
		dashboardH:     handler.NewDashboardHandler(store.NewDashboardStore(db), logger.With("component", "dashboard")),
		sessionStore:   sessionStore,
		userStore:      userStore,
		tokens:         tokens,
		households:     households,
		rateLimiter:    middleware.NewRateLimiter(),
		metrics:        metrics,
		allowedOrigins: cfg.AllowedOrigins,
		loginLimit:     loginLimit,
		logger:         logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// Households returns the partnership service for cleanup tasks.
func (s *Server) Households() *partnership.Service {
	return s.households
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router builds the HTTP handler. Protected routes are wrapped one by one
// instead of through a nested mux so that r.Pattern reaches the metrics
// middleware.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	mux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.registerProtectedRoutes(mux)

	return middleware.RequestLogger(s.logger.With("component", "http"))(s.metrics.Middleware(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "database unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByIP, s.loginLimit, time.Minute)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	requireAuth := middleware.RequireAuth(s.sessionStore, s.tokens, s.userStore, s.households)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(h))
	}

	// Account
	handle("POST /logout", s.authH.Logout)
	handle("GET /api/me", s.authH.Me)
	handle("POST /api/token", s.authH.IssueToken)
	handle("POST /api/password", s.authH.ChangePassword)
	handle("DELETE /api/me", s.authH.DeleteAccount)

	// Profile
	handle("GET /api/profile", s.profileH.Get)
	handle("PATCH /api/profile", s.profileH.Update)
	handle("PUT /api/profile/avatar", s.profileH.SetAvatar)
	handle("GET /api/profile/partner", s.profileH.Partner)

	// Partnership
	handle("GET /api/partnership", s.partnershipH.Status)
	handle("GET /api/partnership/history", s.partnershipH.History)
	handle("POST /api/partnership/invite", s.partnershipH.Invite)
	handle("POST /api/partnership/{id}/respond", s.partnershipH.Respond)
	handle("POST /api/partnership/{id}/cancel", s.partnershipH.Cancel)
	handle("DELETE /api/partnership/{id}", s.partnershipH.Dissolve)

	// Tasks
	handle("GET /api/tasks", s.taskH.List)
	handle("POST /api/tasks", s.taskH.Create)
	handle("GET /api/tasks/{id}", s.taskH.Get)
	handle("PATCH /api/tasks/{id}", s.taskH.Update)
	handle("POST /api/tasks/{id}/toggle", s.taskH.Toggle)
	handle("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Shopping
	handle("GET /api/shopping", s.shoppingH.List)
	handle("POST /api/shopping", s.shoppingH.Create)
	handle("GET /api/shopping/summary", s.shoppingH.Summary)
	handle("POST /api/shopping/clear-purchased", s.shoppingH.ClearPurchased)
	handle("PUT /api/shopping/{id}", s.shoppingH.Update)
	handle("POST /api/shopping/{id}/toggle", s.shoppingH.Toggle)
	handle("DELETE /api/shopping/{id}", s.shoppingH.Delete)

	// Movies
	handle("GET /api/movies", s.movieH.List)
	handle("POST /api/movies", s.movieH.Create)
	handle("GET /api/movies/search", s.movieH.Search)
	handle("PATCH /api/movies/{id}", s.movieH.Review)
	handle("POST /api/movies/{id}/toggle", s.movieH.Toggle)
	handle("DELETE /api/movies/{id}", s.movieH.Delete)

	// Finance
	handle("GET /api/finance/goals", s.financeH.ListGoals)
	handle("POST /api/finance/goals", s.financeH.CreateGoal)
	handle("POST /api/finance/goals/{id}/deposit", s.financeH.Deposit)
	handle("POST /api/finance/goals/{id}/withdraw", s.financeH.Withdraw)
	handle("DELETE /api/finance/goals/{id}", s.financeH.DeleteGoal)
	handle("GET /api/finance/expenses", s.financeH.ListExpenses)
	handle("POST /api/finance/expenses", s.financeH.CreateExpense)
	handle("DELETE /api/finance/expenses/{id}", s.financeH.DeleteExpense)
	handle("GET /api/finance/summary", s.financeH.Summary)

	// Calendar
	handle("GET /api/events", s.calendarEventH.List)
	handle("POST /api/events", s.calendarEventH.Create)
	handle("PUT /api/events/{id}", s.calendarEventH.Update)
	handle("DELETE /api/events/{id}", s.calendarEventH.Delete)

	// Wishlist
	handle("GET /api/wishes", s.wishH.List)
	handle("POST /api/wishes", s.wishH.Create)
	handle("PUT /api/wishes/{id}", s.wishH.Update)
	handle("POST /api/wishes/{id}/reserve", s.wishH.Reserve)
	handle("POST /api/wishes/{id}/purchase", s.wishH.Purchase)
	handle("DELETE /api/wishes/{id}", s.wishH.Delete)

	// Memories
	handle("GET /api/memories", s.memoryH.List)
	handle("POST /api/memories", s.memoryH.Create)
	handle("GET /api/memories/random", s.memoryH.Random)
	handle("PUT /api/memories/{id}", s.memoryH.Update)
	handle("DELETE /api/memories/{id}", s.memoryH.Delete)

	handle("GET /api/dashboard", s.dashboardH.Get)

	// WebSocket
	handle("GET /ws", ws.HandleWebSocket(s.hub, s.allowedOrigins, s.logger.With("component", "websocket")))
}
