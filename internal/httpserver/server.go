// internal/httpserver/server.go
//
// HTTP server wiring for the Bannerdle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Catalog endpoints: /api/troops, /api/map-areas, /api/settlements.
//   - Game endpoints: /api/checkTroop, /api/checkMapArea, /api/lastSelection,
//     /api/lastMapAreaSelection, /api/session.
//   - Selection + scheduler endpoints: /api/daily*Selection (idempotent per
//     day), /api/selectTroop and /api/scheduler-control (admin-gated).
//   - Contact form: /api/contact (rate-limited, SMTP-backed).
//   - Admin JWT + cookie handling, anonymous client cookie.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The anonymous cookie keys the server-side session mirror; players are
//     never required to authenticate.
//   - Admin middleware enforces presence and validity of the admin JWT.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/ledger"
	"github.com/bannerdle/go-server/internal/mailer"
	"github.com/bannerdle/go-server/internal/scheduler"
	"github.com/bannerdle/go-server/internal/selector"
	"github.com/bannerdle/go-server/internal/session"
)

// Config carries the request-facing settings the server needs.
type Config struct {
	ClientOrigin      string // CORS origin for the browser client
	JWTSecret         string
	AdminPasswordHash string // bcrypt hash; empty disables admin routes
	AdminCookieName   string // defaults to "bannerdle_admin"
	DonationURL       string
	Production        bool // toggles Secure/SameSite on cookies
}

// Server bundles the router and every collaborator behind the API.
type Server struct {
	r        *chi.Mux
	cfg      Config
	catalog  *catalog.Store
	ledger   *ledger.Store
	selector *selector.Service
	sched    *scheduler.Scheduler
	mail     *mailer.Mailer
	sessions *session.Store
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, cat *catalog.Store, led *ledger.Store, sel *selector.Service,
	sched *scheduler.Scheduler, mail *mailer.Mailer) *Server {

	if cfg.AdminCookieName == "" {
		cfg.AdminCookieName = "bannerdle_admin"
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		catalog:  cat,
		ledger:   led,
		selector: sel,
		sched:    sched,
		mail:     mail,
		sessions: session.NewStore(),
		now:      time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(cfg.ClientOrigin))       // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service":  "bannerdle-go",
			"modes":    []string{"troop", "map-area"},
			"donation": cfg.DonationURL,
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(api chi.Router) {
		// Catalog reads
		api.Get("/troops", s.handleTroops)
		api.Get("/map-areas", s.handleMapAreas)
		api.Get("/settlements", s.handleSettlements)

		// Game
		api.Get("/checkTroop", s.handleCheckTroop)
		api.Get("/checkMapArea", s.handleCheckMapArea)
		api.Get("/lastSelection", s.handleLastSelection)
		api.Get("/lastMapAreaSelection", s.handleLastMapAreaSelection)
		api.Get("/session", s.handleSession)

		// Daily selection triggers (idempotent per day)
		api.Post("/dailyTroopSelection", s.handleDailyTroopSelection)
		api.Post("/dailyMapAreaSelection", s.handleDailyMapAreaSelection)

		// Admin
		api.Post("/admin/login", s.handleAdminLogin)
		api.With(s.requireAdmin()).Post("/selectTroop", s.handleSelectTroop)
		api.Get("/scheduler-control", s.handleSchedulerStatus)
		api.With(s.requireAdmin()).Post("/scheduler-control", s.handleSchedulerStart)
		api.With(s.requireAdmin()).Delete("/scheduler-control", s.handleSchedulerStop)

		// Contact form: 5 requests / 15 minutes / client IP
		api.With(httprate.LimitByIP(5, 15*time.Minute)).Post("/contact", s.handleContact)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

// dayFor resolves the calendar day for a request: the client's own date
// when provided (?day=YYYY-MM-DD), otherwise the server's UTC date.
// Session rollover follows the client-local date by design.
func (s *Server) dayFor(r *http.Request) string {
	if d := r.URL.Query().Get("day"); len(d) == len("2006-01-02") {
		if _, err := time.Parse("2006-01-02", d); err == nil {
			return d
		}
	}
	return ledger.DateKey(s.now())
}
