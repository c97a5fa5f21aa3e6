package api

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/metrics"
)

// ServerConfig is the listen address and auth setup of the API server.
type ServerConfig struct {
	Host        string
	Port        int
	AuthEnabled bool
	Token       string // checked only when AuthEnabled
}

// Server serves the errboard API over HTTP.
type Server struct {
	config     ServerConfig
	router     *chi.Mux
	httpServer *http.Server
	handlers   *Handlers
	mu         sync.Mutex
}

// NewServer creates a new API server
func NewServer(config ServerConfig, handlers *Handlers) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLogMiddleware(handlers.counters))
	r.Use(middleware.Recoverer)

	// CORS - restricted to localhost only for security
	r.Use(corsMiddleware())

	s := &Server{
		config:   config,
		router:   r,
		handlers: handlers,
	}

	s.registerRoutes()

	return s
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// accessLogMiddleware logs each request with logrus and counts it by route
// pattern and status
func accessLogMiddleware(counters *metrics.Counters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			counters.APIRequests.Inc(route, strconv.Itoa(status))

			log.WithFields(log.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      route,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Debug("API request")
		})
	}
}

// corsMiddleware lets dashboards served from a loopback origin call the API.
// Preflight requests are answered here and never reach auth.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); isLocalhostOrigin(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// isLocalhostOrigin reports whether origin is an http(s) loopback origin with
// an optional port and nothing else.
func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if u.Path != "" || u.RawQuery != "" || u.User != nil {
		return false
	}
	return loopbackHosts[u.Hostname()]
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: msg, Code: domain.ErrCodeUnauthorized})
}

// authMiddleware requires "Authorization: Bearer <token>" when enabled.
func authMiddleware(authEnabled bool, token string) func(http.Handler) http.Handler {
	if !authEnabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			provided, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				unauthorized(w, "invalid authorization header format")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	// Health check and metrics at root (no auth required)
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metrics.ConfigureRouter(s.router)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware(s.config.AuthEnabled, s.config.Token))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(constants.DefaultRequestTimeout))

			r.Get("/status", s.handlers.GetStatus)

			// Calls table
			r.Get("/calls", s.handlers.GetCalls)

			// Stack events
			r.Get("/events", s.handlers.GetEvents)
			r.Get("/events/{index}", s.handlers.GetEvent)

			r.Post("/reload", s.handlers.Reload)
		})

		// Long-lived, so no request timeout
		r.Get("/stream", s.handlers.StreamUpdates)
	})
}

// Start listens on Addr and blocks until the server stops. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable for SSE
		IdleTimeout:  60 * time.Second,
	}
	server := s.httpServer
	s.mu.Unlock()

	return server.ListenAndServe()
}

// Shutdown drains in-flight requests. It is a no-op before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.httpServer
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Addr returns host:port, bracketing IPv6 hosts.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}
