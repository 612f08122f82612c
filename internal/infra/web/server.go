package web

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/usecase"
)

// Server exposes the bot's status page, health probe, metrics and a small
// JWT-gated admin API.
type Server struct {
	creds usecase.CredentialUseCase
	auth  *AuthManager

	adminToken string
	model      string
	storage    string

	log *zerolog.Logger
}

func NewServer(
	creds usecase.CredentialUseCase,
	auth *AuthManager,
	adminToken string,
	model string,
	storage string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		creds:      creds,
		auth:       auth,
		adminToken: adminToken,
		model:      model,
		storage:    storage,
		log:        logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/", s.statusPageHandler())
	r.Get("/health", healthHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/login", s.loginHandler())
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/v1/stats", s.statsHandler())
	})

	return r
}

// requestIDMiddleware tags every request with a ULID for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// authMiddleware admits requests carrying a valid admin session.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
