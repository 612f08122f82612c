package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"
)

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Shape Relay Bot</title>
  <style>
    body { font-family: sans-serif; max-width: 600px; margin: 40px auto; color: #222; }
    .ok { color: #2e7d32; font-weight: bold; }
    table { border-collapse: collapse; }
    td { padding: 4px 12px 4px 0; }
  </style>
</head>
<body>
  <h1>🤖 Shape Relay Bot</h1>
  <p>Status: <span class="ok">running</span></p>
  <table>
    <tr><td>Model</td><td>{{.Model}}</td></tr>
    <tr><td>Storage</td><td>{{.Storage}}</td></tr>
    <tr><td>Time</td><td>{{.Now}}</td></tr>
  </table>
</body>
</html>
`))

// statusPageHandler renders the human-readable landing page.
func (s *Server) statusPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data := struct {
			Model   string
			Storage string
			Now     string
		}{
			Model:   s.model,
			Storage: s.storage,
			Now:     time.Now().UTC().Format(time.RFC3339),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := statusTmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Msg("status page render failed")
		}
	}
}

// healthHandler is the liveness probe used by the hosting platform.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}

// loginHandler exchanges the static admin token for a short-lived session
// cookie. With no token configured the admin API stays closed.
func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			s.log.Error().Msg("admin token is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}
		if parts[1] != s.adminToken {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if _, err := s.auth.Mint(w); err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// statsHandler serves registration totals for the admin dashboard.
func (s *Server) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		n, err := s.creds.Count(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		response := struct {
			RegisteredUsers int `json:"registered_users"`
		}{
			RegisteredUsers: n,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}
