// Package server provides the HTTP server for the HandWave evaluation and
// configuration service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/handwave/internal/server/api"
	"github.com/ayusman/handwave/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Bridge    http.Handler
}

// Server is the HTTP server for the HandWave service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		s.mux.Handle("/api/v1/gesture/evaluate", api.NewEvaluateHandler(s.config.Store))
		s.mux.Handle("/api/v1/config/mapping", api.NewMappingHandler(s.config.Store))

		siteHandler := api.NewSiteConfigHandler(s.config.Store)
		s.mux.Handle("/api/v1/config/site", siteHandler)
		s.mux.Handle("/api/v1/config/site/", siteHandler)
	}

	// The browser page connects here for dispatch commands and telemetry.
	if s.config.Bridge != nil {
		s.mux.Handle("/ws", s.config.Bridge)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
