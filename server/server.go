package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bnfm/config"
	"bnfm/core/service"
	"bnfm/notify"
)

// Server exposes the track-history read API and the websocket
// subscription endpoint.
type Server struct {
	cfg *config.Config
	svc *service.TrackService
	hub *notify.Hub
}

// New creates the HTTP server around its collaborators.
func New(cfg *config.Config, svc *service.TrackService, hub *notify.Hub) *Server {
	return &Server{cfg: cfg, svc: svc, hub: hub}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/tracklist", s.handleTrackList).Methods(http.MethodGet, http.MethodOptions)

	router.HandleFunc("/ws/nowplaying", s.hub.ServeWS)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return router
}

// HTTPServer wraps the router in an http.Server with sane timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
