package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"vcpscan/internal/app"
)

// Server exposes the scan pipeline over HTTP
type Server struct {
	app *app.App
	srv *http.Server
}

// NewServer creates a new web server
func NewServer(a *app.App) *Server {
	return &Server{app: a}
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/scan/vcp", s.handleScan)
	mux.HandleFunc("/api/scan/breakouts", s.handleScanBreakouts)
	mux.HandleFunc("/api/scans", s.handleScans)
	mux.HandleFunc("/api/stock/", s.handleStock)
	mux.HandleFunc("/api/symbols", s.handleSymbols)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // scans answer synchronously
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("[INFO] web API listening at http://localhost:%d", port)

	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers for local development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
