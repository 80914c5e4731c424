// Package api - Thin HTTP layer over the provider client and the pricing
// engine. The API ingests requests, orchestrates the collaborators and
// serializes output; it never computes prices itself.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gutter-api/adapters/eagleview"
	"gutter-api/core/estimate"
	"gutter-api/internal/errors"
)

// Provider is the measurement-provider surface the API consumes. Order
// endpoints return the provider's JSON unmodified.
type Provider interface {
	PlaceOrder(ctx context.Context, req eagleview.OrderRequest) (json.RawMessage, error)
	GetOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	GetResults(ctx context.Context, orderID string) (json.RawMessage, error)
}

// Options configures the API server
type Options struct {
	// Version reported by /version and /health
	Version string

	// Pricing rates used by the results endpoint
	Pricing estimate.Config

	// AllowedOrigins is the CORS allow list; ["*"] allows any origin
	AllowedOrigins []string

	// WebhookSecret enables webhook signature verification when set
	WebhookSecret string
}

// Server is the API server
type Server struct {
	provider Provider
	opts     Options
	router   chi.Router
}

// NewServer creates the API server and mounts its routes.
func NewServer(provider Provider, opts Options) *Server {
	s := &Server{
		provider: provider,
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Post("/orders", s.handleCreateOrder)
	r.Get("/orders/{orderID}", s.handleGetOrder)
	r.Get("/orders/{orderID}/results", s.handleGetResults)

	r.Post("/webhooks/eagleview", s.handleWebhook)

	s.router = r
	return s
}

// handleHome handles GET /
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"message": "Gutter API is running",
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":      true,
		"version": s.opts.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.opts.Version,
		"service": "gutter-api",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeRaw passes a provider body through unmodified.
func (s *Server) writeRaw(w http.ResponseWriter, raw json.RawMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}

// writeError maps a typed error to an HTTP status. Provider errors keep the
// upstream status code so the caller sees what the provider said.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.TypeInternal

	if e, ok := err.(*errors.Error); ok {
		code = e.Type
		switch e.Type {
		case errors.TypeInput:
			status = http.StatusBadRequest
		case errors.TypeNotReady:
			status = http.StatusNotFound
		case errors.TypeAuth, errors.TypeProvider:
			status = http.StatusBadGateway
			if e.StatusCode > 0 {
				status = e.StatusCode
			}
		case errors.TypeNetwork:
			status = http.StatusBadGateway
		case errors.TypeConfig:
			status = http.StatusInternalServerError
		}
	}

	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    string(code),
			"message": err.Error(),
		},
	}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
