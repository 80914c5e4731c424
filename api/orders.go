package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gutter-api/adapters/eagleview"
	"gutter-api/core/estimate"
	"gutter-api/internal/errors"
	"gutter-api/internal/logging"
)

// handleCreateOrder handles POST /orders
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req eagleview.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "invalid order body", err))
		return
	}
	if err := validateOrderRequest(req); err != nil {
		s.writeError(w, err)
		return
	}

	raw, err := s.provider.PlaceOrder(r.Context(), req)
	if err != nil {
		logging.Error("order placement failed", zap.Error(err))
		s.writeError(w, err)
		return
	}

	s.writeRaw(w, raw, http.StatusOK)
}

// handleGetOrder handles GET /orders/{orderID}
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	raw, err := s.provider.GetOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeRaw(w, raw, http.StatusOK)
}

// handleGetResults handles GET /orders/{orderID}/results. This is the one
// endpoint with real logic behind it: the provider result is normalized and
// priced into an itemized estimate.
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	raw, err := s.provider.GetResults(r.Context(), orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := estimate.Compute(raw, s.opts.Pricing)
	if err != nil {
		logging.Error("pricing provider result failed",
			zap.String("order_id", orderID), zap.Error(err))
		s.writeError(w, errors.Internal("invalid provider result", err))
		return
	}

	s.writeJSON(w, result, http.StatusOK)
}

func validateOrderRequest(req eagleview.OrderRequest) error {
	switch {
	case req.Address1 == "":
		return errors.Input("address1 is required")
	case req.City == "":
		return errors.Input("city is required")
	case req.State == "":
		return errors.Input("state is required")
	case req.PostalCode == "":
		return errors.Input("postal_code is required")
	}
	return nil
}
