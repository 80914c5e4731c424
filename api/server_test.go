package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gutter-api/adapters/eagleview"
	"gutter-api/core/estimate"
	"gutter-api/internal/errors"
)

// fakeProvider serves canned provider responses to the API layer.
type fakeProvider struct {
	orderResponse  json.RawMessage
	statusResponse json.RawMessage
	results        json.RawMessage
	resultsErr     error
	lastRequest    eagleview.OrderRequest
}

func (f *fakeProvider) PlaceOrder(ctx context.Context, req eagleview.OrderRequest) (json.RawMessage, error) {
	f.lastRequest = req
	return f.orderResponse, nil
}

func (f *fakeProvider) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return f.statusResponse, nil
}

func (f *fakeProvider) GetResults(ctx context.Context, orderID string) (json.RawMessage, error) {
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results, nil
}

func newTestServer(provider Provider) *Server {
	return NewServer(provider, Options{
		Version:        "test",
		Pricing:        estimate.DefaultConfig(),
		AllowedOrigins: []string{"*"},
	})
}

func TestResultsEndpointPricesProviderPayload(t *testing.T) {
	provider := &fakeProvider{
		results: json.RawMessage(`{"gutterReport": {
			"totalEaveLengthFt": 100,
			"estimatedDownspouts": 4,
			"miterCount": {"inside90": 2, "outside90": 1},
			"storiesByDirection": {"N": 1, "S": 2}
		}}`),
	}
	srv := newTestServer(provider)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/ord-123/results", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var result estimate.Estimate
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding estimate: %v", err)
	}
	if result.Totals.Subtotal != 1831.00 {
		t.Errorf("subtotal = %.2f, want 1831.00", result.Totals.Subtotal)
	}
	if result.Totals.Total != 2255.79 {
		t.Errorf("total = %.2f, want 2255.79", result.Totals.Total)
	}
	if result.Inputs.EaveLinearFt != 100 {
		t.Errorf("inputs.eave_linear_ft = %v, want 100", result.Inputs.EaveLinearFt)
	}
	if len(result.LineItems) != 7 {
		t.Errorf("got %d line items, want 7", len(result.LineItems))
	}
}

func TestResultsEndpointNotReady(t *testing.T) {
	provider := &fakeProvider{resultsErr: errors.NotReady("ord-123")}
	srv := newTestServer(provider)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/ord-123/results", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NOT_READY") {
		t.Fatalf("body missing error code: %s", rec.Body)
	}
}

func TestResultsEndpointPropagatesProviderStatus(t *testing.T) {
	provider := &fakeProvider{resultsErr: errors.Provider(http.StatusForbidden, "no access")}
	srv := newTestServer(provider)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/ord-123/results", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want provider's 403", rec.Code)
	}
}

func TestCreateOrderPassesThrough(t *testing.T) {
	provider := &fakeProvider{orderResponse: json.RawMessage(`{"orderId": "ord-9", "status": "PLACED"}`)}
	srv := newTestServer(provider)

	body := `{"address1": "123 Main St", "city": "Austin", "state": "TX", "postal_code": "78701"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/orders", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"orderId": "ord-9", "status": "PLACED"}` {
		t.Fatalf("provider response was not passed through: %s", rec.Body)
	}
	if provider.lastRequest.Address1 != "123 Main St" {
		t.Fatalf("order request not forwarded: %+v", provider.lastRequest)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	cases := map[string]string{
		"missing address": `{"city": "Austin", "state": "TX", "postal_code": "78701"}`,
		"missing city":    `{"address1": "123 Main St", "state": "TX", "postal_code": "78701"}`,
		"not json":        `nope`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/orders", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestHomeAndHealth(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
		t.Fatalf("home: status %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("health: status %d, body %s", rec.Code, rec.Body)
	}
}

func TestCORSHeaderPresent(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
