package eagleview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gutter-api/internal/errors"
)

// fakeProvider is a minimal provider API: one token endpoint and canned
// order responses.
type fakeProvider struct {
	t           *testing.T
	tokenCalls  int
	lastAuth    string
	lastOrder   orderPayload
	resultsCode int
	resultsBody string
}

func (f *fakeProvider) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		if err := r.ParseForm(); err != nil {
			f.t.Fatalf("parsing token form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("POST /measurement-orders/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&f.lastOrder); err != nil {
			f.t.Fatalf("decoding order payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"orderId": "ord-123", "status": "PLACED"})
	})

	mux.HandleFunc("GET /measurement-orders/v1/orders/ord-123", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"orderId": "ord-123", "status": "IN_PROGRESS"})
	})

	mux.HandleFunc("GET /measurement-orders/v1/orders/ord-123/results", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		code := f.resultsCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		w.Write([]byte(f.resultsBody))
	})

	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	cfg.Timeout = 5 * time.Second
	cfg.RetryDelay = time.Millisecond
	return New(cfg, NewTokenCache())
}

func TestPlaceOrderSendsProviderPayload(t *testing.T) {
	fake := &fakeProvider{t: t}
	srv := fake.server()
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	raw, err := client.PlaceOrder(context.Background(), OrderRequest{
		Address1:   "123 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
		Options:    map[string]any{"size": "6in"},
	})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response is not passed through as JSON: %v", err)
	}
	if resp["orderId"] != "ord-123" {
		t.Errorf("orderId = %q, want ord-123", resp["orderId"])
	}

	if fake.lastAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", fake.lastAuth)
	}
	if fake.lastOrder.OrderReference == "" {
		t.Error("orderReference was not generated")
	}
	if len(fake.lastOrder.Products) != 1 || fake.lastOrder.Products[0].Type != "GUTTER" {
		t.Errorf("products = %+v, want single GUTTER product", fake.lastOrder.Products)
	}
	if fake.lastOrder.Location.Country != "US" {
		t.Errorf("country = %q, want default US", fake.lastOrder.Location.Country)
	}
	if fake.lastOrder.Metadata.Options["size"] != "6in" {
		t.Errorf("options not forwarded: %+v", fake.lastOrder.Metadata)
	}
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	fake := &fakeProvider{t: t, resultsBody: `{}`}
	srv := fake.server()
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	if _, err := client.GetOrder(ctx, "ord-123"); err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if _, err := client.GetResults(ctx, "ord-123"); err != nil {
		t.Fatalf("GetResults returned error: %v", err)
	}

	if fake.tokenCalls != 1 {
		t.Fatalf("token endpoint hit %d times, want 1", fake.tokenCalls)
	}
}

func TestGetResultsNotReady(t *testing.T) {
	fake := &fakeProvider{t: t, resultsCode: http.StatusNotFound, resultsBody: `{"message": "pending"}`}
	srv := fake.server()
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetResults(context.Background(), "ord-123")
	if !errors.IsType(err, errors.TypeNotReady) {
		t.Fatalf("expected NOT_READY error, got %v", err)
	}
	if errors.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", errors.StatusOf(err))
	}
}

func TestProviderErrorCarriesStatusAndBody(t *testing.T) {
	fake := &fakeProvider{t: t, resultsCode: http.StatusUnprocessableEntity, resultsBody: `{"message": "bad address"}`}
	srv := fake.server()
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetResults(context.Background(), "ord-123")
	if !errors.IsType(err, errors.TypeProvider) {
		t.Fatalf("expected PROVIDER_ERROR, got %v", err)
	}
	if errors.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", errors.StatusOf(err))
	}
}

func TestAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetOrder(context.Background(), "ord-123")
	if !errors.IsType(err, errors.TypeAuth) {
		t.Fatalf("expected AUTH_ERROR, got %v", err)
	}
}

func TestMissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://localhost:0"
	client := New(cfg, nil)

	_, err := client.GetOrder(context.Background(), "ord-123")
	if !errors.IsType(err, errors.TypeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}
