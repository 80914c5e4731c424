// Package eagleview provides the measurement-provider client: OAuth2 client
// credentials, order placement, status lookup and result retrieval for the
// GutterReport product.
package eagleview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gutter-api/internal/errors"
	"gutter-api/internal/logging"
)

const (
	tokenPath  = "/oauth2/token"
	ordersPath = "/measurement-orders/v1/orders"

	productGutter = "GUTTER"

	// defaultTokenTTL covers token grants that omit expires_in
	defaultTokenTTL = 30 * time.Minute
)

// Config configures the provider client
type Config struct {
	// BaseURL is the provider API root
	BaseURL string `json:"base_url"`

	// ClientID and ClientSecret are the client-credentials grant pair
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// Timeout for individual requests
	Timeout time.Duration `json:"timeout"`

	// RetryCount for transport-level failures
	RetryCount int `json:"retry_count"`

	// RetryDelay between retries
	RetryDelay time.Duration `json:"retry_delay"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.eagleview.com",
		Timeout:    60 * time.Second,
		RetryCount: 2,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Client talks to the measurement provider. Order endpoints return the
// provider's JSON body unmodified so callers can pass it through.
type Client struct {
	cfg    Config
	httpc  *http.Client
	tokens *TokenCache
}

// New creates a client. The token cache is injected so its lifetime and
// contents are visible to the caller.
func New(cfg Config, tokens *TokenCache) *Client {
	if tokens == nil {
		tokens = NewTokenCache()
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
	}
}

// PlaceOrder places a GutterReport measurement order.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	country := req.Country
	if country == "" {
		country = "US"
	}

	payload := orderPayload{
		OrderReference: uuid.NewString(),
		Location: orderLocation{
			AddressLine1: req.Address1,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.PostalCode,
			Country:      country,
		},
		Products: []orderProduct{{Type: productGutter}},
		Metadata: orderMetadata{Options: req.Options},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Internal("encoding order payload", err)
	}

	logging.Info("placing measurement order",
		zap.String("order_reference", payload.OrderReference),
		zap.String("postal_code", req.PostalCode))

	return c.doJSON(ctx, http.MethodPost, ordersPath, body)
}

// GetOrder fetches the status of a previously placed order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(orderID), nil)
}

// GetResults fetches the measurement results for a completed order. A 404
// from the provider means the report is still being produced.
func (c *Client) GetResults(ctx context.Context, orderID string) (json.RawMessage, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(orderID)+"/results", nil)
	if errors.StatusOf(err) == http.StatusNotFound {
		return nil, errors.NotReady(orderID)
	}
	return raw, err
}

// doJSON performs an authenticated request and returns the response body.
// Non-2xx responses become typed provider errors carrying the upstream
// status code and body.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.TypeNetwork, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "reading provider response", err)
	}

	if resp.StatusCode >= 400 {
		return nil, errors.Provider(resp.StatusCode, string(data))
	}
	return data, nil
}

// token returns a cached bearer token, fetching a fresh one when needed.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", errors.Config("provider credentials not set")
	}
	return c.tokens.Token(ctx, c.fetchToken)
}

func (c *Client) fetchToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	resp, err := c.send(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", 0, errors.Auth("token request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, errors.Auth("reading token response", err)
	}
	if resp.StatusCode >= 400 {
		return "", 0, errors.Auth(fmt.Sprintf("auth failed: %s", strings.TrimSpace(string(data))), nil).WithStatus(resp.StatusCode)
	}

	var grant tokenResponse
	if err := json.Unmarshal(data, &grant); err != nil {
		return "", 0, errors.Auth("decoding token response", err)
	}
	if grant.AccessToken == "" {
		return "", 0, errors.Auth("token response missing access_token", nil)
	}

	ttl := defaultTokenTTL
	if grant.ExpiresIn > 0 {
		ttl = time.Duration(grant.ExpiresIn) * time.Second
	}

	logging.Debug("provider token refreshed", zap.Duration("ttl", ttl))
	return grant.AccessToken, ttl, nil
}

// send issues a request with a bounded retry on transport failures. The
// request is rebuilt per attempt since a body reader cannot be replayed.
func (c *Client) send(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.cfg.RetryCount+1, lastErr)
}
