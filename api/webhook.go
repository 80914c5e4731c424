package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gutter-api/internal/errors"
	"gutter-api/internal/logging"
)

// signatureHeader carries the hex HMAC-SHA256 of the webhook body.
const signatureHeader = "X-EV-Signature"

// handleWebhook handles POST /webhooks/eagleview. The provider calls this
// when an order changes state; we only acknowledge receipt, there is no
// order store to update.
//
// When no webhook secret is configured the payload is accepted unverified.
// That matches the provider's default portal setup, but it means anyone who
// knows the URL can post here; configure a secret for anything real.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "reading webhook body", err))
		return
	}

	if s.opts.WebhookSecret != "" {
		if err := verifySignature(body, r.Header.Get(signatureHeader), s.opts.WebhookSecret); err != nil {
			logging.Warn("webhook rejected", zap.Error(err))
			s.writeJSON(w, map[string]interface{}{
				"error": map[string]string{
					"code":    string(errors.TypeInput),
					"message": err.Error(),
				},
			}, http.StatusUnauthorized)
			return
		}
	} else {
		logging.Warn("webhook accepted without signature verification; set a webhook secret to enable it")
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "invalid webhook payload", err))
		return
	}

	logging.Info("webhook received", zap.Any("event", eventSummary(event)))
	s.writeJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}

// verifySignature checks a hex HMAC-SHA256 of the body.
func verifySignature(body []byte, signature, secret string) error {
	if signature == "" {
		return errors.Input("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.Input("webhook signature mismatch")
	}
	return nil
}

// eventSummary trims a webhook event down to loggable identifiers.
func eventSummary(event map[string]any) map[string]any {
	summary := make(map[string]any)
	for _, key := range []string{"orderId", "orderReference", "status", "event"} {
		if v, ok := event[key]; ok {
			summary[key] = v
		}
	}
	return summary
}
