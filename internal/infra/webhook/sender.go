package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"text/template"
	"time"

	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"

	"golang.org/x/time/rate"
)

// sent in place of a signature when the subscriber registered without a secret
const noSecretSignature = "no-secret-provided"

var ErrDeliveryRejected = errs.New("webhook delivery rejected")

// {{title}} -> {{.title}}
var bareVariable = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

type Sender struct {
	http    *http.Client
	limiter *rate.Limiter
	header  string
}

func NewSender(cfg config.WebhookConfig) *Sender {
	return &Sender{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		header:  cfg.SignatureHeader,
	}
}

func (s *Sender) Deliver(ctx context.Context, secret string, trigger webhook.Trigger, createdAt time.Time, sub webhook.Subscriber, payload webhook.Payload) error {
	body, contentType, err := renderBody(sub.PayloadTemplate, trigger, createdAt, payload)
	if err != nil {
		return errs.Wrapf(err, "render webhook body for subscriber %s", sub.ID)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return errs.Wrap(err, "wait for webhook rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.SubscriberURL, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(s.header, Sign(secret, body))

	resp, err := s.http.Do(req)
	if err != nil {
		return errs.Wrapf(err, "post webhook to %s", sub.SubscriberURL)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Mark(errs.Newf("subscriber %s answered %d", sub.ID, resp.StatusCode), ErrDeliveryRejected)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	if secret == "" {
		return noSecretSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func renderBody(tmpl string, trigger webhook.Trigger, createdAt time.Time, payload webhook.Payload) ([]byte, string, error) {
	if strings.TrimSpace(tmpl) == "" {
		b, err := json.Marshal(payload)
		return b, "application/json", err
	}

	vars := make(map[string]any, len(payload.Payload)+2)
	for k, v := range payload.Payload {
		vars[k] = v
	}
	vars["triggerEvent"] = string(trigger)
	vars["createdAt"] = createdAt.Format(time.RFC3339)

	t, err := template.New("webhook").Option("missingkey=zero").Parse(bareVariable.ReplaceAllString(tmpl, "{{.$1}}"))
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return nil, "", err
	}
	if json.Valid(buf.Bytes()) {
		return buf.Bytes(), "application/json", nil
	}
	return buf.Bytes(), "text/plain", nil
}
