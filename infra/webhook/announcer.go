// Package webhook posts discount announcements to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/promo/auth"
	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/infra/logger"
)

// Config configures the webhook announcer.
type Config struct {
	Enabled   bool      `json:"enabled"`
	URL       string    `json:"url"`
	TimeoutMS int       `json:"timeout_ms"`
	Auth      auth.Conf `json:"auth"`
}

// SetDefaults fills the request timeout.
func (c *Config) SetDefaults() {
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 5000
	}
}

// Validate checks an enabled configuration.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return errors.New("webhook: url is required")
	}
	return c.Auth.Validate()
}

// Announcer sends each announcement as a JSON POST.
type Announcer struct {
	url     string
	client  *http.Client
	creds   *auth.ClientCred
	timeout time.Duration
	log     logger.Logger
}

var _ discount.Announcer = (*Announcer)(nil)

// NewAnnouncer returns an announcer for cfg. client may be nil.
func NewAnnouncer(cfg Config, client *http.Client) (*Announcer, error) {
	cfg.SetDefaults()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	a := &Announcer{
		url:     cfg.URL,
		client:  client,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		log:     logger.New("webhook_announcer"),
	}
	if cfg.Auth.Enabled() {
		a.creds = auth.NewClientCred(cfg.Auth, client)
	}
	return a, nil
}

// Announce posts the announcement. A 401 response drops the cached token and
// retries once.
func (a *Announcer) Announce(an discount.Announcement) error {
	body, err := json.Marshal(an)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	status, err := a.post(ctx, body)
	if err == nil && status == http.StatusUnauthorized && a.creds != nil {
		a.creds.Invalidate()
		status, err = a.post(ctx, body)
	}
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook post: unexpected status %d", status)
	}
	a.log.Debugf("announced %q to %s", an.Festival, a.url)
	return nil
}

func (a *Announcer) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.creds != nil {
		if err := a.creds.SetAuthHeader(req); err != nil {
			return 0, err
		}
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
