package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/promo/core/audit"
	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/core/metrics"
	"github.com/kilianp07/promo/infra/mqtt"
	"github.com/kilianp07/promo/infra/webhook"
)

// EnvPrefix prefixes environment overrides; "__" separates nested keys, so
// PROMO_HTTP__ADDR sets http.addr.
const EnvPrefix = "PROMO_"

type Config struct {
	Promotions []discount.Promotion `json:"promotions"`
	Metrics    metrics.Config       `json:"metrics"`
	Announce   AnnounceConfig       `json:"announce"`
	Audit      audit.Config         `json:"audit"`
	HTTP       HTTPConfig           `json:"http"`
}

// AnnounceConfig selects where announcements are emitted.
type AnnounceConfig struct {
	// Console prints announcements on stdout.
	Console bool           `json:"console"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Webhook webhook.Config `json:"webhook"`
}

// HTTPConfig configures the promotion API.
type HTTPConfig struct {
	Addr string `json:"addr"`
	// Token protects the audit log endpoint when non-empty.
	Token string `json:"token"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Announce: AnnounceConfig{Console: true},
		HTTP:     HTTPConfig{Addr: ":8080"},
	}
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, envDelim, envKey), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envDelim separates nesting levels in environment variable names, so
// PROMO_HTTP__ADDR sets http.addr and PROMO_AUDIT__BACKEND sets audit.backend.
const envDelim = "__"

// envKey strips the prefix and lowercases the name. The "__" separators are
// kept for the provider to split on.
func envKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
}

// SetDefaults fills optional sections.
func (c *Config) SetDefaults() {
	c.Audit.SetDefaults()
	if c.Announce.MQTT.Enabled {
		c.Announce.MQTT.SetDefaults()
	}
	if c.Announce.Webhook.Enabled {
		c.Announce.Webhook.SetDefaults()
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	for i, p := range c.Promotions {
		if p.Festival == "" {
			errs = append(errs, fmt.Errorf("promotions[%d]: festival is required", i))
		}
		if p.Strategy.Type == "" {
			errs = append(errs, fmt.Errorf("promotions[%d]: strategy type is required", i))
		}
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("metrics.sinks[%d]: type is required", i))
		}
	}
	if err := c.Audit.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Announce.MQTT.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Announce.Webhook.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
