package audit

import "fmt"

// Backends understood by Open.
const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects the audit store.
type Config struct {
	// Backend is "none", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendNone
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendJSONL:
			c.Path = "promotions.jsonl"
		case BackendSQLite:
			c.Path = "promotions.db"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("audit: path is required for backend %s", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("audit: unknown backend %q", c.Backend)
	}
}

// Open returns the store selected by c.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case BackendNone, "":
		return NopStore{}, nil
	case BackendJSONL:
		return NewJSONLStore(c.Path)
	case BackendSQLite:
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("audit: unknown backend %q", c.Backend)
	}
}
