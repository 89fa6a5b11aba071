package types

import "errors"

// Config holds backend selection and parameters for Forum.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DSN is the connection string for the postgres backend.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// MaxRetries bounds how many times a transaction that lost a
	// conflict is re-run. Zero selects DefaultMaxRetries.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DefaultMaxRetries is used when Config.MaxRetries is zero.
const DefaultMaxRetries = 3

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrDSNEmpty          = errors.New("postgres backend requires a dsn")
	ErrMaxRetriesInvalid = errors.New("max retries must not be negative")
)

var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNEmpty
	}
	if c.MaxRetries < 0 {
		return ErrMaxRetriesInvalid
	}
	return nil
}

// GetMaxRetries returns MaxRetries, or DefaultMaxRetries when unset.
func (c Config) GetMaxRetries() int {
	if c.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}
