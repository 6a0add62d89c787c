package trace

import (
	"errors"

	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// ErrUnsupportedDriver indicates the configured driver is not available.
var ErrUnsupportedDriver = errors.New("unsupported trace driver")

// ListOptions controls filtering and pagination when fetching attempts.
type ListOptions struct {
	Target string
	Kind   string
	Limit  int
	Offset int
}

// StoredAttempt wraps an attempt with its persisted identifier.
type StoredAttempt struct {
	ID int64 `json:"id"`
	dispatch.Attempt
}

// Store persists per-attempt dispatch outcomes. It is the diagnostic
// side channel: attempt detail lives here and in logs, never in errors
// returned to callers.
type Store interface {
	// Record satisfies dispatch.Recorder.
	Record(dispatch.Attempt) error
	List(ListOptions) ([]*StoredAttempt, int, error)
	Close() error
}

// New instantiates a Store based on configuration.
func New(cfg *config.TraceConfig, log logger.Logger) (Store, error) {
	if cfg == nil {
		return nil, errors.New("trace config is nil")
	}
	switch driver := cfg.Driver; driver {
	case "", "sqlite", "sqlite3":
		return newSQLiteStore(cfg, log)
	default:
		return nil, ErrUnsupportedDriver
	}
}
