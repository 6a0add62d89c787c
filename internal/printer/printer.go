package printer

import (
	"fmt"
	"strings"

	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// Printer renders fetched envelopes for CLI consumers.
type Printer interface {
	PrintEnvelope(env *dispatch.Envelope) error
}

// New creates a printer for the configured output format.
func New(cfg *config.OutputConfig, log logger.Logger) (Printer, error) {
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		return NewConsolePrinter(cfg, log), nil
	case "json":
		return NewJSONPrinter(log), nil
	case "yaml":
		return NewYAMLPrinter(log), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", cfg.Format)
	}
}
