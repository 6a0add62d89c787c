package printer

import (
	"encoding/json"
	"io"
	"os"

	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// JSONPrinter 以 JSON 行输出响应
type JSONPrinter struct {
	encoder *json.Encoder
	logger  logger.Logger
	out     io.Writer
}

// NewJSONPrinter creates a JSON printer writing to stdout.
func NewJSONPrinter(log logger.Logger) *JSONPrinter {
	out := os.Stdout
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	return &JSONPrinter{encoder: encoder, logger: log, out: out}
}

// SetOutput replaces the output target, for tests.
func (p *JSONPrinter) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	p.out = w
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	p.encoder = encoder
}

// PrintEnvelope writes the envelope as a single JSON line.
func (p *JSONPrinter) PrintEnvelope(env *dispatch.Envelope) error {
	if err := p.encoder.Encode(env); err != nil {
		if p.logger != nil {
			p.logger.Error("Failed to encode envelope JSON", "error", err)
		}
		return err
	}
	return nil
}
