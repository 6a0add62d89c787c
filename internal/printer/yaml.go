package printer

import (
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// YAMLPrinter renders envelopes as YAML documents.
type YAMLPrinter struct {
	logger logger.Logger
	out    io.Writer
}

// NewYAMLPrinter creates a YAML printer writing to stdout.
func NewYAMLPrinter(log logger.Logger) *YAMLPrinter {
	return &YAMLPrinter{logger: log, out: os.Stdout}
}

// SetOutput replaces the output target, for tests.
func (p *YAMLPrinter) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	p.out = w
}

type yamlEnvelope struct {
	Family     string      `yaml:"family"`
	Path       string      `yaml:"path"`
	Target     string      `yaml:"target"`
	RelayIndex int         `yaml:"relay_index"`
	FetchedAt  string      `yaml:"fetched_at"`
	Payload    interface{} `yaml:"payload"`
}

// PrintEnvelope writes the envelope as one YAML document. The raw JSON
// payload is re-decoded so YAML renders structure instead of a blob.
func (p *YAMLPrinter) PrintEnvelope(env *dispatch.Envelope) error {
	var decoded interface{}
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		if p.logger != nil {
			p.logger.Error("Failed to decode payload for YAML output", "error", err)
		}
		return err
	}

	doc := yamlEnvelope{
		Family:     string(env.Family),
		Path:       env.Path,
		Target:     env.Target,
		RelayIndex: env.RelayIndex,
		FetchedAt:  env.FetchedAt.Format("2006-01-02 15:04:05"),
		Payload:    decoded,
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("Failed to marshal YAML output", "error", err)
		}
		return err
	}
	if _, err := p.out.Write(out); err != nil {
		return err
	}
	return nil
}
