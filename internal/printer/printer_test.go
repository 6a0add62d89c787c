package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/funnyzak/rinktap/internal/catalog"
	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

func testEnvelope() *dispatch.Envelope {
	return &dispatch.Envelope{
		Family:     catalog.HostPrimary,
		Path:       "/standings/now",
		Target:     "https://api-web.example/v1/standings/now",
		RelayIndex: 2,
		Payload:    json.RawMessage(`{"standings":[{"points":15}]}`),
		FetchedAt:  time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC),
	}
}

func TestJSONPrinter(t *testing.T) {
	p := NewJSONPrinter(logger.Noop())
	var buf bytes.Buffer
	p.SetOutput(&buf)

	if err := p.PrintEnvelope(testEnvelope()); err != nil {
		t.Fatalf("print failed: %v", err)
	}

	var decoded dispatch.Envelope
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RelayIndex != 2 || decoded.Target != "https://api-web.example/v1/standings/now" {
		t.Fatalf("unexpected decoded envelope: %+v", decoded)
	}
}

func TestConsolePrinter(t *testing.T) {
	p := NewConsolePrinter(&config.OutputConfig{Color: false}, logger.Noop())
	var buf bytes.Buffer
	p.SetOutput(&buf)

	if err := p.PrintEnvelope(testEnvelope()); err != nil {
		t.Fatalf("print failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"primary /standings/now",
		"https://api-web.example/v1/standings/now",
		"#2",
		`"points": 15`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestYAMLPrinter(t *testing.T) {
	p := NewYAMLPrinter(logger.Noop())
	var buf bytes.Buffer
	p.SetOutput(&buf)

	if err := p.PrintEnvelope(testEnvelope()); err != nil {
		t.Fatalf("print failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "relay_index: 2") {
		t.Fatalf("yaml output missing relay index:\n%s", out)
	}
	if !strings.Contains(out, "standings:") {
		t.Fatalf("yaml output should render payload structure:\n%s", out)
	}
}

func TestNewPrinterFormats(t *testing.T) {
	for _, format := range []string{"console", "json", "yaml", ""} {
		if _, err := New(&config.OutputConfig{Format: format}, logger.Noop()); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
	}
	if _, err := New(&config.OutputConfig{Format: "xml"}, logger.Noop()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
