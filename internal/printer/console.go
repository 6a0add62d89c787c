package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// ConsolePrinter renders envelopes for a human terminal.
type ConsolePrinter struct {
	logger   logger.Logger
	out      io.Writer
	useColor bool
}

// NewConsolePrinter creates a console printer. Color is dropped when
// stdout is not a terminal.
func NewConsolePrinter(cfg *config.OutputConfig, log logger.Logger) *ConsolePrinter {
	useColor := cfg == nil || cfg.Color
	if useColor && !term.IsTerminal(int(os.Stdout.Fd())) {
		useColor = false
	}
	return &ConsolePrinter{
		logger:   log,
		out:      os.Stdout,
		useColor: useColor,
	}
}

// SetOutput replaces the output target, for tests.
func (p *ConsolePrinter) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	p.out = w
}

const labelWidth = 12

func (p *ConsolePrinter) label(s string) string {
	return runewidth.FillRight(s, labelWidth)
}

func (p *ConsolePrinter) sprintf(c *color.Color, format string, args ...interface{}) string {
	if p.useColor {
		return c.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

// PrintEnvelope writes a summary block followed by the indented payload.
func (p *ConsolePrinter) PrintEnvelope(env *dispatch.Envelope) error {
	var buf bytes.Buffer

	header := p.sprintf(color.New(color.FgGreen, color.Bold), "✓ %s %s", env.Family, env.Path)
	buf.WriteString(header + "\n")

	buf.WriteString(p.label("Target") + env.Target + "\n")
	buf.WriteString(p.label("Relay") + fmt.Sprintf("#%d", env.RelayIndex) + "\n")
	buf.WriteString(p.label("Payload") + humanize.Bytes(uint64(len(env.Payload))) + "\n")
	buf.WriteString(p.label("Fetched") + env.FetchedAt.Format("2006-01-02 15:04:05") + "\n")

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, env.Payload, "", "  "); err != nil {
		// Payload is validated JSON by the time it reaches a printer;
		// fall back to the raw bytes if indenting still fails.
		pretty.Reset()
		pretty.Write(env.Payload)
	}
	buf.WriteString("\n")
	buf.Write(pretty.Bytes())
	buf.WriteString("\n")

	if _, err := p.out.Write(buf.Bytes()); err != nil {
		if p.logger != nil {
			p.logger.Error("Failed to write console output", "error", err)
		}
		return err
	}
	return nil
}
