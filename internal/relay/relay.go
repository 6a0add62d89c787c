package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode is the URL-composition convention a relay requires.
type Mode string

const (
	// ModeEncodedQuery appends the target URL percent-encoded as a single query value.
	ModeEncodedQuery Mode = "append-encoded-query"
	// ModeRawPath appends the target URL verbatim after the relay base.
	ModeRawPath Mode = "append-raw-path"
)

// ParseMode validates a composition mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case ModeEncodedQuery:
		return ModeEncodedQuery, nil
	case ModeRawPath:
		return ModeRawPath, nil
	default:
		return "", fmt.Errorf("unknown relay composition mode: %q", s)
	}
}

// Descriptor is one entry in the relay list. Index defines attempt
// priority, lowest first.
type Descriptor struct {
	Index int
	Base  string
	Mode  Mode
}

// Compose builds the full relay URL for a target. Using the wrong mode
// for a relay yields a request the relay rejects or mis-routes, so the
// per-relay mode must be preserved exactly.
func (d Descriptor) Compose(targetURL string) string {
	switch d.Mode {
	case ModeRawPath:
		return d.Base + targetURL
	default:
		return d.Base + url.QueryEscape(targetURL)
	}
}

// Entry is a relay definition as it appears in configuration.
type Entry struct {
	Base string
	Mode string
}

// NewList builds an ordered descriptor list from configuration entries.
func NewList(entries []Entry) ([]Descriptor, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("relay list cannot be empty")
	}
	list := make([]Descriptor, 0, len(entries))
	for i, e := range entries {
		base := strings.TrimSpace(e.Base)
		if base == "" {
			return nil, fmt.Errorf("relay %d: base URL cannot be empty", i)
		}
		mode, err := ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("relay %d: %w", i, err)
		}
		list = append(list, Descriptor{Index: i, Base: base, Mode: mode})
	}
	return list, nil
}

// DefaultList returns the built-in relay list, tried in order.
func DefaultList() []Descriptor {
	return []Descriptor{
		{Index: 0, Base: "https://api.allorigins.win/raw?url=", Mode: ModeEncodedQuery},
		{Index: 1, Base: "https://corsproxy.io/?", Mode: ModeEncodedQuery},
		{Index: 2, Base: "https://thingproxy.freeboard.io/fetch/", Mode: ModeRawPath},
	}
}

// DefaultEntries mirrors DefaultList in configuration form.
func DefaultEntries() []Entry {
	var entries []Entry
	for _, d := range DefaultList() {
		entries = append(entries, Entry{Base: d.Base, Mode: string(d.Mode)})
	}
	return entries
}
