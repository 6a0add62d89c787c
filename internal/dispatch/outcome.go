package dispatch

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/funnyzak/rinktap/internal/catalog"
)

// Target is a resolved upstream request: the host family, the relative
// path the caller asked for, and the absolute URL. Constructed per call
// and never mutated.
type Target struct {
	Family catalog.HostFamily `json:"family"`
	Path   string             `json:"path"`
	URL    string             `json:"url"`
}

// NewTarget resolves a relative path against a host family base URL.
func NewTarget(hosts catalog.Hosts, family catalog.HostFamily, path string) (Target, error) {
	base, err := hosts.BaseURL(family)
	if err != nil {
		return Target{}, err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Target{
		Family: family,
		Path:   path,
		URL:    strings.TrimSuffix(base, "/") + path,
	}, nil
}

// Envelope is the normalized success result handed to callers. It is
// replaced wholesale on the next call; there is no further lifecycle.
type Envelope struct {
	Family     catalog.HostFamily `json:"family"`
	Path       string             `json:"path"`
	Target     string             `json:"target"`
	RelayIndex int                `json:"relay_index"`
	Payload    json.RawMessage    `json:"payload"`
	FetchedAt  time.Time          `json:"fetched_at"`
}

// ExhaustedError reports that every relay failed for a target. It names
// the original target URL, never an individual relay; per-attempt
// detail is available only through logging and the trace recorder.
type ExhaustedError struct {
	Target   string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return "Failed to fetch data from " + e.Target
}

// Attempt outcome kinds.
const (
	KindNetwork = "network"
	KindStatus  = "status"
	KindDecode  = "decode"
	KindSuccess = "success"
)

// Attempt is the outcome of trying one relay against one target.
type Attempt struct {
	Timestamp  time.Time     `json:"timestamp"`
	Target     string        `json:"target"`
	Path       string        `json:"path"`
	Family     string        `json:"family"`
	RelayIndex int           `json:"relay_index"`
	RelayBase  string        `json:"relay_base"`
	Kind       string        `json:"kind"`
	StatusCode int           `json:"status_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Recorder receives every attempt outcome. Implementations must not
// block the dispatch loop for long; record errors are logged and
// otherwise ignored.
type Recorder interface {
	Record(Attempt) error
}
