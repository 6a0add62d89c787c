package dispatch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/funnyzak/rinktap/internal/logger"
	"github.com/funnyzak/rinktap/internal/relay"
)

// Dispatcher delivers a target request through an ordered relay list.
// Relays are tried strictly in index order on every call: the first one
// is assumed fastest, later entries are pure fallback. No adaptive
// reordering, no per-relay retry, no inter-attempt backoff.
type Dispatcher struct {
	client    *http.Client
	relays    []relay.Descriptor
	logger    logger.Logger
	userAgent string
	recorders []Recorder
}

// Options 调度器配置
type Options struct {
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	MaxConnsPerHost       int
	IdleConnTimeout       time.Duration
	ResponseHeaderTimeout time.Duration
	TLSHandshakeTimeout   time.Duration
	TLSInsecureSkipVerify bool
	UserAgent             string
}

// New creates a dispatcher over an immutable relay list. Recorders
// receive every attempt outcome (the diagnostic side channel).
func New(log logger.Logger, relays []relay.Descriptor, opts Options, recorders ...Recorder) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}

	transport := &http.Transport{
		MaxIdleConns:          positiveOrDefault(opts.MaxIdleConns, 200),
		MaxIdleConnsPerHost:   positiveOrDefault(opts.MaxIdleConnsPerHost, 10),
		MaxConnsPerHost:       positiveOrDefault(opts.MaxConnsPerHost, 20),
		IdleConnTimeout:       durationOrDefault(opts.IdleConnTimeout, 90*time.Second),
		ResponseHeaderTimeout: durationOrDefault(opts.ResponseHeaderTimeout, 15*time.Second),
		TLSHandshakeTimeout:   durationOrDefault(opts.TLSHandshakeTimeout, 10*time.Second),
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.TLSInsecureSkipVerify,
		},
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "rinktap/1.0"
	}

	return &Dispatcher{
		client: &http.Client{
			Timeout:   durationOrDefault(opts.Timeout, 30*time.Second),
			Transport: transport,
		},
		relays:    relays,
		logger:    log,
		userAgent: userAgent,
		recorders: recorders,
	}
}

// Dispatch attempts delivery through each relay in order until one
// yields a 2xx response with a valid JSON body. Any attempt failure
// (transport, non-2xx status, undecodable body) advances to the next
// relay. When the list is exhausted a single ExhaustedError naming the
// original target URL is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target) (*Envelope, error) {
	for _, rd := range d.relays {
		payload, attempt := d.attempt(ctx, rd, target)
		d.record(attempt)

		if attempt.Kind == KindSuccess {
			d.logger.Info("Relay delivery succeeded",
				"target", target.URL,
				"relay_index", rd.Index,
				"payload_bytes", len(payload),
				"duration_ms", attempt.Duration.Milliseconds(),
			)
			return &Envelope{
				Family:     target.Family,
				Path:       target.Path,
				Target:     target.URL,
				RelayIndex: rd.Index,
				Payload:    payload,
				FetchedAt:  attempt.Timestamp,
			}, nil
		}

		d.logger.Warn("Relay attempt failed",
			"target", target.URL,
			"relay_index", rd.Index,
			"kind", attempt.Kind,
			"status", attempt.StatusCode,
			"error", attempt.Error,
		)

		if ctx.Err() != nil {
			break
		}
	}

	d.logger.Error("All relay attempts failed",
		"target", target.URL,
		"relays", len(d.relays),
	)
	return nil, &ExhaustedError{Target: target.URL, Attempts: len(d.relays)}
}

// attempt executes one relay attempt and classifies the outcome.
func (d *Dispatcher) attempt(ctx context.Context, rd relay.Descriptor, target Target) (json.RawMessage, Attempt) {
	attempt := Attempt{
		Timestamp:  time.Now(),
		Target:     target.URL,
		Path:       target.Path,
		Family:     string(target.Family),
		RelayIndex: rd.Index,
		RelayBase:  rd.Base,
	}
	fail := func(kind string, err error) (json.RawMessage, Attempt) {
		attempt.Kind = kind
		if err != nil {
			attempt.Error = err.Error()
		}
		attempt.Duration = time.Since(attempt.Timestamp)
		return nil, attempt
	}

	relayURL := rd.Compose(target.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, relayURL, nil)
	if err != nil {
		return fail(KindNetwork, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(KindNetwork, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Warn("Failed to close response body", "error", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(KindNetwork, fmt.Errorf("read body: %w", err))
	}

	attempt.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(KindStatus, fmt.Errorf("relay returned status %d", resp.StatusCode))
	}

	if !json.Valid(body) {
		return fail(KindDecode, fmt.Errorf("body is not valid JSON (%d bytes)", len(body)))
	}

	attempt.Kind = KindSuccess
	attempt.Duration = time.Since(attempt.Timestamp)
	return json.RawMessage(body), attempt
}

func (d *Dispatcher) record(attempt Attempt) {
	for _, r := range d.recorders {
		if err := r.Record(attempt); err != nil {
			d.logger.Warn("Failed to record attempt", "error", err)
		}
	}
}

// Relays returns the descriptor list the dispatcher was built with.
func (d *Dispatcher) Relays() []relay.Descriptor {
	return d.relays
}

// Close releases idle transport connections.
func (d *Dispatcher) Close() {
	if transport, ok := d.client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

func positiveOrDefault(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}

func durationOrDefault(value, def time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return def
}
