package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/funnyzak/rinktap/internal/catalog"
	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/controller"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
	"github.com/funnyzak/rinktap/internal/relay"
	"github.com/funnyzak/rinktap/internal/trace"
)

var testHosts = catalog.Hosts{
	Primary:    "https://api-web.example/v1",
	Statistics: "https://api-stats.example/rest/en",
}

func newTestService(t *testing.T, handler http.HandlerFunc, store trace.Store) *Service {
	t.Helper()
	relaySrv := httptest.NewServer(handler)
	t.Cleanup(relaySrv.Close)

	relays := []relay.Descriptor{
		{Index: 0, Base: relaySrv.URL + "/raw?url=", Mode: relay.ModeEncodedQuery},
	}

	var recorders []dispatch.Recorder
	if store != nil {
		recorders = append(recorders, store)
	}
	d := dispatch.New(logger.Noop(), relays, dispatch.Options{}, recorders...)
	t.Cleanup(d.Close)

	ctrl := controller.New(d, testHosts, logger.Noop(), controller.Options{})
	return NewService(logger.Noop(), ctrl, store, nil)
}

func serveRequest(svc *Service, method, url string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	svc.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, url, nil))
	return rec
}

func TestHandleFetchSuccess(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings":[]}`))
	}, nil)
	defer svc.Close()

	rec := serveRequest(svc, http.MethodGet, "/api/fetch/standings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp fetchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Operation != "standings" || resp.Path != "/standings/now" || resp.Family != "primary" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if string(resp.Payload) != `{"standings":[]}` {
		t.Fatalf("unexpected payload: %s", resp.Payload)
	}
}

func TestHandleFetchBadOperation(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, nil)
	defer svc.Close()

	if rec := serveRequest(svc, http.MethodGet, "/api/fetch/nope"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if rec := serveRequest(svc, http.MethodGet, "/api/fetch/roster?team=ZZZ"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown team", rec.Code)
	}
}

func TestHandleFetchExhaustion(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)
	defer svc.Close()

	rec := serveRequest(svc, http.MethodGet, "/api/fetch/standings")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	want := "Failed to fetch data from https://api-web.example/v1/standings/now"
	if resp["error"] != want {
		t.Fatalf("error = %q, want %q", resp["error"], want)
	}

	// State reflects the settled error.
	rec = serveRequest(svc, http.MethodGet, "/api/state")
	var state controller.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("bad state body: %v", err)
	}
	if state.Phase != controller.PhaseError || state.Err != want {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestHandleTrace(t *testing.T) {
	dir := t.TempDir()
	store, err := trace.New(&config.TraceConfig{
		Driver: "sqlite",
		Path:   filepath.Join(dir, "trace.db"),
	}, logger.Noop())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gameWeek":[]}`))
	}, store)
	defer svc.Close()

	if rec := serveRequest(svc, http.MethodGet, "/api/fetch/schedule"); rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", rec.Code)
	}

	rec := serveRequest(svc, http.MethodGet, "/api/trace?kind=success")
	if rec.Code != http.StatusOK {
		t.Fatalf("trace status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Attempts []*trace.StoredAttempt `json:"attempts"`
		Total    int                    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad trace body: %v", err)
	}
	if resp.Total != 1 || len(resp.Attempts) != 1 {
		t.Fatalf("trace returned %d/%d, want 1/1", len(resp.Attempts), resp.Total)
	}
	if resp.Attempts[0].Kind != dispatch.KindSuccess {
		t.Fatalf("unexpected attempt kind: %s", resp.Attempts[0].Kind)
	}
}

func TestHandleTraceDisabled(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, nil)
	defer svc.Close()

	if rec := serveRequest(svc, http.MethodGet, "/api/trace"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when tracing disabled", rec.Code)
	}
}

func TestHandleOperationsAndReset(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings":[]}`))
	}, nil)
	defer svc.Close()

	rec := serveRequest(svc, http.MethodGet, "/api/operations")
	var ops struct {
		Operations []string `json:"operations"`
		Teams      []string `json:"teams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ops); err != nil {
		t.Fatalf("bad operations body: %v", err)
	}
	if len(ops.Operations) != 7 {
		t.Fatalf("expected 7 operations, got %d", len(ops.Operations))
	}
	if len(ops.Teams) != 32 {
		t.Fatalf("expected 32 teams, got %d", len(ops.Teams))
	}

	serveRequest(svc, http.MethodGet, "/api/fetch/standings")
	rec = serveRequest(svc, http.MethodPost, "/api/reset")
	var state controller.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("bad reset body: %v", err)
	}
	if state.Phase != controller.PhaseIdle {
		t.Fatalf("phase after reset = %s, want idle", state.Phase)
	}
}
