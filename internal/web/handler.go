package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/funnyzak/rinktap/internal/catalog"
	"github.com/funnyzak/rinktap/internal/controller"
	"github.com/funnyzak/rinktap/internal/logger"
	"github.com/funnyzak/rinktap/internal/trace"
)

// Service exposes the controller and the attempt trace to local UI
// consumers. It is a reference consumer of the data-access core, not
// part of it.
type Service struct {
	logger     logger.Logger
	controller *controller.Controller
	store      trace.Store // nil when tracing is disabled
	hub        *WebsocketHub
}

// NewService creates the inspector service.
func NewService(log logger.Logger, ctrl *controller.Controller, store trace.Store, hub *WebsocketHub) *Service {
	if hub == nil {
		hub = NewWebsocketHub(log)
	}
	return &Service{
		logger:     log,
		controller: ctrl,
		store:      store,
		hub:        hub,
	}
}

// Hub returns the live event feed hub.
func (s *Service) Hub() *WebsocketHub {
	return s.hub
}

// RegisterRoutes attaches inspector endpoints to the router.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/operations", s.handleOperations).Methods(http.MethodGet)
	r.HandleFunc("/api/fetch/{operation}", s.handleFetch).Methods(http.MethodGet)
	r.HandleFunc("/api/trace", s.handleTrace).Methods(http.MethodGet)
	r.HandleFunc("/api/reset", s.handleReset).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebsocket)
}

// Close shuts down the live feed.
func (s *Service) Close() {
	s.hub.Close()
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Service) handleOperations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"operations": catalog.OperationNames(),
		"teams":      catalog.TeamCodes(),
	})
}

type fetchResponse struct {
	Operation string          `json:"operation"`
	Path      string          `json:"path"`
	Family    string          `json:"family"`
	Payload   json.RawMessage `json:"payload"`
}

func (s *Service) handleFetch(w http.ResponseWriter, r *http.Request) {
	operation := mux.Vars(r)["operation"]
	team := r.URL.Query().Get("team")
	season := r.URL.Query().Get("season")

	path, family, err := catalog.Resolve(operation, team, season)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.controller.Invoke(r.Context(), path, family)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, fetchResponse{
		Operation: operation,
		Path:      path,
		Family:    string(family),
		Payload:   payload,
	})
}

func (s *Service) handleTrace(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "attempt tracing is disabled")
		return
	}

	opts := trace.ListOptions{
		Target: r.URL.Query().Get("target"),
		Kind:   r.URL.Query().Get("kind"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			opts.Limit = n
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			opts.Offset = n
		}
	}

	attempts, total, err := s.store.List(opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"total":    total,
	})
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset()
	s.writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Service) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if _, err := s.hub.Upgrade(w, r); err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
	}
}
