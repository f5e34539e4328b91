package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/internal/pipeline"
	"github.com/EyalShechtman/AWSHackDay/internal/session"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// SessionHandler exposes the dashboard session state and the cycle
// trigger
// SSOT: session API handlers live here only
type SessionHandler struct {
	store        *session.Store
	orchestrator *pipeline.Orchestrator
	logger       *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store, orch *pipeline.Orchestrator, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		store:        store,
		orchestrator: orch,
		logger:       log,
	}
}

// GetSession returns a snapshot of the session state
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// PutStrategy updates the free-text investment strategy
// PUT /api/strategy  body: {"strategy": "..."}
func (h *SessionHandler) PutStrategy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Strategy == "" {
		writeError(w, http.StatusBadRequest, "strategy must not be empty")
		return
	}

	if err := h.store.SetStrategy(body.Strategy); err != nil {
		// strategy is frozen while a cycle is running
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StartCycle launches an investment cycle in the background. While a
// cycle is running further requests are rejected with 409; the
// single-flight guard lives in the session store, this handler only
// translates it to HTTP.
// POST /api/cycle
func (h *SessionHandler) StartCycle(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	if snap.Status == contracts.StatusRunning {
		writeError(w, http.StatusConflict, contracts.ErrRunInFlight.Error())
		return
	}

	// The run outlives the HTTP request; progress flows through the
	// websocket stream.
	go func() {
		if err := h.orchestrator.RunCycle(context.Background()); err != nil {
			if errors.Is(err, contracts.ErrRunInFlight) {
				return
			}
			h.logger.WithError(err).Error("Investment cycle finished with error")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": string(contracts.StatusRunning)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
