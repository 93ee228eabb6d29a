package api

import (
	"encoding/json"
	"net/http"
)

// triggerConfigRequest is the body of PUT /api/trigger.
type triggerConfigRequest struct {
	Threshold float64 `json:"threshold"`
	Enabled   bool    `json:"enabled"`
}

func (s *Server) handleConfigureTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if err := s.monitor.Configure(r.Context(), req.Threshold, req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleGetTriggerConfig(w http.ResponseWriter, r *http.Request) {
	threshold, enabled, configured := s.monitor.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"configured": configured,
		"threshold":  threshold,
		"enabled":    enabled,
	})
}

// checkRequest is the body of POST /api/trigger/check.
type checkRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) handleCheckTrigger(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	event, err := s.monitor.CheckValue(r.Context(), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	// No event is a normal outcome, not an error: the value simply did
	// not exceed the threshold (or the trigger is disabled).
	writeJSON(w, http.StatusOK, map[string]any{
		"triggered": event != nil,
		"event":     event,
	})
}

func (s *Server) handleGetTriggerEvents(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 100)

	events, err := s.monitor.GetEvents(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleClearTriggerEvents(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.ClearEvents(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
