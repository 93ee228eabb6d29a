package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	models "signal-studio/database/models_pkg"
	"signal-studio/generator"
	"signal-studio/sigerrors"
	"signal-studio/validation"
)

// generateRequest is the body of POST /api/signals.
type generateRequest struct {
	SignalType models.SignalType       `json:"signal_type"`
	Params     models.GenerationParams `json:"params"`
}

func (s *Server) handleGenerateSignal(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if !req.SignalType.Valid() {
		writeError(w, sigerrors.NewInvalidParameters([]string{"unknown signal type"}))
		return
	}
	if res := validation.ValidateGeneration(req.Params); !res.IsValid {
		writeError(w, sigerrors.NewInvalidParameters(res.Errors))
		return
	}

	samples, timestamps, err := generator.Generate(req.SignalType, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}

	sig := &models.CompleteSignal{
		ID:               uuid.NewString(),
		SignalType:       req.SignalType,
		Samples:          samples,
		Timestamps:       timestamps,
		GenerationParams: req.Params,
		CreatedAt:        time.Now(),
	}
	if err := s.store.SaveCompleteSignal(r.Context(), sig); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sig)
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 50)

	metas, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	sig, err := s.store.GetCompleteSignal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (s *Server) handleProcessSignal(w http.ResponseWriter, r *http.Request) {
	var params models.ProcessingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	derived, err := s.processor.Process(r.Context(), r.PathValue("id"), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, derived)
}

func (s *Server) handleDeleteSignal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSignal(r.Context(), r.PathValue("id")); err != nil {
		// Refusing to delete an original with live children is a client
		// mistake, not an internal fault.
		if sigerrors.IsIntegrityViolation(err) {
			writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
