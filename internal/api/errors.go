package api

import (
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/discoverysim/internal/export"
	"github.com/MikeSquared-Agency/discoverysim/internal/interview"
	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
	"github.com/MikeSquared-Agency/discoverysim/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{llm.ErrMissingKey, http.StatusBadRequest, "missing_key"},
	{interview.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
	{interview.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},
	{session.ErrBusy, http.StatusConflict, "busy"},
	{session.ErrWrongPhase, http.StatusConflict, "wrong_phase"},
	{session.ErrNoExchange, http.StatusConflict, "no_exchange"},
	{session.ErrAlreadyGraded, http.StatusConflict, "already_graded"},
	{export.ErrEmpty, http.StatusConflict, "nothing_to_export"},
	{session.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
}

// classify maps a domain error onto an HTTP status and stable code. Anything
// unrecognised came from the model provider.
func classify(err error) (int, string) {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.status, c.code
		}
	}
	return http.StatusBadGateway, "provider_error"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func badRequest(w http.ResponseWriter, code, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Code: code})
}
