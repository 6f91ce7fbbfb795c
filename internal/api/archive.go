package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/discoverysim/internal/store"
)

// ArchiveReader is the read side of the graded-interview archive.
type ArchiveReader interface {
	ListRecent(ctx context.Context, limit int) ([]store.InterviewSummary, error)
	GetGradedInterview(ctx context.Context, id uuid.UUID) (*store.InterviewRow, error)
}

type ArchiveListResponse struct {
	Interviews []store.InterviewSummary `json:"interviews"`
	Count      int                      `json:"count"`
}

// listArchive handles GET /api/v1/archive
func (s *Server) listArchive(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "invalid_limit", "limit must be an integer")
			return
		}
		limit = n
	}

	rows, err := s.deps.Archive.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("archive listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "archive listing failed", Code: "archive_error"})
		return
	}
	if rows == nil {
		rows = []store.InterviewSummary{}
	}
	writeJSON(w, http.StatusOK, ArchiveListResponse{Interviews: rows, Count: len(rows)})
}

// getArchived handles GET /api/v1/archive/{id}
func (s *Server) getArchived(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid_id", "id must be a uuid")
		return
	}
	row, err := s.deps.Archive.GetGradedInterview(r.Context(), id)
	if err != nil {
		if status, code := classify(err); status == http.StatusNotFound {
			writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
			return
		}
		s.logger.Error("archive read failed", "archive_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "archive read failed", Code: "archive_error"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}
