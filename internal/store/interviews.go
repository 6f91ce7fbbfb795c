package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// InterviewRow is one archived, graded interview.
type InterviewRow struct {
	ID         uuid.UUID      `json:"id"`
	SessionID  uuid.UUID      `json:"session_id"`
	Segment    string         `json:"segment"`
	Problem    string         `json:"problem"`
	Hypothesis string         `json:"hypothesis"`
	Persona    string         `json:"persona,omitempty"`
	Provider   string         `json:"provider"`
	Transcript []session.Turn `json:"transcript"`
	Turns      int            `json:"turns"`
	Critique   string         `json:"critique"`
	Score      *float64       `json:"score,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// InterviewSummary is the listing view of an archived interview.
type InterviewSummary struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	Segment    string    `json:"segment"`
	Hypothesis string    `json:"hypothesis"`
	Provider   string    `json:"provider"`
	Turns      int       `json:"turns"`
	Score      *float64  `json:"score,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// WriteGradedInterview archives a graded session. Writing the same session
// twice returns the id of the existing row.
func (s *Store) WriteGradedInterview(ctx context.Context, snap session.Snapshot) (uuid.UUID, error) {
	if snap.Feedback == nil {
		return uuid.Nil, fmt.Errorf("archive session %s: no feedback recorded", snap.ID)
	}

	var persona string
	if snap.UsePersona {
		persona = snap.Persona
	}

	transcript, err := json.Marshal(snap.Transcript)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal transcript: %w", err)
	}

	id := uuid.New()
	err = s.pool.QueryRow(ctx, `
		INSERT INTO graded_interviews (id, session_id, segment, problem, hypothesis, persona, provider, transcript, turns, critique, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id`,
		id, snap.ID, snap.Setup.Segment, snap.Setup.Problem, snap.Setup.Hypothesis, persona,
		string(snap.Provider), string(transcript), len(snap.Transcript), snap.Feedback.Critique, snap.Feedback.Score,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert graded interview: %w", err)
	}
	return id, nil
}

// GetGradedInterview fetches an archived interview by id.
func (s *Store) GetGradedInterview(ctx context.Context, id uuid.UUID) (*InterviewRow, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, session_id, segment, problem, hypothesis, persona, provider, transcript, turns, critique, score, created_at
		FROM graded_interviews WHERE id = $1`, id)

	var (
		r          InterviewRow
		transcript []byte
	)
	err := row.Scan(&r.ID, &r.SessionID, &r.Segment, &r.Problem, &r.Hypothesis, &r.Persona, &r.Provider,
		&transcript, &r.Turns, &r.Critique, &r.Score, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get graded interview: %w", err)
	}
	if err := json.Unmarshal(transcript, &r.Transcript); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &r, nil
}

// ListRecent returns the newest archived interviews first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]InterviewSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, segment, hypothesis, provider, turns, score, created_at
		FROM graded_interviews
		ORDER BY created_at DESC
		LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list graded interviews: %w", err)
	}
	defer rows.Close()

	var out []InterviewSummary
	for rows.Next() {
		var r InterviewSummary
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Segment, &r.Hypothesis, &r.Provider, &r.Turns, &r.Score, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan graded interview: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClampLimit bounds a requested page size.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}
