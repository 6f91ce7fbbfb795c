package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/discoverysim/internal/hermes"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// Archiver persists graded interviews.
type Archiver interface {
	WriteGradedInterview(ctx context.Context, snap session.Snapshot) (uuid.UUID, error)
}

// Events publishes session lifecycle events.
type Events interface {
	SessionStarted(ev hermes.SessionStarted) error
	InterviewGraded(ev hermes.InterviewGraded) error
}

// FeedbackPoster shares graded interviews with the instructor.
type FeedbackPoster interface {
	PostFeedback(ctx context.Context, snap session.Snapshot) (string, error)
}

// Processor fans session milestones out to the optional side sinks. Any sink
// may be nil. Sink failures never change the session itself.
type Processor struct {
	archive Archiver
	events  Events
	slack   FeedbackPoster
	logger  *slog.Logger
}

func New(archive Archiver, events Events, slack FeedbackPoster, logger *slog.Logger) *Processor {
	return &Processor{
		archive: archive,
		events:  events,
		slack:   slack,
		logger:  logger,
	}
}

// HandleStarted announces a newly opened interview.
func (p *Processor) HandleStarted(ctx context.Context, snap session.Snapshot) error {
	if p.events == nil {
		return nil
	}
	err := p.events.SessionStarted(hermes.SessionStarted{
		SessionID:  snap.ID,
		Segment:    snap.Setup.Segment,
		Problem:    snap.Setup.Problem,
		Hypothesis: snap.Setup.Hypothesis,
		Provider:   string(snap.Provider),
		UsePersona: snap.UsePersona,
		StartedAt:  snap.UpdatedAt,
	})
	if err != nil {
		p.logger.Warn("session started event failed", "session_id", snap.ID, "error", err)
		return fmt.Errorf("publish session started: %w", err)
	}
	return nil
}

// HandleGraded archives the interview, publishes the graded event and posts
// the instructor summary. Every sink is attempted; failures are joined.
func (p *Processor) HandleGraded(ctx context.Context, snap session.Snapshot) error {
	if snap.Feedback == nil {
		return fmt.Errorf("session %s has no feedback", snap.ID)
	}

	var errs []error

	var archiveID uuid.UUID
	if p.archive != nil {
		id, err := p.archive.WriteGradedInterview(ctx, snap)
		if err != nil {
			p.logger.Error("archive write failed", "session_id", snap.ID, "error", err)
			errs = append(errs, fmt.Errorf("archive: %w", err))
		} else {
			archiveID = id
			p.logger.Info("interview archived", "session_id", snap.ID, "archive_id", id)
		}
	}

	if p.events != nil {
		ev := hermes.InterviewGraded{
			SessionID:  snap.ID,
			Segment:    snap.Setup.Segment,
			Hypothesis: snap.Setup.Hypothesis,
			Provider:   string(snap.Provider),
			Turns:      len(snap.Transcript),
			Score:      snap.Feedback.Score,
			GradedAt:   snap.Feedback.CreatedAt,
		}
		if archiveID != uuid.Nil {
			ev.ArchiveID = archiveID.String()
		}
		if err := p.events.InterviewGraded(ev); err != nil {
			p.logger.Warn("graded event failed", "session_id", snap.ID, "error", err)
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}

	if p.slack != nil {
		if _, err := p.slack.PostFeedback(ctx, snap); err != nil {
			p.logger.Warn("instructor post failed", "session_id", snap.ID, "error", err)
			errs = append(errs, fmt.Errorf("instructor channel: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Warnings flattens a joined error into user-facing messages.
func Warnings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
