package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// CoachPrompt asks for a critique of the whole transcript against the setup.
func CoachPrompt(setup session.Setup, turns []session.Turn) string {
	return fmt.Sprintf(coachPrompt,
		setup.Problem,
		setup.Segment,
		setup.Hypothesis,
		session.FormatTranscript(turns),
		setup.Hypothesis,
	)
}

// Analyze ends the interview and grades it. Feedback is produced at most
// once; later calls return the stored critique with created == false and
// make no request.
func (s *Service) Analyze(ctx context.Context, sess *session.Session) (fb *session.Feedback, created bool, err error) {
	release, err := sess.Begin()
	if err != nil {
		return nil, false, err
	}
	defer release()

	if existing := sess.Feedback(); existing != nil {
		return existing, false, nil
	}
	chatter, ep, err := s.chatter(sess)
	if err != nil {
		return nil, false, err
	}
	if err := sess.End(); err != nil {
		return nil, false, err
	}

	turns := sess.Transcript()
	s.logger.Info("grading interview",
		"session_id", sess.ID,
		"provider", ep.Provider,
		"turns", len(turns),
	)

	reply, err := chatter.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: CoachPrompt(sess.Setup(), turns)},
	})
	if err != nil {
		return nil, false, fmt.Errorf("coach feedback: %w", err)
	}
	critique := strings.TrimSpace(reply)
	if critique == "" {
		return nil, false, fmt.Errorf("coach feedback: %w", ErrEmptyReply)
	}

	if err := sess.SetFeedback(session.Feedback{
		Critique: critique,
		Score:    ParseScore(critique),
	}); err != nil {
		return nil, false, err
	}
	return sess.Feedback(), true, nil
}
