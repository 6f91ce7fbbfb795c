package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// PersonaPrompt is the single user message sent to generate a backstory.
func PersonaPrompt(setup session.Setup) string {
	return fmt.Sprintf(personaPrompt, setup.Segment, setup.Problem, setup.Hypothesis)
}

// GeneratePersona asks the model for a grounded customer backstory and stores it.
func (s *Service) GeneratePersona(ctx context.Context, sess *session.Session, setup session.Setup) (string, error) {
	release, err := sess.Begin()
	if err != nil {
		return "", err
	}
	defer release()

	if phase := sess.Phase(); phase != session.PhaseSetup {
		return "", fmt.Errorf("generate persona in %s: %w", phase, session.ErrWrongPhase)
	}
	chatter, ep, err := s.chatter(sess)
	if err != nil {
		return "", err
	}
	if err := validateSetup(setup); err != nil {
		return "", err
	}

	s.logger.Info("generating persona",
		"session_id", sess.ID,
		"provider", ep.Provider,
		"model", ep.Model,
	)

	reply, err := chatter.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: PersonaPrompt(setup)},
	})
	if err != nil {
		return "", fmt.Errorf("generate persona: %w", err)
	}
	persona := strings.TrimSpace(reply)
	if persona == "" {
		return "", fmt.Errorf("generate persona: %w", ErrEmptyReply)
	}

	if err := sess.SetPersona(setup, persona); err != nil {
		return "", err
	}
	return persona, nil
}
