package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

// SystemPrompt builds the roleplay instruction. The behavioural rules live
// only in this text; replies are never checked against them.
func SystemPrompt(setup session.Setup, persona string) string {
	who := strings.TrimSpace(persona)
	if who == "" {
		who = fmt.Sprintf(rawPersonaContext, setup.Segment)
	}
	return fmt.Sprintf(interviewSystemPrompt, setup.Problem, setup.Hypothesis, who)
}

// Start opens the interview. The generated persona is used only when
// usePersona is set and one exists; otherwise the raw segment stands in.
func (s *Service) Start(sess *session.Session, setup session.Setup, usePersona bool) error {
	release, err := sess.Begin()
	if err != nil {
		return err
	}
	defer release()

	if _, _, err := s.chatter(sess); err != nil {
		return err
	}
	if err := validateSetup(setup); err != nil {
		return err
	}

	var persona string
	if usePersona {
		persona = sess.Persona()
	}
	if err := sess.Start(setup, usePersona, SystemPrompt(setup, persona)); err != nil {
		return err
	}

	s.logger.Info("interview started",
		"session_id", sess.ID,
		"use_persona", persona != "",
	)
	return nil
}

// Ask sends one student question with the full transcript as context and
// records the exchange once the reply arrives.
func (s *Service) Ask(ctx context.Context, sess *session.Session, question string) (session.Turn, error) {
	release, err := sess.Begin()
	if err != nil {
		return session.Turn{}, err
	}
	defer release()

	if phase := sess.Phase(); phase != session.PhaseInterviewing {
		return session.Turn{}, fmt.Errorf("ask in %s: %w", phase, session.ErrWrongPhase)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return session.Turn{}, ErrEmptyMessage
	}
	chatter, ep, err := s.chatter(sess)
	if err != nil {
		return session.Turn{}, err
	}

	messages := buildMessages(sess.SystemPrompt(), sess.Transcript(), question)

	s.logger.Debug("sending interview turn",
		"session_id", sess.ID,
		"provider", ep.Provider,
		"messages", len(messages),
	)

	reply, err := chatter.Chat(ctx, messages)
	if err != nil {
		return session.Turn{}, fmt.Errorf("interview reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return session.Turn{}, fmt.Errorf("interview reply: %w", ErrEmptyReply)
	}

	if err := sess.AppendExchange(question, reply); err != nil {
		return session.Turn{}, err
	}
	return session.Turn{Role: llm.RoleAssistant, Text: reply}, nil
}

func buildMessages(system string, turns []session.Turn, question string) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, session.Messages(turns)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})
	return messages
}
