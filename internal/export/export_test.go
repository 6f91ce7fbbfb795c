package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

func snapshot() session.Snapshot {
	return session.Snapshot{
		Setup: session.Setup{
			Segment:    "freelance designers",
			Problem:    "late invoice payments",
			Hypothesis: "designers would pay for invoice chasing",
		},
		Transcript: []session.Turn{
			{Role: llm.RoleUser, Text: "Tell me about the last late payment."},
			{Role: llm.RoleAssistant, Text: "March, 45 days late."},
			{Role: llm.RoleUser, Text: "Would you pay for an app?"},
			{Role: llm.RoleAssistant, Text: "Maybe."},
		},
	}
}

func TestText_Empty(t *testing.T) {
	_, err := Text(session.Snapshot{})
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestText_TranscriptOnly(t *testing.T) {
	out, err := Text(snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Customer segment: freelance designers",
		"Problem: late invoice payments",
		"Hypothesis: designers would pay for invoice chasing",
		"STUDENT: Tell me about the last late payment.\nCUSTOMER: March, 45 days late.\nSTUDENT: Would you pay for an app?\nCUSTOMER: Maybe.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "COACH FEEDBACK") {
		t.Error("unexpected feedback section")
	}
}

func TestText_FeedbackLast(t *testing.T) {
	snap := snapshot()
	score := 6.0
	snap.Feedback = &session.Feedback{Critique: "Avoid hypotheticals.", Score: &score}
	snap.Persona = "Maya, brand designer"
	snap.UsePersona = true

	out, err := Text(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := strings.Index(out, "CUSTOMER: Maybe.")
	fb := strings.Index(out, "Avoid hypotheticals.")
	if last < 0 || fb < 0 || fb < last {
		t.Errorf("expected feedback after the last turn:\n%s", out)
	}
	if !strings.Contains(out, "Score: 6/10") {
		t.Error("expected score line")
	}
	if !strings.Contains(out, "Persona:\nMaya, brand designer") {
		t.Error("expected persona section")
	}
}
