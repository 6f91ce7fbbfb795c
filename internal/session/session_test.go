package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
)

var designers = Setup{
	Segment:    "freelance designers",
	Problem:    "late invoice payments",
	Hypothesis: "designers would pay for automated invoice chasing",
}

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := New()
	if err := s.Start(designers, false, "system prompt"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	if s.Phase() != PhaseSetup {
		t.Errorf("expected setup phase, got %s", s.Phase())
	}
	p, key, test := s.Credentials()
	if p != llm.OpenAI || key != "" || test {
		t.Errorf("unexpected default credentials %s %q %v", p, key, test)
	}
	if len(s.Transcript()) != 0 {
		t.Error("expected empty transcript")
	}
	if s.Feedback() != nil {
		t.Error("expected no feedback")
	}
}

func TestSetupMissing(t *testing.T) {
	if m := designers.Missing(); len(m) != 0 {
		t.Errorf("expected nothing missing, got %v", m)
	}
	got := Setup{Segment: "  ", Hypothesis: "h"}.Missing()
	want := []string{"segment", "problem"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	s := startedSession(t)

	if err := s.AppendExchange("Tell me about the last time a client paid you late.", "In March, a studio paid 47 days late."); err != nil {
		t.Fatalf("append: %v", err)
	}
	before := s.Transcript()

	// Mutating the returned copy must not reach the session.
	before[0].Text = "tampered"

	if err := s.AppendExchange("What did you do about it?", "I emailed them three times."); err != nil {
		t.Fatalf("append: %v", err)
	}

	after := s.Transcript()
	if len(after) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(after))
	}
	if after[0].Text != "Tell me about the last time a client paid you late." {
		t.Errorf("earlier turn was altered: %q", after[0].Text)
	}
	if after[0].Role != llm.RoleUser || after[1].Role != llm.RoleAssistant {
		t.Errorf("unexpected roles %s %s", after[0].Role, after[1].Role)
	}
	if after[3].Text != "I emailed them three times." {
		t.Errorf("unexpected last turn %q", after[3].Text)
	}
}

func TestAppendExchange_WrongPhase(t *testing.T) {
	s := New()
	if err := s.AppendExchange("q", "a"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase before start, got %v", err)
	}

	s = startedSession(t)
	s.AppendExchange("q", "a")
	if err := s.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.AppendExchange("q2", "a2"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase after end, got %v", err)
	}
}

func TestStart_OnlyOnce(t *testing.T) {
	s := startedSession(t)
	if err := s.Start(designers, false, "again"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
	if s.SystemPrompt() != "system prompt" {
		t.Errorf("system prompt was replaced: %q", s.SystemPrompt())
	}
}

func TestPersona_FrozenAfterStart(t *testing.T) {
	s := New()
	if err := s.SetPersona(designers, "Maya, 34, brand designer"); err != nil {
		t.Fatalf("set persona: %v", err)
	}
	if err := s.SetPersona(designers, "Leo, 29, illustrator"); err != nil {
		t.Fatalf("regenerate persona: %v", err)
	}
	if s.Persona() != "Leo, 29, illustrator" {
		t.Errorf("expected regenerated persona, got %q", s.Persona())
	}

	if err := s.Start(designers, true, "prompt"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.Snapshot().UsePersona {
		t.Error("expected persona in use")
	}
	if err := s.SetPersona(designers, "late change"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
}

func TestStart_UsePersonaRequiresPersona(t *testing.T) {
	s := New()
	if err := s.Start(designers, true, "prompt"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Snapshot().UsePersona {
		t.Error("use_persona must be false when no persona was generated")
	}
}

func TestEnd_RequiresExchange(t *testing.T) {
	s := New()
	if err := s.End(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase in setup, got %v", err)
	}

	s = startedSession(t)
	if err := s.End(); !errors.Is(err, ErrNoExchange) {
		t.Fatalf("expected ErrNoExchange, got %v", err)
	}
	if s.Phase() != PhaseInterviewing {
		t.Errorf("expected interview to stay open, got %s", s.Phase())
	}
	if s.CanEnd() {
		t.Error("CanEnd should be false before any exchange")
	}

	s.AppendExchange("q", "a")
	if !s.CanEnd() {
		t.Error("CanEnd should be true after an exchange")
	}
	if err := s.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if s.CanEnd() {
		t.Error("CanEnd should be false once graded")
	}
}

func TestFeedback_AtMostOnceAndOnlyAfterEnd(t *testing.T) {
	s := startedSession(t)
	s.AppendExchange("q", "a")

	if err := s.SetFeedback(Feedback{Critique: "early"}); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase before end, got %v", err)
	}
	if s.Feedback() != nil {
		t.Fatal("feedback recorded before end")
	}

	if err := s.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("second end should be a no-op, got %v", err)
	}

	score := 6.0
	if err := s.SetFeedback(Feedback{Critique: "first", Score: &score}); err != nil {
		t.Fatalf("set feedback: %v", err)
	}
	if err := s.SetFeedback(Feedback{Critique: "second"}); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("expected ErrAlreadyGraded, got %v", err)
	}

	fb := s.Feedback()
	if fb.Critique != "first" || fb.Score == nil || *fb.Score != 6 {
		t.Errorf("unexpected feedback %+v", fb)
	}
	if fb.CreatedAt.IsZero() {
		t.Error("expected created_at to be stamped")
	}
}

func TestProviderSwitchKeepsTranscript(t *testing.T) {
	s := startedSession(t)
	s.SetProvider(llm.OpenAI, "sk-1", false)
	s.AppendExchange("q1", "a1")
	before := s.Transcript()

	s.SetProvider(llm.Gemini, "", true)
	s.AppendExchange("q2", "a2")

	after := s.Transcript()
	if !reflect.DeepEqual(before, after[:len(before)]) {
		t.Errorf("provider switch altered recorded turns: %+v vs %+v", before, after)
	}
	p, key, test := s.Credentials()
	if p != llm.Gemini || key != "" || !test {
		t.Errorf("unexpected credentials %s %q %v", p, key, test)
	}
}

func TestBegin_OneActionAtATime(t *testing.T) {
	s := New()
	release, err := s.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := s.Begin(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	release()

	release, err = s.Begin()
	if err != nil {
		t.Fatalf("begin after release: %v", err)
	}
	release()
}

func TestBegin_MarksActivity(t *testing.T) {
	s := New()
	before := s.UpdatedAt()
	time.Sleep(2 * time.Millisecond)

	release, err := s.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !s.Busy() {
		t.Error("expected session to be busy while claimed")
	}
	claimed := s.UpdatedAt()
	if !claimed.After(before) {
		t.Errorf("expected begin to refresh updated_at, %v is not after %v", claimed, before)
	}

	time.Sleep(2 * time.Millisecond)
	release()
	if s.Busy() {
		t.Error("expected session to be free after release")
	}
	if !s.UpdatedAt().After(claimed) {
		t.Error("expected release to refresh updated_at")
	}
}

func TestSnapshot_HidesKeyAndCopies(t *testing.T) {
	s := startedSession(t)
	s.SetProvider(llm.OpenAI, "sk-secret", false)
	s.AppendExchange("q", "a")

	snap := s.Snapshot()
	if !snap.HasKey {
		t.Error("expected has_key")
	}
	snap.Transcript[0].Text = "tampered"
	if s.Transcript()[0].Text != "q" {
		t.Error("snapshot shares transcript storage with the session")
	}
}
