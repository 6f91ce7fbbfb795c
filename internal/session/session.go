package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
)

var (
	ErrWrongPhase    = errors.New("action not allowed in the current phase")
	ErrAlreadyGraded = errors.New("feedback already recorded")
	ErrBusy          = errors.New("another action is still in progress")
	ErrNoExchange    = errors.New("interview has no completed exchange yet")
	ErrNotFound      = errors.New("session not found")
)

// Phase is the implicit setup → interviewing → graded lifecycle.
type Phase string

const (
	PhaseSetup        Phase = "setup"
	PhaseInterviewing Phase = "interviewing"
	PhaseGraded       Phase = "graded"
)

// Setup is the student's framing of the interview.
type Setup struct {
	Segment    string `json:"segment"`
	Problem    string `json:"problem"`
	Hypothesis string `json:"hypothesis"`
}

// Missing lists the names of blank fields.
func (s Setup) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.Segment) == "" {
		missing = append(missing, "segment")
	}
	if strings.TrimSpace(s.Problem) == "" {
		missing = append(missing, "problem")
	}
	if strings.TrimSpace(s.Hypothesis) == "" {
		missing = append(missing, "hypothesis")
	}
	return missing
}

type Turn struct {
	Role llm.Role `json:"role"`
	Text string   `json:"text"`
}

// Feedback is the coach's critique. Score is nil when none could be read.
type Feedback struct {
	Critique  string    `json:"critique"`
	Score     *float64  `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the state of one interactive browser session.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	action sync.Mutex

	mu           sync.RWMutex
	updatedAt    time.Time
	setup        Setup
	persona      string
	usePersona   bool
	provider     llm.Provider
	apiKey       string
	useTestKey   bool
	systemPrompt string
	transcript   []Turn
	phase        Phase
	feedback     *Feedback
}

func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		updatedAt: now,
		provider:  llm.OpenAI,
		phase:     PhaseSetup,
	}
}

// Begin claims the session for one user action. The returned func releases
// it. Claiming and releasing both count as activity for the idle sweep.
func (s *Session) Begin() (func(), error) {
	if !s.action.TryLock() {
		return nil, ErrBusy
	}
	s.markActive()
	return func() {
		s.markActive()
		s.action.Unlock()
	}, nil
}

// Busy reports whether an action currently holds the session.
func (s *Session) Busy() bool {
	if !s.action.TryLock() {
		return true
	}
	s.action.Unlock()
	return false
}

// SetProvider switches backend or key. Recorded turns are not touched.
func (s *Session) SetProvider(p llm.Provider, apiKey string, useTestKey bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	s.apiKey = strings.TrimSpace(apiKey)
	s.useTestKey = useTestKey
	s.touch()
}

func (s *Session) Credentials() (llm.Provider, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider, s.apiKey, s.useTestKey
}

// SetPersona records a generated backstory. Only allowed before the interview starts.
func (s *Session) SetPersona(setup Setup, persona string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSetup {
		return fmt.Errorf("set persona in %s: %w", s.phase, ErrWrongPhase)
	}
	s.setup = setup
	s.persona = persona
	s.usePersona = persona != ""
	s.touch()
	return nil
}

// Start freezes the setup and system prompt and opens the interview.
func (s *Session) Start(setup Setup, usePersona bool, systemPrompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSetup {
		return fmt.Errorf("start in %s: %w", s.phase, ErrWrongPhase)
	}
	s.setup = setup
	s.usePersona = usePersona && s.persona != ""
	s.systemPrompt = systemPrompt
	s.phase = PhaseInterviewing
	s.touch()
	return nil
}

func (s *Session) Setup() Setup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setup
}

// Persona returns the generated backstory, if any.
func (s *Session) Persona() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

func (s *Session) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemPrompt
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Transcript returns a copy of the recorded turns.
func (s *Session) Transcript() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// AppendExchange records a question and its reply together.
func (s *Session) AppendExchange(question, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInterviewing {
		return fmt.Errorf("append turn in %s: %w", s.phase, ErrWrongPhase)
	}
	s.transcript = append(s.transcript,
		Turn{Role: llm.RoleUser, Text: question},
		Turn{Role: llm.RoleAssistant, Text: reply},
	)
	s.touch()
	return nil
}

// End closes the interview. Ending an already graded session is a no-op so
// a failed grading call can be repeated.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseGraded:
		return nil
	case PhaseInterviewing:
	default:
		return fmt.Errorf("end in %s: %w", s.phase, ErrWrongPhase)
	}
	if !hasExchange(s.transcript) {
		return ErrNoExchange
	}
	s.phase = PhaseGraded
	s.touch()
	return nil
}

// CanEnd reports whether the interview is open and has a completed exchange.
func (s *Session) CanEnd() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == PhaseInterviewing && hasExchange(s.transcript)
}

// SetFeedback records the critique. It can happen once, after End.
func (s *Session) SetFeedback(f Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGraded {
		return fmt.Errorf("record feedback in %s: %w", s.phase, ErrWrongPhase)
	}
	if s.feedback != nil {
		return ErrAlreadyGraded
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	s.feedback = &f
	s.touch()
	return nil
}

// Feedback returns a copy of the recorded critique or nil.
func (s *Session) Feedback() *Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.feedback == nil {
		return nil
	}
	f := *s.feedback
	return &f
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Snapshot is a read-only copy of the session without the API key.
type Snapshot struct {
	ID         uuid.UUID    `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Phase      Phase        `json:"phase"`
	Setup      Setup        `json:"setup"`
	Persona    string       `json:"persona,omitempty"`
	UsePersona bool         `json:"use_persona"`
	Provider   llm.Provider `json:"provider"`
	UseTestKey bool         `json:"use_test_key"`
	HasKey     bool         `json:"has_key"`
	Transcript []Turn       `json:"transcript"`
	Feedback   *Feedback    `json:"feedback,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.updatedAt,
		Phase:      s.phase,
		Setup:      s.setup,
		Persona:    s.persona,
		UsePersona: s.usePersona,
		Provider:   s.provider,
		UseTestKey: s.useTestKey,
		HasKey:     s.apiKey != "",
		Transcript: make([]Turn, len(s.transcript)),
	}
	copy(snap.Transcript, s.transcript)
	if s.feedback != nil {
		f := *s.feedback
		snap.Feedback = &f
	}
	return snap
}

func (s *Session) markActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}

func hasExchange(turns []Turn) bool {
	var asked bool
	for _, t := range turns {
		switch t.Role {
		case llm.RoleUser:
			asked = true
		case llm.RoleAssistant:
			if asked {
				return true
			}
		}
	}
	return false
}
