package hermes

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubjectServiceRegistered = "discovery.service.registered"
	SubjectSessionStarted    = "discovery.session.started"
	SubjectInterviewGraded   = "discovery.interview.graded"
)

// SessionStarted is emitted when a student opens an interview.
type SessionStarted struct {
	SessionID  uuid.UUID `json:"session_id"`
	Segment    string    `json:"segment"`
	Problem    string    `json:"problem"`
	Hypothesis string    `json:"hypothesis"`
	Provider   string    `json:"provider"`
	UsePersona bool      `json:"use_persona"`
	StartedAt  time.Time `json:"started_at"`
}

// InterviewGraded is emitted once per session when the coach's critique is
// recorded. The critique text itself is not carried.
type InterviewGraded struct {
	SessionID  uuid.UUID `json:"session_id"`
	ArchiveID  string    `json:"archive_id,omitempty"`
	Segment    string    `json:"segment"`
	Hypothesis string    `json:"hypothesis"`
	Provider   string    `json:"provider"`
	Turns      int       `json:"turns"`
	Score      *float64  `json:"score,omitempty"`
	GradedAt   time.Time `json:"graded_at"`
}

// Publisher is the subset of Client used by event producers.
type Publisher interface {
	Publish(subject string, data any) error
}

// Events publishes discovery events. A nil Publisher makes every method a no-op.
type Events struct {
	pub Publisher
}

func NewEvents(pub Publisher) *Events {
	return &Events{pub: pub}
}

func (e *Events) SessionStarted(ev SessionStarted) error {
	if e == nil || e.pub == nil {
		return nil
	}
	return e.pub.Publish(SubjectSessionStarted, ev)
}

func (e *Events) InterviewGraded(ev InterviewGraded) error {
	if e == nil || e.pub == nil {
		return nil
	}
	return e.pub.Publish(SubjectInterviewGraded, ev)
}
