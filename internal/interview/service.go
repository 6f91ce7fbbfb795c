package interview

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrEmptyReply    = errors.New("model returned an empty reply")
)

// Service runs the three model-backed actions of a session: persona
// generation, interview turns and coaching. Each action issues at most one
// request and nothing is retried.
type Service struct {
	catalog llm.Catalog
	dial    llm.Dialer
	logger  *slog.Logger
}

func NewService(catalog llm.Catalog, dial llm.Dialer, logger *slog.Logger) *Service {
	return &Service{catalog: catalog, dial: dial, logger: logger}
}

// chatter resolves the session's provider. It fails with llm.ErrMissingKey
// before anything is dialled.
func (s *Service) chatter(sess *session.Session) (llm.Chatter, llm.Endpoint, error) {
	p, key, useTestKey := sess.Credentials()
	ep, err := s.catalog.Endpoint(p, key, useTestKey)
	if err != nil {
		return nil, llm.Endpoint{}, err
	}
	c, err := s.dial(ep)
	if err != nil {
		return nil, llm.Endpoint{}, fmt.Errorf("dial %s: %w", p.Label(), err)
	}
	return c, ep, nil
}

func validateSetup(setup session.Setup) error {
	if missing := setup.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}
	return nil
}
