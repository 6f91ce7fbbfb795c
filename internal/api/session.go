package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/discoverysim/internal/export"
	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/processor"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

const sinkTimeout = 15 * time.Second

// SessionView is the UI's picture of the current session.
type SessionView struct {
	session.Snapshot
	CanAnalyze       bool `json:"can_analyze"`
	TestKeyAvailable bool `json:"test_key_available"`
}

type ProviderRequest struct {
	Provider   string `json:"provider"`
	APIKey     string `json:"api_key"`
	UseTestKey bool   `json:"use_test_key"`
}

type StartRequest struct {
	session.Setup
	UsePersona bool `json:"use_persona"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Reply   session.Turn `json:"reply"`
	Session SessionView  `json:"session"`
}

type PersonaResponse struct {
	Persona string `json:"persona"`
}

type EndResponse struct {
	Feedback *session.Feedback `json:"feedback"`
	Created  bool              `json:"created"`
	Warnings []string          `json:"warnings,omitempty"`
}

type StartResponse struct {
	Session  SessionView `json:"session"`
	Warnings []string    `json:"warnings,omitempty"`
}

func (s *Server) view(sess *session.Session) SessionView {
	return SessionView{
		Snapshot:         sess.Snapshot(),
		CanAnalyze:       sess.CanEnd(),
		TestKeyAvailable: s.deps.TestKeyAvailable,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid_json", fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view(SessionFromContext(r.Context())))
}

func (s *Server) setProvider(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req ProviderRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := llm.ParseProvider(req.Provider)
	if err != nil {
		badRequest(w, "invalid_provider", err.Error())
		return
	}
	sess.SetProvider(p, req.APIKey, req.UseTestKey && p == llm.Gemini)

	s.logger.Info("provider selected", "session_id", sess.ID, "provider", p, "use_test_key", req.UseTestKey && p == llm.Gemini)
	writeJSON(w, http.StatusOK, s.view(sess))
}

func (s *Server) generatePersona(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var setup session.Setup
	if !decode(w, r, &setup) {
		return
	}
	persona, err := s.deps.Interview.GeneratePersona(r.Context(), sess, setup)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PersonaResponse{Persona: persona})
}

func (s *Server) startInterview(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req StartRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.deps.Interview.Start(sess, req.Setup, req.UsePersona); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := StartResponse{Session: s.view(sess)}
	if s.deps.Processor != nil {
		ctx, cancel := sinkContext(r.Context())
		defer cancel()
		resp.Warnings = processor.Warnings(s.deps.Processor.HandleStarted(ctx, resp.Session.Snapshot))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req MessageRequest
	if !decode(w, r, &req) {
		return
	}
	reply, err := s.deps.Interview.Ask(r.Context(), sess, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Reply: reply, Session: s.view(sess)})
}

func (s *Server) endInterview(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	fb, created, err := s.deps.Interview.Analyze(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := EndResponse{Feedback: fb, Created: created}
	if created && s.deps.Processor != nil {
		ctx, cancel := sinkContext(r.Context())
		defer cancel()
		resp.Warnings = processor.Warnings(s.deps.Processor.HandleGraded(ctx, sess.Snapshot()))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exportInterview(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	text, err := export.Text(sess.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// resetSession discards everything and binds the browser to a fresh session.
func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	old := SessionFromContext(r.Context())
	s.deps.Sessions.Discard(old.ID)

	fresh := s.deps.Sessions.Create()
	setSessionCookie(w, fresh.ID, s.deps.CookieSecure)
	writeJSON(w, http.StatusOK, s.view(fresh))
}

// sinkContext outlives a cancelled request so side sinks finish their write.
func sinkContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), sinkTimeout)
}
