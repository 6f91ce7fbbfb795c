package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster sends graded-interview summaries to the instructor channel.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostFeedback posts a summary of a graded interview and threads the full
// critique under it. Returns the summary message timestamp.
func (p *Poster) PostFeedback(ctx context.Context, snap session.Snapshot) (string, error) {
	text := formatFeedbackMessage(snap)

	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": fmt.Sprintf("Session `%s` via %s", snap.ID, snap.Provider),
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if snap.Feedback != nil && snap.Feedback.Critique != "" {
		if err := p.PostThread(ctx, ts, snap.Feedback.Critique); err != nil {
			return ts, fmt.Errorf("post critique thread: %w", err)
		}
	}

	p.logger.Info("posted feedback to slack", "ts", ts, "session_id", snap.ID)
	return ts, nil
}

// PostThread posts a threaded reply to a message.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	_, err := p.post(ctx, map[string]any{
		"channel":   p.channel,
		"thread_ts": threadTS,
		"text":      text,
	})
	return err
}

func (p *Poster) post(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

func formatFeedbackMessage(snap session.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Segment:* %s\n", snap.Setup.Segment)
	fmt.Fprintf(&sb, "*Problem:* %s\n", snap.Setup.Problem)
	fmt.Fprintf(&sb, "*Hypothesis:* %s\n", snap.Setup.Hypothesis)

	questions := 0
	for _, t := range snap.Transcript {
		if t.Role == llm.RoleUser {
			questions++
		}
	}
	fmt.Fprintf(&sb, "*Questions asked:* %d\n", questions)
	if snap.UsePersona {
		sb.WriteString("*Persona:* generated\n")
	}

	switch {
	case snap.Feedback == nil:
		sb.WriteString("_No coach feedback recorded._")
	case snap.Feedback.Score != nil:
		fmt.Fprintf(&sb, "*Score:* %g/10", *snap.Feedback.Score)
	default:
		sb.WriteString("_Coach gave no numeric score._")
	}

	return sb.String()
}
