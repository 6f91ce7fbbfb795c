package session

import (
	"strings"

	"github.com/samber/lo"

	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
)

// Speaker is the transcript label for a role.
func Speaker(r llm.Role) string {
	switch r {
	case llm.RoleUser:
		return "STUDENT"
	case llm.RoleAssistant:
		return "CUSTOMER"
	default:
		return strings.ToUpper(string(r))
	}
}

// FormatTranscript renders turns as "SPEAKER: text" lines, in order.
func FormatTranscript(turns []Turn) string {
	lines := lo.Map(turns, func(t Turn, _ int) string {
		return Speaker(t.Role) + ": " + t.Text
	})
	return strings.Join(lines, "\n")
}

// Messages converts turns into chat messages for a model request.
func Messages(turns []Turn) []llm.Message {
	return lo.Map(turns, func(t Turn, _ int) llm.Message {
		return llm.Message{Role: t.Role, Content: t.Text}
	})
}
