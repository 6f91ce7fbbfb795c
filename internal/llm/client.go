package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Chatter sends an ordered list of messages and returns the single reply.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ChatterFunc adapts a plain function to Chatter.
type ChatterFunc func(ctx context.Context, messages []Message) (string, error)

func (f ChatterFunc) Chat(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Dialer builds a Chatter for a resolved endpoint.
type Dialer func(ep Endpoint) (Chatter, error)

// Client talks to any OpenAI-compatible chat-completions endpoint.
type Client struct {
	model    llms.Model
	endpoint Endpoint
}

// NewClient builds a client for ep. A nil httpClient gets the default timeout.
func NewClient(ep Endpoint, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(ep.APIKey) == "" {
		return nil, ErrMissingKey
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	opts := []openai.Option{
		openai.WithToken(ep.APIKey),
		openai.WithModel(ep.Model),
		openai.WithHTTPClient(httpClient),
	}
	if ep.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(strings.TrimSuffix(ep.BaseURL, "/")))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", ep.Provider.Label(), err)
	}
	return &Client{model: model, endpoint: ep}, nil
}

// NewDialer returns a Dialer whose clients share one HTTP client.
func NewDialer(timeout time.Duration) Dialer {
	httpClient := &http.Client{Timeout: timeout}
	return func(ep Endpoint) (Chatter, error) {
		return NewClient(ep, httpClient)
	}
}

// Chat sends the messages and returns the first choice's text.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithTemperature(c.endpoint.temperature()),
	)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.endpoint.Provider.Label(), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: empty response", c.endpoint.Provider.Label())
	}
	return resp.Choices[0].Content, nil
}

func messageType(r Role) schema.ChatMessageType {
	switch r {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func (ep Endpoint) temperature() float64 {
	if ep.Temperature <= 0 {
		return DefaultTemperature
	}
	return ep.Temperature
}
