package llm

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTemperature matches the vendors' own default sampling.
const DefaultTemperature = 1.0

// ErrMissingKey is returned before any request is built when no API key is available.
var ErrMissingKey = errors.New("missing api key")

type Provider string

const (
	OpenAI Provider = "openai"
	Gemini Provider = "gemini"
)

// ParseProvider accepts the UI labels as well as the canonical values.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "":
		return OpenAI, nil
	case "gemini":
		return Gemini, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

func (p Provider) Label() string {
	switch p {
	case Gemini:
		return "Gemini"
	default:
		return "OpenAI"
	}
}

// Endpoint is everything needed to reach one chat-completions backend.
type Endpoint struct {
	Provider Provider
	BaseURL  string // empty means the vendor default
	Model    string
	APIKey   string

	// Temperature is sent on every request; zero means DefaultTemperature.
	Temperature float64
}

// Catalog maps a provider choice onto a concrete endpoint. The two variants
// differ only in base URL, model and where the key comes from.
type Catalog struct {
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTestKey string
	Temperature   float64
}

// Endpoint resolves the endpoint for p. When useTestKey is set and p is
// Gemini the shared classroom key replaces the directly entered one.
func (c Catalog) Endpoint(p Provider, apiKey string, useTestKey bool) (Endpoint, error) {
	var ep Endpoint
	switch p {
	case OpenAI:
		ep = Endpoint{Provider: OpenAI, BaseURL: c.OpenAIBaseURL, Model: c.OpenAIModel, APIKey: apiKey}
	case Gemini:
		ep = Endpoint{Provider: Gemini, BaseURL: c.GeminiBaseURL, Model: c.GeminiModel, APIKey: apiKey}
		if useTestKey {
			ep.APIKey = c.GeminiTestKey
		}
	default:
		return Endpoint{}, fmt.Errorf("unknown provider %q", p)
	}

	if strings.TrimSpace(ep.APIKey) == "" {
		return Endpoint{}, fmt.Errorf("%s: %w", p.Label(), ErrMissingKey)
	}
	ep.Temperature = c.Temperature
	return ep, nil
}
