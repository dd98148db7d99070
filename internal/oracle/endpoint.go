// FILE: internal/oracle/endpoint.go
package oracle

import (
	"fmt"
	"strings"
)

// Provider selects the wire format and authentication scheme
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultOpenAIBaseURL = "https://api.openai.com"
)

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderOpenAI:
		return p, nil
	case "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown oracle provider %q", s)
	}
}

func (p Provider) String() string {
	return string(p)
}

// Endpoint is one model candidate in the failover order
type Endpoint struct {
	Version string
	Model   string
}

func (e Endpoint) String() string {
	return e.Version + "/" + e.Model
}

// DefaultEndpoints returns the failover order for a provider, newest model first
func DefaultEndpoints(p Provider) []Endpoint {
	if p == ProviderOpenAI {
		return []Endpoint{{Version: "v1", Model: "gpt-3.5-turbo"}}
	}
	return []Endpoint{
		{Version: "v1beta", Model: "gemini-2.5-flash"},
		{Version: "v1beta", Model: "gemini-2.0-flash"},
		{Version: "v1beta", Model: "gemini-2.0-flash-exp"},
		{Version: "v1beta", Model: "gemini-1.5-flash"},
		{Version: "v1beta", Model: "gemini-1.5-pro"},
	}
}

func defaultBaseURL(p Provider) string {
	if p == ProviderOpenAI {
		return DefaultOpenAIBaseURL
	}
	return DefaultGeminiBaseURL
}
