// FILE: internal/oracle/client.go
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

type Config struct {
	Provider   Provider
	APIKey     string
	BaseURL    string        // Empty uses the provider default
	Endpoints  []Endpoint    // Empty uses DefaultEndpoints
	Timeout    time.Duration // Bounds one whole failover chain
	HTTPClient *http.Client
}

// Client asks a remote model for text, failing over across endpoints.
// It is immutable after New and safe for concurrent use.
type Client struct {
	provider  Provider
	apiKey    string
	baseURL   string
	endpoints []Endpoint
	timeout   time.Duration
	http      *http.Client
}

func New(cfg Config) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Provider)
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultEndpoints(cfg.Provider)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		provider:  cfg.Provider,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		endpoints: append([]Endpoint(nil), cfg.Endpoints...),
		timeout:   cfg.Timeout,
		http:      cfg.HTTPClient,
	}
}

func (c *Client) Provider() Provider {
	return c.provider
}

// Configured reports whether a credential is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Ask sends prompt to each endpoint in order and returns the first text reply
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allNotFound := true
	tried := make([]Endpoint, 0, len(c.endpoints))
	var last Outcome

	for _, ep := range c.endpoints {
		tried = append(tried, ep)
		cls, err := c.attempt(ctx, ep, prompt)
		if err != nil {
			log.Warn().Err(err).Str("endpoint", ep.String()).Msg("Oracle transport failure")
			return "", &UnavailableError{Endpoint: ep, Err: err}
		}
		last = cls.Outcome

		log.Debug().
			Str("provider", c.provider.String()).
			Str("endpoint", ep.String()).
			Int("status", cls.Status).
			Str("outcome", cls.Outcome.String()).
			Msg("Oracle attempt")

		switch {
		case cls.Outcome == OutcomeOK:
			return cls.Text, nil
		case cls.Outcome.Advance():
			if cls.Outcome != OutcomeNotFound {
				allNotFound = false
				log.Warn().Str("endpoint", ep.String()).Str("outcome", cls.Outcome.String()).Msg("Oracle endpoint busy, trying next")
			}
			continue
		case cls.Outcome == OutcomeEmpty:
			return "", &EmptyResponseError{Endpoint: ep, Reason: cls.Detail}
		default:
			return "", &UnavailableError{Endpoint: ep, Status: cls.Status, Detail: cls.Detail}
		}
	}

	ex := &ExhaustedError{Tried: tried, Last: last}
	if allNotFound && len(tried) > 0 {
		ex.Available, ex.DiagnosticErr = c.ListModels(ctx)
	}
	return "", ex
}

func (c *Client) attempt(ctx context.Context, ep Endpoint, prompt string) (Classification, error) {
	req, err := c.buildRequest(ctx, ep, prompt)
	if err != nil {
		return Classification{}, err
	}
	status, body, err := c.do(req)
	if err != nil {
		return Classification{}, err
	}
	return Classify(status, body), nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) buildRequest(ctx context.Context, ep Endpoint, prompt string) (*http.Request, error) {
	var target string
	var payload any

	switch c.provider {
	case ProviderOpenAI:
		target = fmt.Sprintf("%s/%s/chat/completions", c.baseURL, ep.Version)
		payload = chatRequest{
			Model:    ep.Model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}
	default:
		target = fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
			c.baseURL, ep.Version, ep.Model, url.QueryEscape(c.apiKey))
		payload = geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.provider == ProviderOpenAI {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

type modelList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ListModels asks the provider which models the key can use
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var target string
	if c.provider == ProviderOpenAI {
		target = c.baseURL + "/v1/models"
	} else {
		target = c.baseURL + "/v1beta/models?key=" + url.QueryEscape(c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if c.provider == ProviderOpenAI {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var ml modelList
	if err := json.Unmarshal(body, &ml); err != nil {
		return nil, fmt.Errorf("list models: status %d: malformed body", status)
	}
	if ml.Error != nil {
		return nil, fmt.Errorf("list models: %s", ml.Error.Message)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("list models: status %d", status)
	}

	names := make([]string, 0, len(ml.Models)+len(ml.Data))
	for _, m := range ml.Models {
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	for _, m := range ml.Data {
		names = append(names, m.ID)
	}
	return names, nil
}
