package oracle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const geminiOK = `{"candidates":[{"content":{"parts":[{"text":"e7e5"}]}}]}`

// recorder serves scripted responses per model and records the call order
type recorder struct {
	mu     sync.Mutex
	calls  []string
	script map[string]func(w http.ResponseWriter)
	bodies []string
	auth   []string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.calls = append(r.calls, req.URL.Path)
	r.bodies = append(r.bodies, string(body))
	r.auth = append(r.auth, req.Header.Get("Authorization"))
	r.mu.Unlock()

	for suffix, respond := range r.script {
		if strings.HasSuffix(req.URL.Path, suffix) {
			respond(w)
			return
		}
	}
	http.NotFound(w, req)
}

func status(code int, body string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func newGemini(t *testing.T, rec *recorder, models ...string) *Client {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	eps := make([]Endpoint, 0, len(models))
	for _, m := range models {
		eps = append(eps, Endpoint{Version: "v1beta", Model: m})
	}
	return New(Config{Provider: ProviderGemini, APIKey: "test-key", BaseURL: srv.URL, Endpoints: eps})
}

func TestFailoverOrder(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/A:generateContent": status(http.StatusNotFound, `{"error":{"message":"model A not found"}}`),
		"/B:generateContent": status(http.StatusNotFound, `{}`),
		"/C:generateContent": status(http.StatusOK, geminiOK),
	}}
	c := newGemini(t, rec, "A", "B", "C")

	got, err := c.Ask(context.Background(), "your move")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "e7e5" {
		t.Fatalf("Ask = %q, want e7e5", got)
	}
	want := []string{
		"/v1beta/models/A:generateContent",
		"/v1beta/models/B:generateContent",
		"/v1beta/models/C:generateContent",
	}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	if !strings.Contains(rec.bodies[0], `"contents":[{"parts":[{"text":"your move"}]}]`) {
		t.Fatalf("unexpected request body %s", rec.bodies[0])
	}
}

func TestRateLimitedAndUnavailableAdvance(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/A:generateContent": status(http.StatusTooManyRequests, `{"error":{"message":"quota"}}`),
		"/B:generateContent": status(http.StatusServiceUnavailable, ``),
		"/C:generateContent": status(http.StatusOK, geminiOK),
	}}
	c := newGemini(t, rec, "A", "B", "C")
	if _, err := c.Ask(context.Background(), "p"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(rec.calls) != 3 {
		t.Fatalf("calls = %v, want three attempts", rec.calls)
	}
}

func TestEmptyResponseStopsChain(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/A:generateContent": status(http.StatusOK, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`),
		"/B:generateContent": status(http.StatusOK, geminiOK),
	}}
	c := newGemini(t, rec, "A", "B")
	_, err := c.Ask(context.Background(), "p")

	var empty *EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
	if !strings.Contains(empty.Reason, "SAFETY") {
		t.Fatalf("reason = %q, want block reason", empty.Reason)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("chain continued after empty response: %v", rec.calls)
	}
}

func TestOtherStatusAborts(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/A:generateContent": status(http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`),
		"/B:generateContent": status(http.StatusOK, geminiOK),
	}}
	c := newGemini(t, rec, "A", "B")
	_, err := c.Ask(context.Background(), "p")

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Status != http.StatusBadRequest || unavailable.Detail != "API key not valid" {
		t.Fatalf("unexpected error fields: %+v", unavailable)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("chain continued after abort: %v", rec.calls)
	}
}

func TestAllNotFoundRunsDiagnostic(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/v1beta/models": status(http.StatusOK, `{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-ultra"}]}`),
	}}
	c := newGemini(t, rec, "A", "B")
	_, err := c.Ask(context.Background(), "p")

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(ex.Tried) != 2 || ex.Last != OutcomeNotFound {
		t.Fatalf("unexpected exhausted error: %+v", ex)
	}
	if strings.Join(ex.Available, ",") != "gemini-pro,gemini-ultra" {
		t.Fatalf("available = %v", ex.Available)
	}
	if !strings.Contains(err.Error(), "gemini-pro") {
		t.Fatalf("error text lacks diagnostic: %v", err)
	}
	if len(rec.calls) != 3 || rec.calls[2] != "/v1beta/models" {
		t.Fatalf("calls = %v, want two attempts then one listing", rec.calls)
	}
}

func TestDiagnosticFailureIsReported(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/v1beta/models": status(http.StatusBadRequest, `{"error":{"message":"API key expired"}}`),
	}}
	c := newGemini(t, rec, "A")
	_, err := c.Ask(context.Background(), "p")

	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.DiagnosticErr == nil {
		t.Fatalf("expected diagnostic error, got %v", err)
	}
	if !strings.Contains(err.Error(), "API key expired") {
		t.Fatalf("error text lacks diagnostic cause: %v", err)
	}
}

func TestNoDiagnosticWhenBusy(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/A:generateContent": status(http.StatusNotFound, `{}`),
		"/B:generateContent": status(http.StatusTooManyRequests, `{}`),
	}}
	c := newGemini(t, rec, "A", "B")
	_, err := c.Ask(context.Background(), "p")

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("unexpected diagnostic call: %v", rec.calls)
	}
}

func TestNotConfigured(t *testing.T) {
	c := New(Config{Provider: ProviderGemini})
	if _, err := c.Ask(context.Background(), "p"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTransportErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Config{APIKey: "k", BaseURL: base, Endpoints: []Endpoint{{"v1beta", "A"}, {"v1beta", "B"}}})
	_, err := c.Ask(context.Background(), "p")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) || unavailable.Err == nil {
		t.Fatalf("expected transport UnavailableError, got %v", err)
	}
	if unavailable.Endpoint.Model != "A" {
		t.Fatalf("aborted at %s, want first endpoint", unavailable.Endpoint)
	}
}

func TestOpenAIShape(t *testing.T) {
	rec := &recorder{script: map[string]func(http.ResponseWriter){
		"/v1/chat/completions": status(http.StatusOK, `{"choices":[{"message":{"content":"Nf6"}}]}`),
	}}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	c := New(Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: srv.URL})
	got, err := c.Ask(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Nf6" {
		t.Fatalf("Ask = %q, want Nf6", got)
	}
	if rec.auth[0] != "Bearer sk-test" {
		t.Fatalf("authorization = %q", rec.auth[0])
	}
	if !strings.Contains(rec.bodies[0], `"model":"gpt-3.5-turbo"`) {
		t.Fatalf("unexpected body %s", rec.bodies[0])
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		outcome Outcome
		text    string
	}{
		{"gemini ok", 200, geminiOK, OutcomeOK, "e7e5"},
		{"openai ok", 200, `{"choices":[{"message":{"content":"Nf6"}}]}`, OutcomeOK, "Nf6"},
		{"blank text", 200, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, OutcomeEmpty, ""},
		{"blocked", 200, `{"promptFeedback":{"blockReason":"SAFETY"}}`, OutcomeEmpty, ""},
		{"malformed", 200, `not json`, OutcomeEmpty, ""},
		{"not found", 404, ``, OutcomeNotFound, ""},
		{"rate limited", 429, `{}`, OutcomeRateLimited, ""},
		{"unavailable", 503, `{}`, OutcomeUnavailable, ""},
		{"forbidden", 403, `{"error":{"message":"denied"}}`, OutcomeFailed, ""},
		{"server error", 500, ``, OutcomeFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.status, []byte(tt.body))
			if c.Outcome != tt.outcome || c.Text != tt.text {
				t.Fatalf("Classify = %+v, want outcome %s text %q", c, tt.outcome, tt.text)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	p := Request{
		FEN:     "fen-here",
		History: []string{"e4", "e5"},
		Persona: "You are a test persona.",
		Side:    "BLACK",
	}.Prompt()
	for _, want := range []string{"You are a test persona.", "Current FEN: fen-here", "History: e4 e5", "You play as BLACK."} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt lacks %q:\n%s", want, p)
		}
	}
}

func TestParseProvider(t *testing.T) {
	if p, err := ParseProvider(" OpenAI "); err != nil || p != ProviderOpenAI {
		t.Fatalf("ParseProvider = %q, %v", p, err)
	}
	if p, err := ParseProvider(""); err != nil || p != ProviderGemini {
		t.Fatalf("empty provider = %q, %v", p, err)
	}
	if _, err := ParseProvider("llama"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
