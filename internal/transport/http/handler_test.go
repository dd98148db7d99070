package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"cortex/internal/core"
	"cortex/internal/processor"
	"cortex/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, err := service.New(service.Config{})
	if err != nil {
		t.Fatal(err)
	}
	proc := processor.New(svc, processor.Config{Workers: 1, TurnLimit: 5 * time.Second})
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return NewFiberApp(proc, svc, true)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/health", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	h := decode[map[string]any](t, body)
	if h["status"] != "healthy" || h["storage"] != "disabled" {
		t.Fatalf("health = %v", h)
	}
}

func TestGameLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/games", `{"game":"tictactoe"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}
	g := decode[core.GameResponse](t, body)
	base := "/api/v1/games/" + g.GameID

	status, body = do(t, app, http.MethodPost, base+"/moves", `{"move":"4"}`)
	if status != http.StatusAccepted {
		t.Fatalf("move: %d %s", status, body)
	}
	g = decode[core.GameResponse](t, body)
	if g.LastMove == nil || g.LastMove.Move != "4" {
		t.Fatalf("move response = %+v", g)
	}

	// Long-poll returns once the computer has replied
	status, body = do(t, app, http.MethodGet, base+"?wait=true&moveCount=1", "")
	if status != http.StatusOK {
		t.Fatalf("wait: %d %s", status, body)
	}
	g = decode[core.GameResponse](t, body)
	// Stay under the dev rate limit while polling
	for i := 0; i < 30 && len(g.Moves) < 2; i++ {
		time.Sleep(150 * time.Millisecond)
		_, body = do(t, app, http.MethodGet, base, "")
		g = decode[core.GameResponse](t, body)
	}
	if len(g.Moves) != 2 || g.State != "ongoing" {
		t.Fatalf("after computer move: %+v", g)
	}

	status, body = do(t, app, http.MethodGet, base+"/board", "")
	if status != http.StatusOK {
		t.Fatalf("board: %d %s", status, body)
	}
	if b := decode[core.BoardResponse](t, body); !strings.Contains(b.Board, "X") {
		t.Fatalf("board = %+v", b)
	}

	status, body = do(t, app, http.MethodPost, base+"/undo", `{"count":2}`)
	if status != http.StatusOK {
		t.Fatalf("undo: %d %s", status, body)
	}
	if g = decode[core.GameResponse](t, body); len(g.Moves) != 0 {
		t.Fatalf("after undo: %+v", g)
	}

	status, _ = do(t, app, http.MethodPost, base+"/reset", "")
	if status != http.StatusOK {
		t.Fatalf("reset: %d", status)
	}

	status, _ = do(t, app, http.MethodDelete, base, "")
	if status != http.StatusNoContent {
		t.Fatalf("delete: %d", status)
	}
	status, body = do(t, app, http.MethodGet, base, "")
	if status != http.StatusNotFound || decode[core.ErrorResponse](t, body).Code != core.ErrGameNotFound {
		t.Fatalf("get deleted: %d %s", status, body)
	}
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t)
	_, body := do(t, app, http.MethodPost, "/api/v1/games", `{"game":"chess"}`)
	g := decode[core.GameResponse](t, body)
	base := "/api/v1/games/" + g.GameID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown game", http.MethodPost, "/api/v1/games", `{"game":"go"}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"level out of range", http.MethodPost, "/api/v1/games", `{"game":"chess","level":9}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"malformed body", http.MethodPost, "/api/v1/games", `{"game":`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"bad game id", http.MethodGet, "/api/v1/games/not-a-uuid", "", http.StatusBadRequest, core.ErrInvalidRequest},
		{"missing move", http.MethodPost, base + "/moves", `{}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"illegal move", http.MethodPost, base + "/moves", `{"move":"Ke2"}`, http.StatusBadRequest, core.ErrInvalidMove},
		{"zero undo", http.MethodPost, base + "/undo", `{"count":0}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"bad provider", http.MethodPut, "/api/v1/settings", `{"provider":"acme"}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"empty chat", http.MethodPost, "/api/v1/chat", `{"message":""}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"chat without key", http.MethodPost, "/api/v1/chat", `{"message":"hello"}`, http.StatusBadRequest, core.ErrOracleNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", status, tt.status, body)
			}
			if got := decode[core.ErrorResponse](t, body).Code; got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   string
	}{
		{"required", http.MethodPost, "/api/v1/games", `{}`, "game is required"},
		{"oneof", http.MethodPut, "/api/v1/settings", `{"provider":"acme"}`, "provider must be one of [gemini openai]"},
		{"max length", http.MethodPut, "/api/v1/settings", `{"provider":"gemini","apiKey":"` + strings.Repeat("k", 300) + `"}`, "apiKey must be at most 256 characters"},
		{"max value", http.MethodPost, "/api/v1/games", `{"game":"chess","level":9}`, "level must be at most 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d (%s)", status, body)
			}
			if got := decode[core.ErrorResponse](t, body).Details; got != tt.want {
				t.Fatalf("details = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(`game=chess`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSettingsAndProgress(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPut, "/api/v1/settings", `{"provider":"openai","apiKey":"sk-test"}`)
	if status != http.StatusOK {
		t.Fatalf("settings: %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/v1/progress", "")
	if status != http.StatusOK {
		t.Fatalf("progress: %d", status)
	}
	p := decode[core.ProgressResponse](t, body)
	if p.Provider != "openai" || !p.HasAPIKey || p.Levels["tictactoe"] != 1 || p.ChessTier != 0 {
		t.Fatalf("progress = %+v", p)
	}

	status, body = do(t, app, http.MethodDelete, "/api/v1/progress?game=chess", "")
	if status != http.StatusOK || decode[core.ProgressResponse](t, body).ChessMatches != 0 {
		t.Fatalf("reset chess progress: %d %s", status, body)
	}
	status, _ = do(t, app, http.MethodDelete, "/api/v1/progress", "")
	if status != http.StatusOK {
		t.Fatalf("reset all progress: %d", status)
	}
	status, body = do(t, app, http.MethodDelete, "/api/v1/progress?game=go", "")
	if status != http.StatusBadRequest || decode[core.ErrorResponse](t, body).Code != core.ErrInvalidRequest {
		t.Fatalf("reset unknown game: %d %s", status, body)
	}
}
