// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cortex/internal/client/display"
	"cortex/internal/core"
)

// Error is a non-2xx reply from the server
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Details)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 35 * time.Second, // Outlasts a server long-poll
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(baseURL string) {
	c.BaseURL = strings.TrimRight(baseURL, "/")
}

// doRequest sends body as JSON and decodes the reply into result. A 202 is
// a success; the caller inspects the game state to see the turn is pending.
func (c *Client) doRequest(method, path string, body, result any) error {
	var bodyReader io.Reader
	var jsonBody []byte
	if body != nil {
		var err error
		if jsonBody, err = json.Marshal(body); err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.Verbose {
		fmt.Fprintf(c.Out, "%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
		if len(jsonBody) > 0 {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, jsonBody, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.Verbose {
		statusColor := display.Green
		if resp.StatusCode >= 400 {
			statusColor = display.Red
		}
		fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
		if len(respBody) > 0 {
			display.PrettyPrintJSON(c.Out, json.RawMessage(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp core.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// HealthResponse mirrors the server's /health reply
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
	Games   int    `json:"games"`
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(game string, level int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", core.CreateGameRequest{Game: game, Level: level}, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks server-side until the move count changes or the
// poll times out
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", core.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) ResetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/reset", nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) Progress() (*core.ProgressResponse, error) {
	var resp core.ProgressResponse
	err := c.doRequest(http.MethodGet, "/api/v1/progress", nil, &resp)
	return &resp, err
}

// ResetProgress clears unlocked levels for game, or for every game when empty
func (c *Client) ResetProgress(game string) (*core.ProgressResponse, error) {
	path := "/api/v1/progress"
	if game != "" {
		path += "?game=" + url.QueryEscape(game)
	}
	var resp core.ProgressResponse
	err := c.doRequest(http.MethodDelete, path, nil, &resp)
	return &resp, err
}

func (c *Client) UpdateSettings(provider, apiKey string) error {
	return c.doRequest(http.MethodPut, "/api/v1/settings", core.SettingsRequest{Provider: provider, APIKey: apiKey}, nil)
}

func (c *Client) Chat(message string) (*core.ChatResponse, error) {
	var resp core.ChatResponse
	err := c.doRequest(http.MethodPost, "/api/v1/chat", core.ChatRequest{Message: message}, &resp)
	return &resp, err
}
