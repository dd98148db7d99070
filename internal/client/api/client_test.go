package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestErrorReplyIsDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"computer move in progress","code":"TURN_PENDING"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).MakeMove("g", "4")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "TURN_PENDING" {
		t.Fatalf("error = %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "TURN_PENDING") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestAcceptedMoveAndRequestShape(t *testing.T) {
	var gotType, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.RequestURI()
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		gotBody = buf.String()
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"gameId":"g","state":"pending","moves":["e4"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	resp, err := c.MakeMove("g", "e4")
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != "pending" || len(resp.Moves) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if gotType != "application/json" || gotBody != `{"move":"e4"}` || gotPath != "/api/v1/games/g/moves" {
		t.Fatalf("request = %s %s %s", gotPath, gotType, gotBody)
	}

	if _, err := c.GetGameWithPoll("g", 3); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/v1/games/g?wait=true&moveCount=3" || gotType != "" {
		t.Fatalf("poll request = %s %q", gotPath, gotType)
	}
}

func TestVerboseOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","storage":"ok"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	c := New(srv.URL)
	c.Out = &out
	c.SetVerbose(true)
	if _, err := c.Health(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "GET /health") || !strings.Contains(out.String(), `"status": "healthy"`) {
		t.Fatalf("verbose output:\n%s", out.String())
	}
}
