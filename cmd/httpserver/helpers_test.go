//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-petr/pet-budget/cmd/httpserver"
	"github.com/go-petr/pet-budget/internal/middleware"
)

// request is a call against the session surface authenticated as uid.
// An empty uid sends the request anonymously.
type request struct {
	method string
	path   string
	uid    string
	body   any
}

func serve(t *testing.T, server *httpserver.Server, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		if err := json.NewEncoder(&body).Encode(r.body); err != nil {
			t.Fatalf("encoding request body returned error: %v", err)
		}
	}

	req, err := http.NewRequest(r.method, r.path, &body)
	if err != nil {
		t.Fatalf("http.NewRequest(%v, %v) returned error: %v", r.method, r.path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if r.uid != "" {
		err := middleware.AddAuthorization(req, server.TokenMaker, middleware.AuthTypeBearer, r.uid, time.Minute)
		if err != nil {
			t.Fatalf("middleware.AddAuthorization returned error: %v", err)
		}
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(recorder.Body.Bytes(), &v); err != nil {
		t.Fatalf("json.Unmarshal(%s) returned error: %v", recorder.Body.String(), err)
	}

	return v
}

func wantStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()

	if recorder.Code != want {
		t.Fatalf("got status %d, want %d, body: %s", recorder.Code, want, recorder.Body.String())
	}
}

func rawJSON(s string) json.RawMessage {
	return json.RawMessage(s)
}
