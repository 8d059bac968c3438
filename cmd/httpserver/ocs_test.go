//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-petr/pet-budget/cmd/httpserver"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/integrationtest"
	"github.com/go-petr/pet-budget/internal/integrationtest/helpers"
	"github.com/go-petr/pet-budget/pkg/web"
)

type ocsEnvelope[T any] struct {
	OCS struct {
		Meta web.OCSMeta `json:"meta"`
		Data T           `json:"data"`
	} `json:"ocs"`
}

func serveOCS(t *testing.T, server *httpserver.Server, method, path, uid, password, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, httpserver.OCSPrefix+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("http.NewRequest(%v, %v) returned error: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OCS-APIRequest", "true")

	if uid != "" {
		req.SetBasicAuth(uid, password)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestOCSBooksAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user, password := helpers.SeedUser(t, server.DB)

	recorder := serveOCS(t, server, http.MethodPost, "/books", user.UID, password, `{"name": "Flat"}`)
	wantStatus(t, recorder, http.StatusCreated)

	created := decode[ocsEnvelope[domain.BookWithRole]](t, recorder)
	if created.OCS.Meta.Status != "ok" || created.OCS.Meta.StatusCode != http.StatusCreated {
		t.Errorf("got meta %+v, want ok/%d", created.OCS.Meta, http.StatusCreated)
	}
	if created.OCS.Data.Role != domain.RoleOwner {
		t.Errorf("got role %q, want %q", created.OCS.Data.Role, domain.RoleOwner)
	}

	recorder = serveOCS(t, server, http.MethodGet, "/books", user.UID, password, "")
	wantStatus(t, recorder, http.StatusOK)

	listed := decode[ocsEnvelope[booksResponse]](t, recorder)
	if diff := cmp.Diff([]domain.BookWithRole{created.OCS.Data}, listed.OCS.Data.Books); diff != "" {
		t.Errorf("books mismatch (-want +got):\n%s", diff)
	}

	path := fmt.Sprintf("/books/%d/expenses", created.OCS.Data.ID)

	recorder = serveOCS(t, server, http.MethodPost, path, user.UID, password, `{"amount": 0, "date": "2025-01-01"}`)
	wantStatus(t, recorder, http.StatusBadRequest)

	failed := decode[ocsEnvelope[web.Response]](t, recorder)
	wantMeta := web.OCSMeta{Status: "failure", StatusCode: http.StatusBadRequest, Message: domain.ErrInvalidAmount.Error()}
	if diff := cmp.Diff(wantMeta, failed.OCS.Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestOCSAuthAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user, password := helpers.SeedUser(t, server.DB)

	testCases := []struct {
		name     string
		uid      string
		password string
	}{
		{name: "NoCredentials"},
		{name: "WrongPassword", uid: user.UID, password: password + "x"},
		{name: "UnknownUser", uid: user.UID + "x", password: password},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			recorder := serveOCS(t, server, http.MethodGet, "/books", tc.uid, tc.password, "")
			wantStatus(t, recorder, http.StatusUnauthorized)

			if recorder.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header is empty")
			}

			var got ocsEnvelope[json.RawMessage]
			if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
				t.Fatalf("json.Unmarshal returned error: %v", err)
			}
			if got.OCS.Meta.Status != "failure" {
				t.Errorf("got meta status %q, want failure", got.OCS.Meta.Status)
			}
		})
	}
}
