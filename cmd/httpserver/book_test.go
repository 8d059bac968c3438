//go:build integration

package httpserver_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/integrationtest"
	"github.com/go-petr/pet-budget/internal/integrationtest/helpers"
	"github.com/go-petr/pet-budget/pkg/web"
)

type booksResponse struct {
	Books []domain.BookWithRole `json:"books"`
}

type membersResponse struct {
	Members []domain.Member `json:"members"`
}

func TestCreateAndListBooksAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user, _ := helpers.SeedUser(t, server.DB)

	recorder := serve(t, server, request{
		method: http.MethodPost,
		path:   "/books",
		uid:    user.UID,
		body:   gin.H{"name": "  Holidays  "},
	})
	wantStatus(t, recorder, http.StatusCreated)

	created := decode[domain.BookWithRole](t, recorder)
	want := domain.BookWithRole{ID: created.ID, Name: "Holidays", OwnerUID: user.UID, Role: domain.RoleOwner}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Fatalf("created book mismatch (-want +got):\n%s", diff)
	}

	recorder = serve(t, server, request{method: http.MethodGet, path: "/books", uid: user.UID})
	wantStatus(t, recorder, http.StatusOK)

	got := decode[booksResponse](t, recorder)
	if diff := cmp.Diff([]domain.BookWithRole{want}, got.Books); diff != "" {
		t.Errorf("books mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateBookAPIValidation(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user, _ := helpers.SeedUser(t, server.DB)

	testCases := []struct {
		name      string
		body      gin.H
		wantError string
	}{
		{
			name:      "BlankName",
			body:      gin.H{"name": "   "},
			wantError: domain.ErrEmptyBookName.Error(),
		},
		{
			name:      "MissingName",
			body:      gin.H{},
			wantError: domain.ErrEmptyBookName.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			recorder := serve(t, server, request{method: http.MethodPost, path: "/books", uid: user.UID, body: tc.body})
			wantStatus(t, recorder, http.StatusBadRequest)

			got := decode[web.Response](t, recorder)
			if got.Error != tc.wantError {
				t.Errorf("got error %q, want %q", got.Error, tc.wantError)
			}
		})
	}
}

func TestListBooksAPIUnauthenticated(t *testing.T) {
	server := integrationtest.SetupServer(t)

	recorder := serve(t, server, request{method: http.MethodGet, path: "/books"})
	wantStatus(t, recorder, http.StatusUnauthorized)
}

func TestRenameBookAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	owner, _ := helpers.SeedUser(t, server.DB)
	member, _ := helpers.SeedUser(t, server.DB)
	book := helpers.SeedBook(t, server.DB, owner.UID)
	helpers.SeedMember(t, server.DB, book.ID, member.UID)

	path := fmt.Sprintf("/books/%d", book.ID)

	recorder := serve(t, server, request{method: http.MethodPatch, path: path, uid: member.UID, body: gin.H{"name": "Stolen"}})
	wantStatus(t, recorder, http.StatusForbidden)

	recorder = serve(t, server, request{method: http.MethodGet, path: "/books", uid: member.UID})
	wantStatus(t, recorder, http.StatusOK)

	books := decode[booksResponse](t, recorder).Books
	if len(books) != 1 || books[0].Name != book.Name {
		t.Fatalf("after forbidden rename got books %+v, want name %q", books, book.Name)
	}
	if books[0].Role != domain.RoleMember {
		t.Errorf("got role %q, want %q", books[0].Role, domain.RoleMember)
	}

	recorder = serve(t, server, request{method: http.MethodPost, path: path + "/rename", uid: owner.UID, body: gin.H{"name": "Renamed"}})
	wantStatus(t, recorder, http.StatusOK)

	type renameResponse struct {
		OK   bool   `json:"ok"`
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	want := renameResponse{OK: true, ID: book.ID, Name: "Renamed"}
	if diff := cmp.Diff(want, decode[renameResponse](t, recorder)); diff != "" {
		t.Errorf("rename response mismatch (-want +got):\n%s", diff)
	}
}

func TestInviteAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	owner, _ := helpers.SeedUser(t, server.DB)
	invitee, _ := helpers.SeedUser(t, server.DB)
	book := helpers.SeedBook(t, server.DB, owner.UID)

	path := fmt.Sprintf("/books/%d/invite", book.ID)

	for i := 0; i < 2; i++ {
		recorder := serve(t, server, request{method: http.MethodPost, path: path, uid: owner.UID, body: gin.H{"user": invitee.UID}})
		wantStatus(t, recorder, http.StatusOK)
	}

	if n := helpers.CountRows(t, server.DB, "book_members", book.ID); n != 2 {
		t.Errorf("got %d membership rows, want 2", n)
	}

	recorder := serve(t, server, request{method: http.MethodGet, path: fmt.Sprintf("/books/%d/members", book.ID), uid: invitee.UID})
	wantStatus(t, recorder, http.StatusOK)

	members := decode[membersResponse](t, recorder).Members
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}

	roles := map[string]domain.Role{}
	for _, m := range members {
		roles[m.UserUID] = m.Role
	}

	wantRoles := map[string]domain.Role{owner.UID: domain.RoleOwner, invitee.UID: domain.RoleMember}
	if diff := cmp.Diff(wantRoles, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveMemberAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	owner, _ := helpers.SeedUser(t, server.DB)
	member, _ := helpers.SeedUser(t, server.DB)
	other, _ := helpers.SeedUser(t, server.DB)
	book := helpers.SeedBook(t, server.DB, owner.UID)
	helpers.SeedMember(t, server.DB, book.ID, member.UID)
	helpers.SeedMember(t, server.DB, book.ID, other.UID)

	memberPath := func(uid string) string {
		return fmt.Sprintf("/books/%d/members/%s", book.ID, uid)
	}

	testCases := []struct {
		name           string
		caller         string
		target         string
		wantStatusCode int
		wantRows       int
	}{
		{
			name:           "MemberRemovesOwner",
			caller:         member.UID,
			target:         owner.UID,
			wantStatusCode: http.StatusBadRequest,
			wantRows:       3,
		},
		{
			name:           "OwnerRemovesOwner",
			caller:         owner.UID,
			target:         owner.UID,
			wantStatusCode: http.StatusBadRequest,
			wantRows:       3,
		},
		{
			name:           "MemberRemovesMember",
			caller:         member.UID,
			target:         other.UID,
			wantStatusCode: http.StatusForbidden,
			wantRows:       3,
		},
		{
			name:           "OwnerRemovesMember",
			caller:         owner.UID,
			target:         other.UID,
			wantStatusCode: http.StatusOK,
			wantRows:       2,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			recorder := serve(t, server, request{method: http.MethodDelete, path: memberPath(tc.target), uid: tc.caller})
			wantStatus(t, recorder, tc.wantStatusCode)

			if n := helpers.CountRows(t, server.DB, "book_members", book.ID); n != tc.wantRows {
				t.Errorf("got %d membership rows, want %d", n, tc.wantRows)
			}
		})
	}
}

func TestDeleteBookAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	owner, _ := helpers.SeedUser(t, server.DB)
	member, _ := helpers.SeedUser(t, server.DB)
	book := helpers.SeedBook(t, server.DB, owner.UID)
	helpers.SeedMember(t, server.DB, book.ID, member.UID)

	day := helpers.Day(2025, 1, 15)
	helpers.SeedExpense(t, server.DB, book.ID, owner.UID, 1000, day)
	helpers.SeedExpense(t, server.DB, book.ID, member.UID, 250, day)

	path := fmt.Sprintf("/books/%d", book.ID)

	recorder := serve(t, server, request{method: http.MethodDelete, path: path, uid: member.UID})
	wantStatus(t, recorder, http.StatusForbidden)

	if n := helpers.CountRows(t, server.DB, "expenses", book.ID); n != 2 {
		t.Fatalf("got %d expense rows after rejected delete, want 2", n)
	}

	recorder = serve(t, server, request{method: http.MethodDelete, path: path, uid: owner.UID})
	wantStatus(t, recorder, http.StatusOK)

	for _, table := range []string{"expenses", "book_members"} {
		if n := helpers.CountRows(t, server.DB, table, book.ID); n != 0 {
			t.Errorf("got %d %v rows after delete, want 0", n, table)
		}
	}

	recorder = serve(t, server, request{method: http.MethodGet, path: "/books", uid: member.UID})
	wantStatus(t, recorder, http.StatusOK)

	if books := decode[booksResponse](t, recorder).Books; len(books) != 0 {
		t.Errorf("got books %+v after delete, want none", books)
	}
}
