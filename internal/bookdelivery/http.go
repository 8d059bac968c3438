// Package bookdelivery manages delivery layer of books and their members.
package bookdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/middleware"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/go-petr/pet-budget/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by book delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package bookdelivery
type Service interface {
	List(ctx context.Context, uid string) ([]domain.BookWithRole, error)
	Create(ctx context.Context, uid, name string) (domain.Book, error)
	Rename(ctx context.Context, uid string, bookID int64, name string) (domain.Book, error)
	Delete(ctx context.Context, uid string, bookID int64) error
	Members(ctx context.Context, uid string, bookID int64) ([]domain.Member, error)
	Invite(ctx context.Context, uid string, bookID int64, invitee string) error
	RemoveMember(ctx context.Context, uid string, bookID int64, target string) error
}

// Handler facilitates book delivery layer logic for one API surface.
type Handler struct {
	service  Service
	renderer web.Renderer
}

// NewHandler returns book handler writing responses with r.
func NewHandler(bs Service, r web.Renderer) *Handler {
	return &Handler{
		service:  bs,
		renderer: r,
	}
}

type bookURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type memberURI struct {
	ID  int64  `uri:"id" binding:"required,min=1"`
	UID string `uri:"uid" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	User string `json:"user"`
}

type listResponse struct {
	Books []domain.BookWithRole `json:"books"`
}

type renameResponse struct {
	OK   bool   `json:"ok"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type membersResponse struct {
	Members []domain.Member `json:"members"`
}

func (h *Handler) fail(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	switch {
	case errors.Is(err, domain.ErrEmptyBookName),
		errors.Is(err, domain.ErrBookNameTooLong),
		errors.Is(err, domain.ErrEmptyInvitee),
		errors.Is(err, domain.ErrCannotRemoveOwner):
		l.Info().Err(err).Send()
		h.renderer.Error(gctx, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrForbidden):
		l.Warn().Err(err).Send()
		h.renderer.Error(gctx, http.StatusForbidden, err)
	case errors.Is(err, domain.ErrBookNotFound):
		l.Info().Err(err).Send()
		h.renderer.Error(gctx, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		h.renderer.Error(gctx, http.StatusUnauthorized, err)
	default:
		l.Error().Err(err).Send()
		h.renderer.Error(gctx, http.StatusInternalServerError, errorspkg.ErrInternal)
	}
}

func (h *Handler) badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	h.renderer.Error(gctx, http.StatusBadRequest, errors.New(web.BindingErrorMsg(err)))
}

// List handles http request to list the books of the caller.
func (h *Handler) List(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	books, err := h.service.List(gctx.Request.Context(), caller.UID)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	if books == nil {
		books = []domain.BookWithRole{}
	}

	h.renderer.Render(gctx, http.StatusOK, listResponse{Books: books})
}

// Create handles http request to create a book owned by the caller.
func (h *Handler) Create(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var req nameRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(gctx, err)
		return
	}

	book, err := h.service.Create(gctx.Request.Context(), caller.UID, req.Name)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	res := domain.BookWithRole{
		ID:       book.ID,
		Name:     book.Name,
		OwnerUID: book.OwnerUID,
		Role:     domain.RoleOwner,
	}

	h.renderer.Render(gctx, http.StatusCreated, res)
}

// Rename handles http request to rename a book. It serves PATCH, PUT and the rename alias.
func (h *Handler) Rename(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri bookURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	var req nameRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(gctx, err)
		return
	}

	book, err := h.service.Rename(gctx.Request.Context(), caller.UID, uri.ID, req.Name)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, renameResponse{OK: true, ID: book.ID, Name: book.Name})
}

// Delete handles http request to delete a book with its members and expenses.
func (h *Handler) Delete(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri bookURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	if err := h.service.Delete(gctx.Request.Context(), caller.UID, uri.ID); err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, web.OK{OK: true})
}

// Members handles http request to list the members of a book.
func (h *Handler) Members(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri bookURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	members, err := h.service.Members(gctx.Request.Context(), caller.UID, uri.ID)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, membersResponse{Members: members})
}

// Invite handles http request to add a member to a book.
func (h *Handler) Invite(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri bookURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	var req inviteRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(gctx, err)
		return
	}

	if err := h.service.Invite(gctx.Request.Context(), caller.UID, uri.ID, req.User); err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, web.OK{OK: true})
}

// RemoveMember handles http request to remove a member from a book.
func (h *Handler) RemoveMember(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri memberURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	if err := h.service.RemoveMember(gctx.Request.Context(), caller.UID, uri.ID, uri.UID); err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, web.OK{OK: true})
}
