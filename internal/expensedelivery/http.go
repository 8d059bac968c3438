// Package expensedelivery manages delivery layer of expenses.
package expensedelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/middleware"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/go-petr/pet-budget/pkg/monthpkg"
	"github.com/go-petr/pet-budget/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by expense delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package expensedelivery
type Service interface {
	CheckAccess(ctx context.Context, uid string, bookID int64) error
	List(ctx context.Context, uid string, bookID int64, q domain.ExpenseQuery) ([]domain.Expense, error)
	Create(ctx context.Context, uid string, bookID int64, in domain.ExpenseInput) (domain.Expense, error)
	Update(ctx context.Context, uid string, bookID, id int64, in domain.ExpensePatchInput) error
	Delete(ctx context.Context, uid string, bookID, id int64) error
}

// Handler facilitates expense delivery layer logic for one API surface.
type Handler struct {
	service  Service
	renderer web.Renderer
}

// NewHandler returns expense handler writing responses with r.
func NewHandler(es Service, r web.Renderer) *Handler {
	return &Handler{
		service:  es,
		renderer: r,
	}
}

type bookURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type expenseURI struct {
	ID  int64 `uri:"id" binding:"required,min=1"`
	EID int64 `uri:"eid" binding:"required,min=1"`
}

type listQuery struct {
	From   string   `form:"from"`
	To     string   `form:"to"`
	Month  []string `form:"month"`
	Months string   `form:"months"`
}

type createRequest struct {
	Amount      *domain.Amount `json:"amount"`
	Date        string         `json:"date"`
	Description *string        `json:"description"`
	Currency    string         `json:"currency"`
}

type listResponse struct {
	Expenses []domain.Expense `json:"expenses"`
}

type createResponse struct {
	ID int64 `json:"id"`
}

func (h *Handler) fail(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrDateRequired),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrNothingToUpdate):
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

// rejectBody answers an unreadable request body. Callers outside the book get
// the access error, not the body error.
func (h *Handler) rejectBody(gctx *gin.Context, uid string, bookID int64, err error) {
	if aerr := h.service.CheckAccess(gctx.Request.Context(), uid, bookID); aerr != nil {
		h.fail(gctx, aerr)
		return
	}

	h.badRequest(gctx, err)
}

// List handles http request to list the expenses of a book.
//
// Accepted filters are from and to months, repeated month values and a comma separated months list.
func (h *Handler) List(gctx *gin.Context) {
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

	var q listQuery
	if err := gctx.ShouldBindQuery(&q); err != nil {
		h.badRequest(gctx, err)
		return
	}

	query := domain.ExpenseQuery{
		From:   q.From,
		To:     q.To,
		Months: monthpkg.Tokens(q.Month, q.Months),
	}

	expenses, err := h.service.List(gctx.Request.Context(), caller.UID, uri.ID, query)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	if expenses == nil {
		expenses = []domain.Expense{}
	}

	h.renderer.Render(gctx, http.StatusOK, listResponse{Expenses: expenses})
}

// Create handles http request to record an expense.
func (h *Handler) Create(gctx *gin.Context) {
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

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		h.rejectBody(gctx, caller.UID, uri.ID, err)
		return
	}

	in := domain.ExpenseInput{
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Currency:    req.Currency,
	}

	expense, err := h.service.Create(gctx.Request.Context(), caller.UID, uri.ID, in)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusCreated, createResponse{ID: expense.ID})
}

// Update handles http request to change some fields of an expense.
func (h *Handler) Update(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri expenseURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	var req domain.ExpensePatchInput
	if err := gctx.ShouldBindJSON(&req); err != nil {
		h.rejectBody(gctx, caller.UID, uri.ID, err)
		return
	}

	if err := h.service.Update(gctx.Request.Context(), caller.UID, uri.ID, uri.EID, req); err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, web.OK{OK: true})
}

// Delete handles http request to remove an expense.
func (h *Handler) Delete(gctx *gin.Context) {
	caller, err := middleware.Caller(gctx)
	if err != nil {
		h.fail(gctx, err)
		return
	}

	var uri expenseURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		h.badRequest(gctx, err)
		return
	}

	if err := h.service.Delete(gctx.Request.Context(), caller.UID, uri.ID, uri.EID); err != nil {
		h.fail(gctx, err)
		return
	}

	h.renderer.Render(gctx, http.StatusOK, web.OK{OK: true})
}
