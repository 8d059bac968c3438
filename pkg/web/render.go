package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Renderer writes handler results in the wire format of one API surface.
type Renderer interface {
	Render(gctx *gin.Context, status int, data any)
	Error(gctx *gin.Context, status int, err error)
	Abort(gctx *gin.Context, status int, err error)
}

// Plain renders bare JSON bodies and {"error": "..."} failures.
type Plain struct{}

// Render writes data as the response body.
func (Plain) Render(gctx *gin.Context, status int, data any) {
	gctx.JSON(status, data)
}

// Error writes err as the response body.
func (Plain) Error(gctx *gin.Context, status int, err error) {
	gctx.JSON(status, Error(err))
}

// Abort writes err and stops the handler chain.
func (Plain) Abort(gctx *gin.Context, status int, err error) {
	gctx.AbortWithStatusJSON(status, Error(err))
}

// OCSMeta is the meta block of an OCS response.
type OCSMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

// OCSBody holds the OCS meta and payload.
type OCSBody struct {
	Meta OCSMeta `json:"meta"`
	Data any     `json:"data"`
}

// OCSEnvelope is the top level OCS response document.
type OCSEnvelope struct {
	OCS OCSBody `json:"ocs"`
}

// OCS renders every body inside the OCS envelope used by machine clients.
type OCS struct{}

// NewOCSEnvelope wraps data for the given HTTP status.
func NewOCSEnvelope(status int, message string, data any) OCSEnvelope {
	meta := OCSMeta{
		Status:     "ok",
		StatusCode: status,
		Message:    message,
	}

	if status >= http.StatusBadRequest {
		meta.Status = "failure"
	}

	return OCSEnvelope{OCS: OCSBody{Meta: meta, Data: data}}
}

// Render writes data inside the envelope.
func (OCS) Render(gctx *gin.Context, status int, data any) {
	gctx.JSON(status, NewOCSEnvelope(status, http.StatusText(status), data))
}

// Error writes err inside the envelope.
func (OCS) Error(gctx *gin.Context, status int, err error) {
	gctx.JSON(status, NewOCSEnvelope(status, err.Error(), Error(err)))
}

// Abort writes err inside the envelope and stops the handler chain.
func (OCS) Abort(gctx *gin.Context, status int, err error) {
	gctx.AbortWithStatusJSON(status, NewOCSEnvelope(status, err.Error(), Error(err)))
}
