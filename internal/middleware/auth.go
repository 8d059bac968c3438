// Package middleware provides gin middlewares shared by both API surfaces.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/tokenpkg"
	"github.com/go-petr/pet-budget/pkg/web"
	"github.com/rs/zerolog"
)

// Authorization header and gin context keys.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
	CallerKey      = "caller"
)

// BasicRealm is announced to machine clients that omit credentials.
const BasicRealm = `Basic realm="budget"`

var (
	// ErrAuthHeaderNotFound indicates that neither a session cookie nor an authorization header was sent.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates a malformed authorization header.
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization scheme other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// PasswordChecker verifies machine surface credentials.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, uid, password string) (domain.UserWithoutPassword, error)
}

// AddAuthorization sets a bearer style authorization header holding a fresh token for uid.
func AddAuthorization(r *http.Request, tokenMaker tokenpkg.Maker, authType, uid string, duration time.Duration) error {
	token, _, err := tokenMaker.CreateToken(uid, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// AuthMiddleware authenticates requests by a bearer token.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return SessionAuth(tokenMaker, "")
}

// SessionAuth authenticates requests by the session cookie, falling back to a bearer token.
//
// An empty cookieName disables the cookie lookup.
func SessionAuth(tokenMaker tokenpkg.Maker, cookieName string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		l := zerolog.Ctx(gctx.Request.Context())

		token, err := sessionToken(gctx, cookieName)
		if err != nil {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		payload, err := tokenMaker.VerifyToken(token)
		if err != nil {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		gctx.Set(AuthPayloadKey, payload)
		setCaller(gctx, domain.Caller{UID: payload.UID})
		gctx.Next()
	}
}

func sessionToken(gctx *gin.Context, cookieName string) (string, error) {
	if cookieName != "" {
		if c, err := gctx.Cookie(cookieName); err == nil && c != "" {
			return c, nil
		}
	}

	header := gctx.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", ErrAuthHeaderNotFound
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", ErrBadAuthHeaderFormat
	}

	if strings.ToLower(fields[0]) != AuthTypeBearer {
		return "", ErrUnsupportedAuthType
	}

	return fields[1], nil
}

// BasicAuth authenticates machine surface requests by HTTP basic credentials.
func BasicAuth(pc PasswordChecker, r web.Renderer) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)

		uid, password, ok := gctx.Request.BasicAuth()
		if !ok || uid == "" {
			gctx.Header("WWW-Authenticate", BasicRealm)
			r.Abort(gctx, http.StatusUnauthorized, domain.ErrUnauthenticated)

			return
		}

		user, err := pc.CheckPassword(ctx, uid, password)
		if err != nil {
			l.Info().Err(err).Str("uid", uid).Msg("basic auth rejected")
			gctx.Header("WWW-Authenticate", BasicRealm)
			r.Abort(gctx, http.StatusUnauthorized, domain.ErrUnauthenticated)

			return
		}

		setCaller(gctx, domain.Caller{UID: user.UID, DisplayName: user.DisplayName})
		gctx.Next()
	}
}

func setCaller(gctx *gin.Context, c domain.Caller) {
	gctx.Set(CallerKey, c)

	ctx := gctx.Request.Context()
	logger := zerolog.Ctx(ctx).With().Str("uid", c.UID).Logger()
	gctx.Request = gctx.Request.WithContext(logger.WithContext(ctx))
}

// Caller returns the authenticated caller of the request.
func Caller(gctx *gin.Context) (domain.Caller, error) {
	v, ok := gctx.Get(CallerKey)
	if !ok {
		return domain.Caller{}, domain.ErrUnauthenticated
	}

	c, ok := v.(domain.Caller)
	if !ok || c.UID == "" {
		return domain.Caller{}, domain.ErrUnauthenticated
	}

	return c, nil
}
