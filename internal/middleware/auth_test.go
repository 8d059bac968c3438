package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/randompkg"
	"github.com/go-petr/pet-budget/pkg/tokenpkg"
	"github.com/go-petr/pet-budget/pkg/web"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	testCases := []struct {
		name           string
		setupAuth      func(t *testing.T, r *http.Request) error
		wantStatusCode int
		wantError      string
		checkResponse  func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrAuthHeaderNotFound.Error(),
		},
		{
			name: "InvalidAuthorizationHeader",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, "", "user", time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrBadAuthHeaderFormat.Error(),
		},
		{
			name: "UnsupportedAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, "unsupported", "user", time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrUnsupportedAuthType.Error(),
		},
		{
			name: "ExpiredToken",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, AuthTypeBearer, "user", -time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrExpiredToken.Error(),
		},
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, AuthTypeBearer, "user", time.Minute)
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()

			authPath := "/auth"
			handler := func(ctx *gin.Context) {
				ctx.JSON(http.StatusOK, gin.H{})
			}
			server.GET(authPath, AuthMiddleware(tokenMaker), handler)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, authPath, nil)
			if err != nil {
				t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
			}

			if err = tc.setupAuth(t, request); err != nil {
				t.Fatalf("tc.setupAuth(t, %v) returned error: %v", request, err)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal",
					recorder.Code, tc.wantStatusCode)
			}

			got := web.Response{}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, tc.wantError = %v, want equal", got.Error, tc.wantError)
			}
		})
	}
}

func TestSessionAuthCookie(t *testing.T) {
	t.Parallel()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	const cookieName = "budget_session"

	valid, _, err := tokenMaker.CreateToken("alice", time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name           string
		setup          func(t *testing.T, r *http.Request)
		wantStatusCode int
		wantUID        string
	}{
		{
			name: "Cookie",
			setup: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: valid})
			},
			wantStatusCode: http.StatusOK,
			wantUID:        "alice",
		},
		{
			name: "CookieWinsOverHeader",
			setup: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: valid})
				require.NoError(t, AddAuthorization(r, tokenMaker, AuthTypeBearer, "bob", time.Minute))
			},
			wantStatusCode: http.StatusOK,
			wantUID:        "alice",
		},
		{
			name: "BearerFallback",
			setup: func(t *testing.T, r *http.Request) {
				require.NoError(t, AddAuthorization(r, tokenMaker, AuthTypeBearer, "bob", time.Minute))
			},
			wantStatusCode: http.StatusOK,
			wantUID:        "bob",
		},
		{
			name: "InvalidCookie",
			setup: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "garbage"})
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()
			server.GET("/me", SessionAuth(tokenMaker, cookieName), func(gctx *gin.Context) {
				c, err := Caller(gctx)
				require.NoError(t, err)
				gctx.JSON(http.StatusOK, gin.H{"uid": c.UID})
			})

			request, err := http.NewRequest(http.MethodGet, "/me", nil)
			require.NoError(t, err)
			tc.setup(t, request)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantUID != "" {
				var got struct {
					UID string `json:"uid"`
				}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, tc.wantUID, got.UID)
			}
		})
	}
}

type stubChecker map[string]string

func (s stubChecker) CheckPassword(_ context.Context, uid, password string) (domain.UserWithoutPassword, error) {
	want, ok := s[uid]
	if !ok {
		return domain.UserWithoutPassword{}, domain.ErrUserNotFound
	}

	if want != password {
		return domain.UserWithoutPassword{}, domain.ErrWrongPassword
	}

	return domain.UserWithoutPassword{UID: uid, DisplayName: strings.ToUpper(uid)}, nil
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	checker := stubChecker{"alice": "secret1"}

	testCases := []struct {
		name           string
		setup          func(r *http.Request)
		wantStatusCode int
		wantCaller     domain.Caller
	}{
		{
			name:           "NoCredentials",
			setup:          func(r *http.Request) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "UnknownUser",
			setup:          func(r *http.Request) { r.SetBasicAuth("mallory", "secret1") },
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "WrongPassword",
			setup:          func(r *http.Request) { r.SetBasicAuth("alice", "nope") },
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "OK",
			setup:          func(r *http.Request) { r.SetBasicAuth("alice", "secret1") },
			wantStatusCode: http.StatusOK,
			wantCaller:     domain.Caller{UID: "alice", DisplayName: "ALICE"},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()
			server.GET("/ocs", BasicAuth(checker, web.OCS{}), func(gctx *gin.Context) {
				c, err := Caller(gctx)
				require.NoError(t, err)
				web.OCS{}.Render(gctx, http.StatusOK, c)
			})

			request, err := http.NewRequest(http.MethodGet, "/ocs", nil)
			require.NoError(t, err)
			tc.setup(request)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			var got struct {
				OCS struct {
					Meta web.OCSMeta   `json:"meta"`
					Data domain.Caller `json:"data"`
				} `json:"ocs"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
			require.Equal(t, tc.wantStatusCode, got.OCS.Meta.StatusCode)

			if tc.wantStatusCode == http.StatusUnauthorized {
				require.Equal(t, BasicRealm, recorder.Header().Get("WWW-Authenticate"))
				require.Equal(t, "failure", got.OCS.Meta.Status)

				return
			}

			require.Equal(t, tc.wantCaller, got.OCS.Data)
		})
	}
}

func TestCallerMissing(t *testing.T) {
	t.Parallel()

	gctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := Caller(gctx)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
