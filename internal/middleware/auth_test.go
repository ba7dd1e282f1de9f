// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

type stubBlacklist map[string]bool

func (b stubBlacklist) IsAccessTokenBlacklisted(
	_ context.Context,
	jti string,
) (bool, error) {
	return b[jti], nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%d:%s:%s",
		GetUserID(r.Context()),
		GetUserRole(r.Context()),
		GetUserEmail(r.Context()),
	)
}

func TestAuthenticatorMissingToken(t *testing.T) {
	h := Authenticator(stubVerifier{})(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticatorSetsClaims(t *testing.T) {
	claims := &AccessTokenClaims{
		UserID: 42,
		Email:  "rh@acme.test",
		Role:   RoleRecruiter,
		JTI:    "jti-1",
	}
	h := Authenticator(stubVerifier{claims: claims})(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42:recruiter:rh@acme.test", rec.Body.String())
}

func TestAuthenticatorMapsTokenErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "expired", err: fmt.Errorf("verify: %w", core.ErrTokenExpired), code: "TOKEN_EXPIRED"},
		{name: "revoked", err: core.ErrTokenRevoked, code: "TOKEN_REVOKED"},
		{name: "other", err: errors.New("boom"), code: "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticator(stubVerifier{err: tt.err})(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer abc")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestAuthenticatorRejectsBlacklistedToken(t *testing.T) {
	claims := &AccessTokenClaims{UserID: 1, Role: RoleCandidate, JTI: "gone"}
	h := Authenticator(
		stubVerifier{claims: claims},
		WithBlacklist(stubBlacklist{"gone": true}),
	)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	h := OptionalAuth(stubVerifier{err: core.ErrTokenInvalid})(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0::", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	claims := &AccessTokenClaims{UserID: 7, Role: RoleCandidate}
	h := Authenticator(stubVerifier{claims: claims})(
		RequireRole(RoleRecruiter)(http.HandlerFunc(echoUser)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  xyz ", want: "xyz"},
		{header: "Basic abc", want: ""},
		{header: "Bearer", want: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, ExtractToken(req), tt.header)
	}
}

type stubVersions struct{ current int }

func (s stubVersions) ValidateTokenVersion(_ context.Context, _ int64, version int) error {
	if version < s.current {
		return core.ErrTokenRevoked
	}
	return nil
}

func TestAuthenticatorRejectsStaleTokenVersion(t *testing.T) {
	claims := &AccessTokenClaims{UserID: 3, Role: RoleCandidate, TokenVersion: 1}
	h := Authenticator(
		stubVerifier{claims: claims},
		WithTokenVersionCheck(stubVersions{current: 2}),
	)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}
