// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/middleware"
)

func asUser(id int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authRouter(h *authHarness, authenticator func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	NewHandler(h.svc).RegisterRoutes(r, authenticator)
	return r
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.RemoteAddr = "198.51.100.4:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestLoginHandler(t *testing.T) {
	h := newAuthHarness(t)
	router := authRouter(h, asUser(0))

	rec := post(t, router, "/auth/login", `{"email":"cand@example.test","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.User.ID)
	assert.NotEmpty(t, body.Data.Tokens.RefreshToken)

	sessions, err := h.svc.GetActiveSessions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "198.51.100.4", sessions[0].IPAddress)
}

func TestLoginHandlerErrors(t *testing.T) {
	router := authRouter(newAuthHarness(t), asUser(0))

	rec := post(t, router, "/auth/login", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/auth/login", `{"email":"not-an-email","password":"correct-horse"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/auth/login", `{"email":"cand@example.test","password":"wrong-horse"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	router := authRouter(newAuthHarness(t), asUser(0))

	rec := post(t, router, "/auth/register",
		`{"email":"new@example.test","password":"long-enough","last_name":"Doe","first_name":"Jo"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = post(t, router, "/auth/register",
		`{"email":"new@example.test","password":"long-enough","last_name":"Doe","first_name":"Jo"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRefreshHandlerReuse(t *testing.T) {
	h := newAuthHarness(t)
	router := authRouter(h, asUser(0))

	resp, err := h.svc.Login(context.Background(), LoginRequest{
		Email:    "cand@example.test",
		Password: "correct-horse",
	}, phone)
	require.NoError(t, err)

	body := `{"refresh_token":"` + resp.Tokens.RefreshToken + `"}`
	require.Equal(t, http.StatusOK, post(t, router, "/auth/refresh", body).Code)

	rec := post(t, router, "/auth/refresh", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REUSE_DETECTED", errorCode(t, rec))
}

func TestMeRequiresUser(t *testing.T) {
	h := newAuthHarness(t)

	rec := httptest.NewRecorder()
	authRouter(h, asUser(0)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	authRouter(h, asUser(1)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cand@example.test"`)
}

func TestRevokeOtherUsersSession(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.svc.Login(context.Background(), LoginRequest{
		Email:    "cand@example.test",
		Password: "correct-horse",
	}, phone)
	require.NoError(t, err)

	sessions, err := h.svc.GetActiveSessions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/auth/sessions/"+sessions[0].ID, nil)
	authRouter(h, asUser(2)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/auth/sessions/missing", nil)
	authRouter(h, asUser(1)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
