// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

type memSessions struct {
	mu   sync.Mutex
	rows map[string]*Session
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[string]*Session{}}
}

func (m *memSessions) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now()
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSessions) FindByHash(_ context.Context, hash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.TokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (m *memSessions) FindByID(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrSessionNotFound
}

func (m *memSessions) Rotate(_ context.Context, id, successorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.IsUsed {
		return ErrSessionNotFound
	}
	s.IsUsed = true
	s.ReplacedByID = &successorID
	return nil
}

func (m *memSessions) revokeWhere(match func(*Session) bool) int64 {
	now := time.Now()
	var n int64
	for _, s := range m.rows {
		if s.RevokedAt == nil && match(s) {
			s.RevokedAt = &now
			n++
		}
	}
	return n
}

func (m *memSessions) RevokeSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revokeWhere(func(s *Session) bool { return s.ID == id }) == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (m *memSessions) RevokeFamily(_ context.Context, familyID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeWhere(func(s *Session) bool { return s.FamilyID == familyID }), nil
}

func (m *memSessions) RevokeUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeWhere(func(s *Session) bool { return s.UserID == userID }), nil
}

func (m *memSessions) ListActive(_ context.Context, userID int64, now time.Time) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.rows {
		if s.UserID == userID && s.State(now) == SessionActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if s.ExpiresAt.Before(before) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	byID map[int64]*UserInfo
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, email, hash, last, first string) (*UserInfo, error) {
	if _, err := m.GetByEmail(context.Background(), email); err == nil {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           int64(len(m.byID) + 1),
		Email:        email,
		PasswordHash: hash,
		LastName:     last,
		FirstName:    first,
		Role:         "candidate",
	}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, id int64) error {
	m.byID[id].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.byID[id].PasswordHash = hash
	return nil
}

type memRevocations map[string]time.Duration

func (m memRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m[jti] = ttl
	return nil
}

func (m memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m[jti]
	return ok, nil
}

type staticDirectory struct {
	summary *RecruiterSummary
	err     error
}

func (d staticDirectory) Summary(context.Context, int64) (*RecruiterSummary, error) {
	return d.summary, d.err
}

type authHarness struct {
	svc         *Service
	sessions    *memSessions
	users       *memUsers
	revocations memRevocations
}

func newAuthHarness(t *testing.T, opts ...Option) *authHarness {
	t.Helper()

	hash, err := core.HashPassword("correct-horse")
	require.NoError(t, err)

	h := &authHarness{
		sessions: newMemSessions(),
		users: &memUsers{byID: map[int64]*UserInfo{
			1: {ID: 1, Email: "cand@example.test", PasswordHash: hash, Role: "candidate"},
			2: {ID: 2, Email: "rh@acme.test", PasswordHash: hash, Role: "recruiter"},
		}},
		revocations: memRevocations{},
	}

	opts = append([]Option{WithRevocationStore(h.revocations)}, opts...)
	h.svc = NewService(h.sessions, newTestManager(t, 15*time.Minute), h.users, nil, opts...)
	return h
}

var phone = Client{UserAgent: "test-agent", IPAddress: "203.0.113.7"}

func TestLoginOpensSession(t *testing.T) {
	h := newAuthHarness(t)

	resp, err := h.svc.Login(context.Background(), LoginRequest{
		Email:    "CAND@example.test",
		Password: "correct-horse",
	}, phone)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.Nil(t, resp.Recruiter)

	sess, err := h.sessions.FindByHash(context.Background(), core.HashToken(resp.Tokens.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", sess.IPAddress)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "cand@example.test", Password: "wrong-pass"}, phone)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.svc.Login(context.Background(), LoginRequest{Email: "ghost@example.test", Password: "whatever1"}, phone)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAttachesRecruiterSummary(t *testing.T) {
	h := newAuthHarness(t, WithRecruiterDirectory(staticDirectory{
		summary: &RecruiterSummary{ID: 9, CompanyName: "Acme", HasActiveSubscription: true},
	}))

	resp, err := h.svc.Login(context.Background(), LoginRequest{Email: "rh@acme.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)
	require.NotNil(t, resp.Recruiter)
	assert.Equal(t, int64(9), resp.Recruiter.ID)
	assert.True(t, resp.Recruiter.HasActiveSubscription)
}

func TestLoginSurvivesDirectoryFailure(t *testing.T) {
	h := newAuthHarness(t, WithRecruiterDirectory(staticDirectory{err: errors.New("ledger down")}))

	resp, err := h.svc.Login(context.Background(), LoginRequest{Email: "rh@acme.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)
	assert.Nil(t, resp.Recruiter)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.svc.Register(context.Background(), RegisterRequest{
		Email:     "cand@example.test",
		Password:  "another-pass",
		LastName:  "Doe",
		FirstName: "Jane",
	}, phone)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRefreshRotatesWithinFamily(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	first, err := h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)

	second, err := h.svc.Refresh(ctx, first.Tokens.RefreshToken, phone)
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	old, err := h.sessions.FindByHash(ctx, core.HashToken(first.Tokens.RefreshToken))
	require.NoError(t, err)
	fresh, err := h.sessions.FindByHash(ctx, core.HashToken(second.Tokens.RefreshToken))
	require.NoError(t, err)

	assert.True(t, old.IsUsed)
	require.NotNil(t, old.ReplacedByID)
	assert.Equal(t, fresh.ID, *old.ReplacedByID)
	assert.Equal(t, old.FamilyID, fresh.FamilyID)
}

func TestRefreshReplayRevokesFamily(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	first, err := h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)
	second, err := h.svc.Refresh(ctx, first.Tokens.RefreshToken, phone)
	require.NoError(t, err)

	_, err = h.svc.Refresh(ctx, first.Tokens.RefreshToken, phone)
	assert.ErrorIs(t, err, ErrTokenReuse)

	_, err = h.svc.Refresh(ctx, second.Tokens.RefreshToken, phone)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRefreshUnknownAndExpired(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	_, err := h.svc.Refresh(ctx, "never-issued", phone)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	resp, err := h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)

	h.svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = h.svc.Refresh(ctx, resp.Tokens.RefreshToken, phone)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)

	require.NoError(t, h.svc.LogoutAll(ctx, 1))
	assert.Equal(t, 1, h.users.byID[1].TokenVersion)
	assert.ErrorIs(t, h.svc.ValidateTokenVersion(ctx, 1, 0), core.ErrTokenRevoked)

	_, err = h.svc.Refresh(ctx, resp.Tokens.RefreshToken, phone)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutOtherUsersToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "correct-horse"}, phone)
	require.NoError(t, err)

	assert.ErrorIs(t, h.svc.Logout(ctx, resp.Tokens.RefreshToken, 2), core.ErrForbidden)
	assert.NoError(t, h.svc.Logout(ctx, "unknown", 1))
	assert.NoError(t, h.svc.Logout(ctx, resp.Tokens.RefreshToken, 1))

	sessions, err := h.svc.GetActiveSessions(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRevokeAccessToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.RevokeAccessToken(ctx, "jti-live", time.Now().Add(time.Minute)))
	require.NoError(t, h.svc.RevokeAccessToken(ctx, "jti-dead", time.Now().Add(-time.Minute)))

	revoked, err := h.svc.IsAccessTokenBlacklisted(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = h.svc.IsAccessTokenBlacklisted(ctx, "jti-dead")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestChangePassword(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	err := h.svc.ChangePassword(ctx, 1, ChangePasswordRequest{CurrentPassword: "nope-nope", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, h.svc.ChangePassword(ctx, 1, ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "brand-new-pass",
	}))
	assert.Equal(t, 1, h.users.byID[1].TokenVersion)

	_, err = h.svc.Login(ctx, LoginRequest{Email: "cand@example.test", Password: "brand-new-pass"}, phone)
	assert.NoError(t, err)
}

func TestSessionState(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	revokedAt := now.Add(-time.Hour)

	cases := []struct {
		name string
		sess Session
		want SessionState
	}{
		{"active", Session{ExpiresAt: now.Add(time.Hour)}, SessionActive},
		{"expired", Session{ExpiresAt: now}, SessionExpired},
		{"revoked", Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}, SessionRevoked},
		{"rotated wins", Session{ExpiresAt: now.Add(-time.Hour), IsUsed: true, RevokedAt: &revokedAt}, SessionRotated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sess.State(now))
		})
	}
}
