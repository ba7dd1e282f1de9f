// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/middleware"
)

// Expired sessions are kept this long so a late replay still reads as
// expired rather than unknown.
const sessionRetention = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           int64
	Email        string
	LastName     string
	FirstName    string
	PasswordHash string
	Role         string
	TokenVersion int
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, lastName, firstName string,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// RecruiterDirectory resolves the recruiter profile behind a user. It
// returns nil without error when the user has none yet.
type RecruiterDirectory interface {
	Summary(ctx context.Context, userID int64) (*RecruiterSummary, error)
}

type Option func(*Service)

func WithRecruiterDirectory(d RecruiterDirectory) Option {
	return func(s *Service) { s.recruiters = d }
}

func WithRevocationStore(r RevocationStore) Option {
	return func(s *Service) { s.revocations = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l.With("component", "auth") }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	repo        Repository
	jwt         *JWTManager
	users       UserProvider
	revocations RevocationStore
	recruiters  RecruiterDirectory
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	redisClient *redis.Client,
	opts ...Option,
) *Service {
	s := &Service{
		repo:   repo,
		jwt:    jwt,
		users:  users,
		logger: slog.Default().With("component", "auth"),
		now:    time.Now,
	}
	if redisClient != nil {
		s.revocations = NewRedisRevocations(redisClient)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Login(ctx context.Context, req LoginRequest, client Client) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // burn the same time as a real check
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, upgraded, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if upgraded != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, upgraded); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.openSession(ctx, user, client, nil)
}

// Register signs up a candidate.
func (s *Service) Register(ctx context.Context, req RegisterRequest, client Client) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.LastName, req.FirstName)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(ctx, user, client, nil)
}

// Refresh trades a refresh token for a new pair. Presenting a token that
// was already rotated revokes its whole family.
func (s *Service) Refresh(ctx context.Context, refreshToken string, client Client) (*AuthResponse, error) {
	sess, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}

	switch sess.State(s.now()) {
	case SessionRotated:
		revoked, revokeErr := s.repo.RevokeFamily(ctx, sess.FamilyID)
		s.logger.Warn("refresh token replayed",
			"user_id", sess.UserID,
			"family_id", sess.FamilyID,
			"revoked", revoked,
			"revoke_error", revokeErr,
		)
		return nil, ErrTokenReuse
	case SessionRevoked:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case SessionExpired:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.openSession(ctx, user, client, sess)
}

// Logout revokes the caller's refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string, userID int64) error {
	sess, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if sess.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeSession(ctx, sess.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	return nil
}

// LogoutAll revokes every session and bumps the token version so access
// tokens already handed out stop verifying.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if _, err := s.repo.RevokeUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

func (s *Service) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 || s.revocations == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, jti, ttl)
}

func (s *Service) IsAccessTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.revocations == nil {
		return false, nil
	}
	return s.revocations.IsRevoked(ctx, jti)
}

func (s *Service) GetActiveSessions(ctx context.Context, userID int64) ([]SessionInfo, error) {
	sessions, err := s.repo.ListActive(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	out := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
		})
	}

	return out, nil
}

func (s *Service) RevokeSession(ctx context.Context, userID int64, sessionID string) error {
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if sess.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	return s.repo.RevokeSession(ctx, sessionID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrInvalidCredentials
	}

	hash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return s.LogoutAll(ctx, userID)
}

func (s *Service) ValidateTokenVersion(ctx context.Context, userID int64, tokenVersion int) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if tokenVersion < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}

	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MeResponse{
		User:      toUserResponse(user),
		Recruiter: s.recruiterSummary(ctx, user),
	}, nil
}

func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now().Add(-sessionRetention))
}

// openSession mints an access token and a refresh token for user. When
// prev is set it is rotated into the new session and the family carries
// over.
func (s *Service) openSession(
	ctx context.Context,
	user *UserInfo,
	client Client,
	prev *Session,
) (*AuthResponse, error) {
	familyID := ""
	sessionID := uuid.New().String()

	if prev != nil {
		familyID = prev.FamilyID
		if err := s.repo.Rotate(ctx, prev.ID, sessionID); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return nil, fmt.Errorf("refresh raced: %w", core.ErrTokenRevoked)
			}
			return nil, err
		}
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	err = s.repo.Create(ctx, &Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
	})
	if err != nil {
		return nil, err
	}

	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	ttl := s.jwt.AccessTokenTTL()

	return &AuthResponse{
		User:      toUserResponse(user),
		Recruiter: s.recruiterSummary(ctx, user),
		Tokens: TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(ttl / time.Second),
			ExpiresAt:    s.now().Add(ttl),
		},
	}, nil
}

// recruiterSummary never fails a sign-in. A lookup error only drops the
// summary from the response.
func (s *Service) recruiterSummary(ctx context.Context, user *UserInfo) *RecruiterSummary {
	if s.recruiters == nil || user.Role != middleware.RoleRecruiter {
		return nil
	}

	summary, err := s.recruiters.Summary(ctx, user.ID)
	if err != nil {
		s.logger.Warn("recruiter summary lookup failed", "user_id", user.ID, "error", err)
		return nil
	}

	return summary
}

func toUserResponse(user *UserInfo) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		LastName:  user.LastName,
		FirstName: user.FirstName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
