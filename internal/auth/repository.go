// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var ErrSessionNotFound = fmt.Errorf("session: %w", core.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByHash(ctx context.Context, tokenHash string) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	Rotate(ctx context.Context, id, successorID string) error
	RevokeSession(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) (int64, error)
	RevokeUser(ctx context.Context, userID int64) (int64, error)
	ListActive(ctx context.Context, userID int64, now time.Time) ([]Session, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const sessionColumns = `id, user_id, token_hash, family_id, expires_at, created_at,
		       is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

func (r *repository) Create(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, family_id, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID, s.UserID, s.TokenHash, s.FamilyID, s.ExpiresAt, s.UserAgent, s.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*Session, error) {
	return r.findOne(ctx, "token_hash", tokenHash)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	return r.findOne(ctx, "id", id)
}

// column is always one of the literals above, never caller input.
func (r *repository) findOne(ctx context.Context, column string, value any) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM refresh_tokens WHERE ` + column + ` = $1`

	var s Session
	err := r.db.GetContext(ctx, &s, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &s, nil
}

// Rotate marks id used and links it to its successor. It fails with
// ErrSessionNotFound when another request rotated id first.
func (r *repository) Rotate(ctx context.Context, id, successorID string) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	n, err := r.exec(ctx, query, id, successorID)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *repository) RevokeSession(ctx context.Context, id string) error {
	n, err := r.exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) (int64, error) {
	n, err := r.exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE family_id = $1 AND revoked_at IS NULL`, familyID)
	if err != nil {
		return 0, fmt.Errorf("revoke session family: %w", err)
	}

	return n, nil
}

func (r *repository) RevokeUser(ctx context.Context, userID int64) (int64, error) {
	n, err := r.exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}

	return n, nil
}

func (r *repository) ListActive(ctx context.Context, userID int64, now time.Time) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM refresh_tokens
		WHERE user_id = $1
		  AND revoked_at IS NULL
		  AND is_used = false
		  AND expires_at > $2
		ORDER BY created_at DESC`

	var sessions []Session
	if err := r.db.SelectContext(ctx, &sessions, query, userID, now); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return n, nil
}

func (r *repository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
