// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

type SessionState int

const (
	SessionActive SessionState = iota
	SessionRotated
	SessionRevoked
	SessionExpired
)

// Session is one refresh token. Rotating a session marks it used and
// points it at its successor; every session minted from the same login
// shares a family.
type Session struct {
	ID           string     `db:"id"`
	UserID       int64      `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

// State reports where the session stands at now. A rotated session wins
// over revoked or expired so that replaying it is always detected.
func (s *Session) State(now time.Time) SessionState {
	switch {
	case s.IsUsed:
		return SessionRotated
	case s.RevokedAt != nil:
		return SessionRevoked
	case !now.Before(s.ExpiresAt):
		return SessionExpired
	default:
		return SessionActive
	}
}

// Client identifies the device a session was opened from.
type Client struct {
	UserAgent string
	IPAddress string
}
