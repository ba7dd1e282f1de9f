// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterRequest is the candidate signup form. Recruiters sign up through
// the payment flow instead.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RecruiterSummary is what a recruiter's client needs right after signing
// in to decide between the dashboard and the pack picker.
type RecruiterSummary struct {
	ID                    int64      `json:"id"`
	CompanyName           string     `json:"company_name"`
	HasActiveSubscription bool       `json:"has_active_subscription"`
	SubscriptionEndsAt    *time.Time `json:"subscription_ends_at,omitempty"`
}

type AuthResponse struct {
	User      UserResponse      `json:"user"`
	Recruiter *RecruiterSummary `json:"recruiter,omitempty"`
	Tokens    TokenResponse     `json:"tokens"`
}

type MeResponse struct {
	User      UserResponse      `json:"user"`
	Recruiter *RecruiterSummary `json:"recruiter,omitempty"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}
