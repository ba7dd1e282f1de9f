// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/auth"
)

type UpdateUserRequest struct {
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=1,max=100"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=candidate recruiter admin"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountResponse is a user as seen by themselves or an operator. Recruiters
// carry their company and whether their pack is running.
type AccountResponse struct {
	UserResponse
	Recruiter *auth.RecruiterSummary `json:"recruiter,omitempty"`
}

// ListUsersParams filters the admin user list. Subscribed, when set, keeps
// only recruiters whose latest subscription is (or is not) still running.
type ListUsersParams struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Search     string `json:"search"`
	Role       string `json:"role"`
	Subscribed *bool  `json:"subscribed,omitempty"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
