// AngelaMos | 2026
// service.go

package pending

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidRegistration = errors.New("invalid registration")
)

type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

// Register validates and stores a signup. An absent required field wraps
// ErrMissingFields; a present but malformed one wraps
// ErrInvalidRegistration. Both carry a client facing message.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.LastName = strings.TrimSpace(req.LastName)
	req.FirstName = strings.TrimSpace(req.FirstName)

	if err := s.validator.Struct(req); err != nil {
		if core.HasMissingField(err) {
			return 0, fmt.Errorf("%s: %w", core.FormatValidationError(err), ErrMissingFields)
		}
		return 0, fmt.Errorf("%s: %w", core.FormatValidationError(err), ErrInvalidRegistration)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = DefaultRole
	}

	reg := &Registration{
		LastName:       req.LastName,
		FirstName:      req.FirstName,
		Email:          req.Email,
		HashedPassword: hash,
		Role:           role,
		CompanyName:    req.CompanyName,
		Industry:       req.Industry,
		Description:    req.Description,
		CompanyEmail:   req.CompanyEmail,
		CompanyAddress: req.CompanyAddress,
	}

	id, err := s.repo.Create(ctx, reg)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Registration, error) {
	return s.repo.FindByID(ctx, id)
}
