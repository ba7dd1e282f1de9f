// AngelaMos | 2026
// repository.go

package recruiter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var ErrNotFound = fmt.Errorf("recruiter: %w", core.ErrNotFound)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Recruiter, error)
	GetByUserID(ctx context.Context, userID int64) (*Recruiter, error)
	EnsureForUser(ctx context.Context, userID int64, p Profile) (*Recruiter, bool, error)
	UpdateProfile(ctx context.Context, id int64, p Profile) (*Recruiter, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const recruiterColumns = `id, user_id, company_name, industry, description,
		       company_email, company_address, created_at`

func (r *repository) GetByID(ctx context.Context, id int64) (*Recruiter, error) {
	query := `SELECT ` + recruiterColumns + ` FROM recruiters WHERE id = $1`

	var rec Recruiter
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recruiter: %w", err)
	}

	return &rec, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID int64) (*Recruiter, error) {
	query := `SELECT ` + recruiterColumns + ` FROM recruiters WHERE user_id = $1`

	var rec Recruiter
	err := r.db.GetContext(ctx, &rec, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recruiter by user: %w", err)
	}

	return &rec, nil
}

// EnsureForUser returns the recruiter row for userID, creating it from p
// when missing. An existing row is returned untouched. The bool reports
// whether a row was created.
func (r *repository) EnsureForUser(
	ctx context.Context,
	userID int64,
	p Profile,
) (*Recruiter, bool, error) {
	query := `
		INSERT INTO recruiters (
			user_id, company_name, industry, description,
			company_email, company_address
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + recruiterColumns

	var rec Recruiter
	err := r.db.GetContext(ctx, &rec, query,
		userID,
		p.CompanyName,
		p.Industry,
		p.Description,
		p.CompanyEmail,
		p.CompanyAddress,
	)
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return nil, false, fmt.Errorf("ensure recruiter: %w", getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ensure recruiter: %w", err)
	}

	return &rec, true, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int64, p Profile) (*Recruiter, error) {
	query := `
		UPDATE recruiters
		SET company_name = $2, industry = $3, description = $4,
		    company_email = $5, company_address = $6
		WHERE id = $1
		RETURNING ` + recruiterColumns

	var rec Recruiter
	err := r.db.GetContext(ctx, &rec, query,
		id,
		p.CompanyName,
		p.Industry,
		p.Description,
		p.CompanyEmail,
		p.CompanyAddress,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update recruiter: %w", err)
	}

	return &rec, nil
}
