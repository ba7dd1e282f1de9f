// AngelaMos | 2026
// repository.go

package pending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var ErrNotFound = fmt.Errorf("pending registration: %w", core.ErrNotFound)

// Repository stores registrations as given. Callers hash the password
// before Create.
type Repository interface {
	Create(ctx context.Context, reg *Registration) (int64, error)
	FindByID(ctx context.Context, id int64) (*Registration, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, reg *Registration) (int64, error) {
	query := `
		INSERT INTO pending_recruiters (
			last_name, first_name, email, hashed_password, role,
			company_name, industry, description, company_email, company_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		reg.LastName,
		reg.FirstName,
		reg.Email,
		reg.HashedPassword,
		reg.Role,
		reg.CompanyName,
		reg.Industry,
		reg.Description,
		reg.CompanyEmail,
		reg.CompanyAddress,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("create pending registration: %w", err)
	}

	return reg.ID, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Registration, error) {
	query := `
		SELECT id, last_name, first_name, email, hashed_password, role,
		       company_name, industry, description, company_email,
		       company_address, created_at
		FROM pending_recruiters
		WHERE id = $1`

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pending registration: %w", err)
	}

	return &reg, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_recruiters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
