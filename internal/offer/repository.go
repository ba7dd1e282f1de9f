// AngelaMos | 2026
// repository.go

package offer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var ErrNotFound = fmt.Errorf("offer: %w", core.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	GetByID(ctx context.Context, id int64) (*Offer, error)
	ListPublic(ctx context.Context, params ListParams) ([]Offer, int, error)
	ListByRecruiter(ctx context.Context, recruiterID int64) ([]Offer, error)
	CountSince(ctx context.Context, recruiterID int64, since time.Time) (int, error)
	Delete(ctx context.Context, id, recruiterID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const offerColumns = `id, recruiter_id, title, description, location,
		       contract_type, salary, status, expires_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, o *Offer) error {
	query := `
		INSERT INTO offers (
			recruiter_id, title, description, location,
			contract_type, salary, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		o.RecruiterID,
		o.Title,
		o.Description,
		o.Location,
		o.ContractType,
		o.Salary,
		o.Status,
		o.ExpiresAt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var o Offer
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}

	return &o, nil
}

// ListPublic pages through open offers that have not expired, newest first.
func (r *repository) ListPublic(ctx context.Context, params ListParams) ([]Offer, int, error) {
	params.Normalize()

	conditions := []string{"status = 'open'", "expires_at > NOW()"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM offers WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM offers
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		offerColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	offers := []Offer{}
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	return offers, total, nil
}

func (r *repository) ListByRecruiter(ctx context.Context, recruiterID int64) ([]Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE recruiter_id = $1
		ORDER BY created_at DESC, id DESC`

	offers := []Offer{}
	if err := r.db.SelectContext(ctx, &offers, query, recruiterID); err != nil {
		return nil, fmt.Errorf("list recruiter offers: %w", err)
	}

	return offers, nil
}

// CountSince counts the recruiter's offers created at or after since,
// deleted ones excluded.
func (r *repository) CountSince(ctx context.Context, recruiterID int64, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM offers WHERE recruiter_id = $1 AND created_at >= $2`

	var n int
	if err := r.db.GetContext(ctx, &n, query, recruiterID, since); err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}

	return n, nil
}

func (r *repository) Delete(ctx context.Context, id, recruiterID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM offers WHERE id = $1 AND recruiter_id = $2`, id, recruiterID)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
