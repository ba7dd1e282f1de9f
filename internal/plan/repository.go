// AngelaMos | 2026
// repository.go

package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var ErrNotFound = fmt.Errorf("plan: %w", core.ErrNotFound)

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	Get(ctx context.Context, id int64) (*Plan, error)
	Seed(ctx context.Context, plans []Plan) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Plan, error) {
	query := `
		SELECT id, name, price, job_limit, candidate_limit, visibility_days, description
		FROM packs
		ORDER BY price ASC, id ASC`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return plans, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Plan, error) {
	query := `
		SELECT id, name, price, job_limit, candidate_limit, visibility_days, description
		FROM packs
		WHERE id = $1`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	return &p, nil
}

// Seed inserts plans only when the table is empty and reports how many rows
// were written. The unique plan name stops concurrent boots from
// duplicating rows.
func (r *repository) Seed(ctx context.Context, plans []Plan) (int64, error) {
	if len(plans) == 0 {
		return 0, nil
	}

	names := make([]string, len(plans))
	prices := make([]float64, len(plans))
	jobs := make([]int64, len(plans))
	candidates := make([]int64, len(plans))
	days := make([]int64, len(plans))
	descriptions := make([]string, len(plans))
	for i, p := range plans {
		names[i] = p.Name
		prices[i] = p.Price
		jobs[i] = int64(p.JobLimit)
		candidates[i] = int64(p.CandidateLimit)
		days[i] = int64(p.VisibilityDays)
		descriptions[i] = p.Description
	}

	query := `
		INSERT INTO packs (name, price, job_limit, candidate_limit, visibility_days, description)
		SELECT * FROM unnest(
			$1::text[], $2::numeric[], $3::int[], $4::int[], $5::int[], $6::text[]
		)
		WHERE NOT EXISTS (SELECT 1 FROM packs)
		ON CONFLICT (name) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		names, prices, jobs, candidates, days, descriptions,
	)
	if err != nil {
		return 0, fmt.Errorf("seed plans: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("seed plans: %w", err)
	}

	return inserted, nil
}
