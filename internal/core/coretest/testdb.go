// AngelaMos | 2026
// testdb.go

// Package coretest holds helpers for tests that need a real Postgres.
package coretest

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

const truncateAll = `
	TRUNCATE offers, recruiter_subscriptions, payments, packs,
	         pending_recruiters, refresh_tokens, recruiters, candidates, users
	RESTART IDENTITY CASCADE`

// NewDB connects to TEST_DATABASE_URL, applies migrations and empties every
// table. The test is skipped when the variable is unset.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", url)
	require.NoError(t, err)

	require.NoError(t, core.Migrate(ctx, db))

	_, err = db.ExecContext(ctx, truncateAll)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // test teardown
	})

	return db
}
