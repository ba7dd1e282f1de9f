// AngelaMos | 2026
// repository_test.go

package recruiter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core/coretest"
)

func TestRepositoryEnsureForUserIsIdempotent(t *testing.T) {
	db := coretest.NewDB(t)
	ctx := context.Background()

	var userID int64
	require.NoError(t, db.GetContext(ctx, &userID, `
		INSERT INTO users (last_name, first_name, email, password_hash, role)
		VALUES ('Martin', 'Lea', 'lea@acme.test', 'h', 'recruiter')
		RETURNING id`))

	repo := NewRepository(db)

	first, created, err := repo.EnsureForUser(ctx, userID, Profile{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Acme", first.CompanyName)

	second, created, err := repo.EnsureForUser(ctx, userID, Profile{CompanyName: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Acme", second.CompanyName)

	_, err = repo.GetByID(ctx, first.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
