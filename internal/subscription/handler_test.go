// AngelaMos | 2026
// handler_test.go

package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	Repository
	active map[int64]*Subscription
}

func (s stubRepo) CheckActive(_ context.Context, recruiterID int64) (*Subscription, error) {
	if sub, ok := s.active[recruiterID]; ok {
		return sub, nil
	}
	return nil, ErrNoActiveSubscription
}

func serveStatus(t *testing.T, repo Repository, path string) (*httptest.ResponseRecorder, StatusResponse) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(repo).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body StatusResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestStatusActive(t *testing.T) {
	sub := &Subscription{
		ID:          3,
		RecruiterID: 7,
		PackID:      2,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 0, 60),
		Status:      StatusActive,
	}

	rec, body := serveStatus(t, stubRepo{active: map[int64]*Subscription{7: sub}}, "/subscription/7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.HasActiveSubscription)
	require.NotNil(t, body.Data)
	assert.Equal(t, int64(3), body.Data.ID)
}

func TestStatusInactiveOmitsData(t *testing.T) {
	rec, body := serveStatus(t, stubRepo{}, "/subscription/7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.HasActiveSubscription)
	assert.NotContains(t, rec.Body.String(), `"data"`)
}

func TestStatusRejectsBadID(t *testing.T) {
	rec, _ := serveStatus(t, stubRepo{}, "/subscription/zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchaseEndDate(t *testing.T) {
	paid := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Purchase{PaidAt: paid, VisibilityDays: 60}

	assert.Equal(t, time.Date(2026, 4, 30, 10, 0, 0, 0, time.UTC), p.EndDate())
}
