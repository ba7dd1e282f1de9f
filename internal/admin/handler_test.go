// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
)

type fakeLedger struct {
	totals *subscription.Totals
	subs   map[int64][]subscription.Subscription
	err    error
}

func (f fakeLedger) Totals(context.Context) (*subscription.Totals, error) {
	return f.totals, f.err
}

func (f fakeLedger) ListForRecruiter(_ context.Context, id int64) ([]subscription.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs[id], nil
}

type fakeUsers map[string]int

func (f fakeUsers) CountByRole(context.Context) (map[string]int, error) {
	return f, nil
}

type fakeTokens struct {
	removed int64
	calls   *int
}

func (f fakeTokens) PurgeExpiredTokens(context.Context) (int64, error) {
	*f.calls++
	return f.removed, nil
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func passthrough(next http.Handler) http.Handler { return next }

func serve(t *testing.T, cfg HandlerConfig, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(r, passthrough, passthrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestBusinessStats(t *testing.T) {
	cfg := HandlerConfig{
		Ledger: fakeLedger{totals: &subscription.Totals{
			Payments:            4,
			Revenue:             119.96,
			ActiveSubscriptions: 3,
		}},
		Users:           fakeUsers{"candidate": 10, "recruiter": 4},
		PaymentsEnabled: func() bool { return true },
	}

	rec := serve(t, cfg, http.MethodGet, "/admin/stats/business")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope[BusinessStatsResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.PaymentsEnabled)
	require.NotNil(t, body.Data.Ledger)
	assert.Equal(t, int64(4), body.Data.Ledger.Payments)
	assert.InDelta(t, 119.96, body.Data.Ledger.Revenue, 0.001)
	assert.Equal(t, 4, body.Data.UsersByRole["recruiter"])
}

func TestBusinessStatsLedgerFailure(t *testing.T) {
	cfg := HandlerConfig{Ledger: fakeLedger{err: errors.New("db down")}}

	rec := serve(t, cfg, http.MethodGet, "/admin/stats/business")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecruiterSubscriptions(t *testing.T) {
	cfg := HandlerConfig{Ledger: fakeLedger{subs: map[int64][]subscription.Subscription{
		7: {
			{ID: 2, RecruiterID: 7, PackID: 1, Status: subscription.StatusActive},
			{ID: 1, RecruiterID: 7, PackID: 1, Status: subscription.StatusExpired},
		},
	}}}

	rec := serve(t, cfg, http.MethodGet, "/admin/recruiters/7/subscriptions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope[[]subscription.Subscription]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(2), body.Data[0].ID)
}

func TestRecruiterSubscriptionsBadID(t *testing.T) {
	rec := serve(t, HandlerConfig{Ledger: fakeLedger{}}, http.MethodGet, "/admin/recruiters/abc/subscriptions")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurgeTokens(t *testing.T) {
	calls := 0
	cfg := HandlerConfig{Tokens: fakeTokens{removed: 5, calls: &calls}}

	rec := serve(t, cfg, http.MethodPost, "/admin/tokens/purge")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)

	var body envelope[PurgeResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.Data.Removed)
}

func TestSystemStatsReportsUnhealthyPing(t *testing.T) {
	cfg := HandlerConfig{
		DBPing:    func(context.Context) error { return errors.New("refused") },
		RedisPing: func(context.Context) error { return nil },
	}

	rec := serve(t, cfg, http.MethodGet, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope[SystemStatsResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Database.Healthy)
	assert.True(t, body.Data.Redis.Healthy)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}
