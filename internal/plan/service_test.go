// AngelaMos | 2026
// service_test.go

package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	plans     []Plan
	listCalls int
}

func (m *memRepo) List(_ context.Context) ([]Plan, error) {
	m.listCalls++
	out := append([]Plan(nil), m.plans...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) Seed(_ context.Context, plans []Plan) (int64, error) {
	if len(m.plans) > 0 {
		return 0, nil
	}
	for i, p := range plans {
		p.ID = int64(i + 1)
		m.plans = append(m.plans, p)
	}
	return int64(len(plans)), nil
}

type memCache struct {
	data    map[string][]byte
	failGet bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	if c.failGet {
		return false, errors.New("redis down")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestListSeedsEmptyCatalog(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil, time.Minute, nil)

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)

	assert.Equal(t, "basic", plans[0].Name)
	assert.Equal(t, "standard", plans[1].Name)
	assert.Equal(t, "premium", plans[2].Name)
	assert.Equal(t, 60, plans[1].VisibilityDays)
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	assert.Len(t, repo.plans, len(Defaults))
}

func TestListUsesCache(t *testing.T) {
	repo := &memRepo{}
	cache := newMemCache()
	svc := NewService(repo, cache, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	calls := repo.listCalls

	plans, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
	assert.Equal(t, calls, repo.listCalls)
}

func TestListFallsBackWhenCacheFails(t *testing.T) {
	repo := &memRepo{}
	cache := newMemCache()
	cache.failGet = true
	svc := NewService(repo, cache, time.Minute, nil)

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}

func TestGetUnknownPlan(t *testing.T) {
	svc := NewService(&memRepo{}, nil, time.Minute, nil)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2999), Plan{Price: 29.99}.MinorUnits())
	assert.Equal(t, int64(999), Plan{Price: 9.99}.MinorUnits())
	assert.Equal(t, int64(5999), Plan{Price: 59.99}.MinorUnits())
}

func TestHandlerList(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewService(&memRepo{}, nil, time.Minute, nil)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/packs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Data    []Plan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 3)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/packs/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
