// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
)

type Ledger interface {
	Totals(ctx context.Context) (*subscription.Totals, error)
	ListForRecruiter(ctx context.Context, recruiterID int64) ([]subscription.Subscription, error)
}

type UserCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	ledger     Ledger
	users      UserCounter
	tokens     TokenPurger
	payments   func() bool
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
	Ledger     Ledger
	Users      UserCounter
	Tokens     TokenPurger
	// PaymentsEnabled reports whether the payment gateway is live.
	PaymentsEnabled func() bool
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		ledger:     cfg.Ledger,
		users:      cfg.Users,
		tokens:     cfg.Tokens,
		payments:   cfg.PaymentsEnabled,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/business", h.GetBusinessStats)
		r.Get("/recruiters/{recruiterID}/subscriptions", h.ListRecruiterSubscriptions)
		r.Post("/tokens/purge", h.PurgeTokens)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := pingOK(ctx, h.dbPing)
	redisHealthy := pingOK(ctx, h.redisPing)

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	})
}

func pingOK(ctx context.Context, ping func(ctx context.Context) error) bool {
	return ping == nil || ping(ctx) == nil
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

// GetBusinessStats returns ledger totals and the number of accounts per
// role.
func (h *Handler) GetBusinessStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := BusinessStatsResponse{}

	if h.payments != nil {
		resp.PaymentsEnabled = h.payments()
	}

	if h.ledger != nil {
		totals, err := h.ledger.Totals(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.Ledger = totals
	}

	if h.users != nil {
		counts, err := h.users.CountByRole(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.UsersByRole = counts
	}

	core.OK(w, resp)
}

func (h *Handler) ListRecruiterSubscriptions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recruiterID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid recruiter id")
		return
	}

	if h.ledger == nil {
		core.OK(w, []subscription.Subscription{})
		return
	}

	subs, err := h.ledger.ListForRecruiter(r.Context(), id)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, subs)
}

func (h *Handler) PurgeTokens(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		core.OK(w, PurgeResponse{})
		return
	}

	removed, err := h.tokens.PurgeExpiredTokens(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PurgeResponse{Removed: removed})
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type BusinessStatsResponse struct {
	PaymentsEnabled bool                 `json:"payments_enabled"`
	Ledger          *subscription.Totals `json:"ledger,omitempty"`
	UsersByRole     map[string]int       `json:"users_by_role,omitempty"`
}

type PurgeResponse struct {
	Removed int64 `json:"removed"`
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
