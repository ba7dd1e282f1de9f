// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/admin"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/auth"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/config"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/gateway"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/health"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/middleware"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/offer"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/payment"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/pending"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/plan"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/server"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/user"
)

const (
	drainDelay         = 5 * time.Second
	tokenPurgeInterval = 6 * time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	txRunner := core.NewTxRunner(db.DB)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, txRunner)

	planSvc := plan.NewService(
		plan.NewRepository(db.DB),
		redis,
		cfg.Payments.PlanCacheTTL,
		logger,
	)
	if err := planSvc.Seed(ctx); err != nil {
		return err
	}
	planHandler := plan.NewHandler(planSvc)

	pay := gateway.New(cfg.Payments, logger)
	logger.Info("payment gateway initialized", "enabled", pay.Enabled())

	pendingRepo := pending.NewRepository(db.DB)
	pendingSvc := pending.NewService(pendingRepo)

	recruiterRepo := recruiter.NewRepository(db.DB)
	recruiterHandler := recruiter.NewHandler(recruiterRepo)

	ledger := subscription.NewRepository(db.DB)
	subscriptionHandler := subscription.NewHandler(ledger)

	recruiterDirectory := recruiter.NewDirectory(recruiterRepo, ledger)
	userHandler := user.NewHandler(userSvc, user.WithRecruiterDirectory(recruiterDirectory))

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		userSvc,
		redis.Client,
		auth.WithRecruiterDirectory(recruiterDirectory),
		auth.WithLogger(logger),
	)
	authHandler := auth.NewHandler(authSvc)

	paymentSvc := payment.NewService(payment.ServiceConfig{
		Gateway: pay,
		Plans:   planSvc,
		Ledger:  ledger,
		Stores: payment.Stores{
			Pending:    pendingRepo,
			Users:      userRepo,
			Recruiters: recruiterRepo,
		},
		UnitOfWork: payment.NewUnitOfWork(txRunner),
		Tokens:     jwtManager,
		Logger:     logger,
	})
	paymentHandler := payment.NewHandler(paymentSvc, pendingSvc, logger)

	offerSvc := offer.NewService(
		offer.NewRepository(db.DB),
		recruiterRepo,
		ledger,
		planSvc,
		logger,
	)
	offerHandler := offer.NewHandler(offerSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:         db.Stats,
		RedisStats:      redis.PoolStats,
		DBPing:          db.Ping,
		RedisPing:       redis.Ping,
		Ledger:          ledger,
		Users:           userSvc,
		Tokens:          authSvc,
		PaymentsEnabled: paymentSvc.Enabled,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: middleware.BypassPaths("/healthz", "/livez", "/readyz", cfg.Metrics.Path),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(
		jwtManager,
		middleware.WithBlacklist(authSvc),
		middleware.WithTokenVersionCheck(authSvc),
	)
	optionalAuth := middleware.OptionalAuth(jwtManager)
	adminOnly := middleware.RequireAdmin

	paymentLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.PaymentRequests,
			cfg.RateLimit.PaymentBurst,
		),
		KeyFunc:  middleware.KeyByIPAndScope("payments"),
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)

		recruiterHandler.RegisterRoutes(r, authenticator)
		offerHandler.RegisterRoutes(r, authenticator)

		r.Route("/payments", func(r chi.Router) {
			planHandler.RegisterRoutes(r)
			subscriptionHandler.RegisterRoutes(r)
			paymentHandler.RegisterRoutes(r, optionalAuth, paymentLimiter)
		})
	})

	go purgeExpiredTokens(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func purgeExpiredTokens(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Warn("refresh token purge failed", "error", err)
				continue
			}
			logger.Debug("purged expired refresh tokens", "removed", removed)
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
