package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/point-ledger/internal/api"
	"github.com/baharkarakas/point-ledger/internal/config"
	"github.com/baharkarakas/point-ledger/internal/db"
	"github.com/baharkarakas/point-ledger/internal/logger"
	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/baharkarakas/point-ledger/internal/repository/memory"
	"github.com/baharkarakas/point-ledger/internal/repository/postgres"
	"github.com/baharkarakas/point-ledger/internal/services"
	"github.com/baharkarakas/point-ledger/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		balances  repository.Balances
		histories repository.Histories
		audit     repository.AuditLogs
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}
		repos := postgres.NewRepositories(pool)
		balances, histories, audit = repos.Balances, repos.Histories, repos.AuditLogs
	default:
		repos := memory.NewRepositories(cfg.StoreThrottle)
		balances, histories, audit = repos.Balances, repos.Histories, repos.AuditLogs
	}

	wp := worker.NewPool(cfg.WorkerCount, 1024)
	defer wp.Stop()

	pointSvc := services.NewPointService(balances, histories, audit, wp, services.PointOptions{
		MaxChargePerOperation: cfg.MaxChargePerOperation,
		MaxPoint:              cfg.MaxPoint,
		ZeroOnMissing:         cfg.MissingBalancePolicy == config.MissingBalanceZero,
		LockTimeout:           cfg.LockTimeout,
		Logger:                log,
	})

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{Cfg: cfg, PointSvc: pointSvc})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting",
			"port", cfg.HTTPPort,
			"backend", cfg.Backend,
			"missing_balance_policy", cfg.MissingBalancePolicy,
			"lock_timeout", cfg.LockTimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
