package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(book.NewService(repo, zl), server.Options{
		Logger:         zl,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		HSTS:           cfg.EnableHSTS,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		zl.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore connects the configured driver and returns its repository.
func openStore(ctx context.Context, cfg config.Config, zl *zap.Logger) (book.Repository, func(), error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, cfg.DBDriver, cfg.MigrationsDir, zl); err != nil {
			db.Close()
			return nil, nil, err
		}
		zl.Info("database connection OK", zap.String("driver", "sqlite"))
		return book.NewSQLiteRepo(db, cfg.DBTimeout), func() { _ = db.Close() }, nil

	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			sqlDB := database.PostgresSQLDB(pool)
			err := database.Migrate(sqlDB, cfg.DBDriver, cfg.MigrationsDir, zl)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		zl.Info("database connection OK",
			zap.String("driver", "postgres"),
			zap.String("dsn", database.RedactDSN(cfg.DBDSN)),
		)
		return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
