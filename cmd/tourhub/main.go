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

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourhub/tourhub/cmd/tourhub/cli"
	"github.com/tourhub/tourhub/internal/app"
	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/observability"
	"github.com/tourhub/tourhub/internal/platform/cache"
	"github.com/tourhub/tourhub/internal/platform/db"
	"github.com/tourhub/tourhub/jobs"
	"github.com/tourhub/tourhub/migrations"
)

const actorTokenPrefix = "tourhub"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 {
		os.Exit(runCommand(ctx, cfg, logger, os.Args[1:]))
	}

	if err := serve(ctx, stop, cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) int {
	switch args[0] {
	case "jobs":
		jobsCLI, err := cli.NewJobsCLI(redisOpts(cfg))
		if err != nil {
			logger.Error("init jobs cli", slog.Any("error", err))
			return 1
		}
		defer func() {
			if err := jobsCLI.Close(); err != nil {
				logger.Warn("jobs cli close", slog.Any("error", err))
			}
		}()
		return jobsCLI.Command(ctx, args[1:], cli.CommandOptions{})
	case "token":
		redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			return 1
		}
		defer func() { _ = redisClient.Close() }()
		store := authz.NewActorStore(redisClient, actorTokenPrefix, cfg.ActorTokenTTL)
		return cli.NewTokensCLI(store).Command(ctx, args[1:], cli.CommandOptions{})
	case "migrate":
		pool, err := openPool(ctx, cfg)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			return 1
		}
		defer pool.Close()
		applied, err := db.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			logger.Error("migrate", slog.Any("error", err))
			return 1
		}
		logger.Info("migrations applied", slog.Any("versions", applied))
		return 0
	default:
		logger.Error("unknown command", slog.String("command", args[0]))
		return 2
	}
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) error {
	repos := app.MemoryRepositories()
	if cfg.StorageDriver == app.StoragePostgres {
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.MigrateOnStart {
			applied, err := db.Migrate(ctx, pool, migrations.FS)
			if err != nil {
				return err
			}
			logger.Info("migrations applied", slog.Any("versions", applied))
		}
		repos = app.PostgresRepositories(pool)
	} else {
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	redisClient, err := cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	actors := authz.NewActorStore(redisClient, actorTokenPrefix, cfg.ActorTokenTTL)

	metrics := observability.NewMetrics()
	services := app.NewServices(repos, logger, metrics)

	inspector := asynq.NewInspector(redisOpts(cfg))
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:     logger,
		Config:     cfg,
		Services:   services,
		Resolver:   actors,
		JobHandler: jobs.NewHandler(inspector, logger),
		Metrics:    metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openPool(ctx context.Context, cfg *app.Config) (*pgxpool.Pool, error) {
	return db.New(ctx, cfg.PGDSN, db.PoolOptions{
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGConnLifetime,
	})
}

func redisOpts(cfg *app.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}
