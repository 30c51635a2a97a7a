package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/roastline/roastline/internal/app"
	"github.com/roastline/roastline/internal/archive"
	"github.com/roastline/roastline/internal/docstore"
	jobmetrics "github.com/roastline/roastline/internal/jobs"
	"github.com/roastline/roastline/internal/opsday"
	"github.com/roastline/roastline/internal/platform/db"
	"github.com/roastline/roastline/jobs"
)

func main() {
	once := flag.Bool("once", false, "run a single archive sync and exit")
	flag.Parse()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	calendar, err := opsday.NewCalendar(cfg.ArchiveTimezone, cfg.ArchiveShiftHour)
	if err != nil {
		logger.Error("init calendar", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	store := docstore.NewPostgres(pool)
	service := archive.NewService(store, calendar, logger)

	if *once {
		if _, err := service.Sync(ctx); err != nil {
			logger.Error("archive sync", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	metrics := jobmetrics.NewMetrics(nil)
	syncJob := jobs.NewArchiveSyncJob(service, logger, metrics)

	syncTask, err := jobs.NewArchiveSyncTask(jobs.ArchiveSyncPayload{Reason: "schedule"})
	if err != nil {
		logger.Error("build sync task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Location:  calendar.Location(),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskArchiveSync, Handler: syncJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ArchiveSyncSpec, Task: syncTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
