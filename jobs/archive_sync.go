package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/roastline/roastline/internal/archive"
	jobmetrics "github.com/roastline/roastline/internal/jobs"
)

var daySlots = []string{"today", "yesterday"}

// ArchiveSyncJob runs the daily KPI archive recomputation. Every run fully
// recomputes the current and previous operational day and merge-writes both,
// so overlapping or retried runs are harmless.
type ArchiveSyncJob struct {
	Service *archive.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewArchiveSyncJob initialises the archive sync handler.
func NewArchiveSyncJob(service *archive.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ArchiveSyncJob {
	return &ArchiveSyncJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes TaskArchiveSync.
func (j *ArchiveSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("archive sync: handler not configured")
	}
	var payload ArchiveSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.clock()
	tracker := j.metrics().Track(TaskArchiveSync)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(
		slog.String("run_id", uuid.NewString()),
		slog.String("reason", payload.Reason),
	)
	logger.Info("starting archive sync")

	days, err := j.Service.Sync(ctx)
	if err != nil {
		resultErr = err
		logger.Error("archive sync failed", slog.Any("error", err))
		return resultErr
	}

	for i, day := range days {
		if i < len(daySlots) {
			j.Metrics.ObserveArchiveWrite(daySlots[i], start.Sub(day.Start))
		}
	}
	logger.Info("completed archive sync",
		slog.Int("days", len(days)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ArchiveSyncJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return nil
}

func (j *ArchiveSyncJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
