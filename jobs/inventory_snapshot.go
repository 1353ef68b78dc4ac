package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/ledgerdesk/ledgerdesk/internal/jobs"
)

// SnapshotService describes the behaviour required to record stock levels.
type SnapshotService interface {
	TakeSnapshot(ctx context.Context) (int, error)
}

// InventorySnapshotJob records every item's stock level so low-stock and
// valuation history survive later adjustments.
type InventorySnapshotJob struct {
	Service SnapshotService
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewInventorySnapshotJob constructs the job handler.
func NewInventorySnapshotJob(service SnapshotService, logger *slog.Logger, metrics *jobmetrics.Metrics) *InventorySnapshotJob {
	return &InventorySnapshotJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the snapshot job.
func (j *InventorySnapshotJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("inventory snapshot: service not configured")
	}
	var payload InventorySnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskInventorySnapshot)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := j.now()
	count, err := j.Service.TakeSnapshot(ctx)
	if err != nil {
		resultErr = err
		j.log().Error("take inventory snapshot", slog.Any("error", err))
		return resultErr
	}
	j.log().Info("inventory snapshot recorded", slog.Int("items", count), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *InventorySnapshotJob) metrics() *jobmetrics.Metrics {
	if j != nil && j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *InventorySnapshotJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInventorySnapshot))
	}
	return slog.Default().With(slog.String("job", TaskInventorySnapshot))
}

func (j *InventorySnapshotJob) now() time.Time {
	if j != nil && j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// WithClock overrides the internal clock for deterministic tests.
func (j *InventorySnapshotJob) WithClock(clock func() time.Time) {
	if j != nil && clock != nil {
		j.clock = clock
	}
}
