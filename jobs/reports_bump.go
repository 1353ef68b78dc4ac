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

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportCache is the slice of the report cache the bump job needs.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// ReportsBumpJob advances the report cache version so stale reports are
// never served after a posting.
type ReportsBumpJob struct {
	Cache   ReportCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsBumpJob constructs the job handler.
func NewReportsBumpJob(cache ReportCache, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsBumpJob {
	return &ReportsBumpJob{Cache: cache, Logger: logger, Metrics: metrics}
}

// Handle executes the report cache bump.
func (j *ReportsBumpJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Cache == nil {
		return errors.New("reports bump: cache not configured")
	}
	var payload ReportsBumpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportsBump)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if err := j.Cache.Bump(ctx); err != nil {
		resultErr = err
		j.log().Error("bump report cache", slog.Any("error", err))
		return resultErr
	}
	j.log().Info("report cache invalidated", slog.Time("changed_at", payload.ChangedAt))
	return resultErr
}

func (j *ReportsBumpJob) metrics() *jobmetrics.Metrics {
	if j != nil && j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportsBumpJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsBump))
	}
	return slog.Default().With(slog.String("job", TaskReportsBump))
}

// Notifier enqueues a bump task whenever the books change. It satisfies
// the service-layer change notifier without coupling services to Asynq.
type Notifier struct {
	client *Client
	logger *slog.Logger
	clock  func() time.Time
}

// NewNotifier constructs a Notifier backed by the jobs client.
func NewNotifier(client *Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// BooksChanged enqueues a report cache bump. Failures are logged, not
// returned: the posting already committed and must not be rolled back
// for a cache miss.
func (n *Notifier) BooksChanged(ctx context.Context) {
	if n == nil || n.client == nil {
		return
	}
	if _, err := n.client.EnqueueReportsBump(ctx, n.clock()); err != nil && n.logger != nil {
		n.logger.Warn("enqueue reports bump", slog.Any("error", err))
	}
}
