package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	bumps int
	err   error
}

func (s *stubCache) Bump(context.Context) error {
	s.bumps++
	return s.err
}

type stubSnapshotter struct {
	count int
	err   error
}

func (s *stubSnapshotter) TakeSnapshot(context.Context) (int, error) {
	return s.count, s.err
}

func TestReportsBumpJobInvalidatesCache(t *testing.T) {
	cache := &stubCache{}
	job := NewReportsBumpJob(cache, nil, nil)

	task, err := NewReportsBumpTask(time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, cache.bumps)
}

func TestReportsBumpJobPropagatesCacheError(t *testing.T) {
	cache := &stubCache{err: errors.New("redis down")}
	job := NewReportsBumpJob(cache, nil, nil)

	task, err := NewReportsBumpTask(time.Now())
	require.NoError(t, err)

	require.Error(t, job.Handle(context.Background(), task))
}

func TestReportsBumpJobSkipsRetryOnBadPayload(t *testing.T) {
	job := NewReportsBumpJob(&stubCache{}, nil, nil)
	task := asynq.NewTask(TaskReportsBump, []byte("not json"))

	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestInventorySnapshotJobRecordsStock(t *testing.T) {
	svc := &stubSnapshotter{count: 12}
	job := NewInventorySnapshotJob(svc, nil, nil)
	job.WithClock(func() time.Time { return time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC) })

	task, err := NewInventorySnapshotTask(time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
}

func TestInventorySnapshotJobPropagatesError(t *testing.T) {
	svc := &stubSnapshotter{err: errors.New("db gone")}
	job := NewInventorySnapshotJob(svc, nil, nil)

	task, err := NewInventorySnapshotTask(time.Now())
	require.NoError(t, err)

	require.Error(t, job.Handle(context.Background(), task))
}
