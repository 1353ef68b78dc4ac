package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/jobs"
)

func TestTriggerEnqueuesSnapshot(t *testing.T) {
	srv := miniredis.RunT(t)

	cli, err := NewJobsCLI(srv.Addr())
	require.NoError(t, err)
	defer func() { require.NoError(t, cli.Close()) }()

	info, err := cli.Trigger(context.Background(), jobs.TaskInventorySnapshot)
	require.NoError(t, err)
	require.Equal(t, jobs.TaskInventorySnapshot, info.Type)
	require.Equal(t, jobs.QueueDefault, info.Queue)

	stats, err := cli.InspectQueue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Pending)
}

func TestTriggerRejectsUnknownJob(t *testing.T) {
	srv := miniredis.RunT(t)

	cli, err := NewJobsCLI(srv.Addr())
	require.NoError(t, err)
	defer func() { require.NoError(t, cli.Close()) }()

	_, err = cli.Trigger(context.Background(), "mail:send")
	require.Error(t, err)
}
