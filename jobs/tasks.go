package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsBump invalidates cached financial reports after a posting.
	TaskReportsBump = "reports:bump"
	// TaskInventorySnapshot records the nightly stock snapshot.
	TaskInventorySnapshot = "inventory:snapshot"
)

// ReportsBumpPayload identifies the record change that triggered the bump.
type ReportsBumpPayload struct {
	ChangedAt time.Time `json:"changed_at"`
}

// NewReportsBumpTask constructs an Asynq task for report cache invalidation.
func NewReportsBumpTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ReportsBumpPayload{ChangedAt: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsBump, body, asynq.Queue(QueueDefault)), nil
}

// InventorySnapshotPayload carries scheduling metadata.
type InventorySnapshotPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewInventorySnapshotTask constructs an Asynq task for the stock snapshot.
func NewInventorySnapshotTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(InventorySnapshotPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventorySnapshot, body, asynq.Queue(QueueDefault)), nil
}
