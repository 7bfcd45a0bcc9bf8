package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskListingsPurge hard-deletes entities soft-deleted longer than the
	// retention window.
	TaskListingsPurge = "listings:purge"
)

// PurgePayload configures one purge run. Zero values fall back to the job
// defaults.
type PurgePayload struct {
	Retention time.Duration `json:"retention"`
	BatchSize int           `json:"batchSize"`
	Entities  []string      `json:"entities,omitempty"`
}

// NewPurgeTask constructs an Asynq task for the purge job.
func NewPurgeTask(payload PurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskListingsPurge, data, asynq.Queue(QueueDefault)), nil
}
