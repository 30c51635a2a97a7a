package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskArchiveSync is the task type for the daily KPI archive sync.
	TaskArchiveSync = "archive:sync"
)

// ArchiveSyncPayload parameterizes one archive sync run. The zero value asks
// for the standard today-plus-yesterday recomputation.
type ArchiveSyncPayload struct {
	// Reason distinguishes scheduled runs from manual triggers in logs.
	Reason string `json:"reason,omitempty"`
}

// NewArchiveSyncTask constructs the Asynq task for an archive sync.
func NewArchiveSyncTask(payload ArchiveSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskArchiveSync, data), nil
}
