package core

import "time"

// RunStatus represents the lifecycle state of an import run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded import run.
type Run struct {
	ID          string
	Source      string
	Partitions  int
	Rows        int64
	Status      RunStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Store persists import run history.
type Store interface {
	Open(path string) error
	Close() error

	CreateRun(source string, partitions int) (*Run, error)
	CompleteRun(id string, status RunStatus, rows int64, errMsg string) error
	GetRun(id string) (*Run, error)
	GetLatestRun() (*Run, error)
	ListRuns(limit int) ([]*Run, error)
}
