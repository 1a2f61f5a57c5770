package domain

import "time"

// RunStatus is the lifecycle state of one pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunKind identifies which pipeline path a run executed.
type RunKind string

const (
	RunKindCategorize RunKind = "CATEGORIZE"
	RunKindForecast   RunKind = "FORECAST"
	RunKindFull       RunKind = "FULL"
)

// PipelineRun records one execution of a pipeline path for auditing.
type PipelineRun struct {
	RunID     string
	Kind      RunKind
	InputPath string

	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus

	// Error holds the failure message for FAILED runs.
	Error string

	// RecordsIn counts rows read from the input; RecordsOut counts
	// records produced by the run's final stage.
	RecordsIn  int
	RecordsOut int
}
