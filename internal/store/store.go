// Package store persists analysis runs, their phase history and result
// tables.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-insights/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analysis pipeline.
// SaveResult is all-or-nothing: it persists the result tables and marks
// the run complete in one transaction, or leaves nothing behind.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.AnalysisParams) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	FailRun(ctx context.Context, runID string, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Phases
	CreatePhase(ctx context.Context, runID string, name string) (*model.RunPhase, error)
	CompletePhase(ctx context.Context, phaseID string, result *model.PhaseResult) error

	// Results
	SaveResult(ctx context.Context, result *model.AnalysisResult) error
	GetResult(ctx context.Context, runID string) (*model.AnalysisResult, error)
	ListAnnotations(ctx context.Context, runID string, limit, offset int) ([]model.FrequencyAnnotation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
