package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusValidating  RunStatus = "validating"
	RunStatusAnnotating  RunStatus = "annotating"
	RunStatusAggregating RunStatus = "aggregating"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// PhaseStatus represents the state of a single pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// Run represents a single analysis run over one input window.
type Run struct {
	ID        string         `json:"id"`
	Params    AnalysisParams `json:"params"`
	Status    RunStatus      `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RunPhase tracks one phase of a run in the store.
type RunPhase struct {
	ID        string      `json:"id"`
	RunID     string      `json:"run_id"`
	Name      string      `json:"name"`
	Status    PhaseStatus `json:"status"`
	StartedAt time.Time   `json:"started_at"`
}

// PhaseResult holds the outcome of a completed pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RecordError describes a single rejected input record.
type RecordError struct {
	TacticID string `json:"tactic_id"`
	Reason   string `json:"reason"`
}

// ValidationReport summarizes input screening for a run. Records outside
// the analysis window are filtered, not rejected.
type ValidationReport struct {
	TotalRecords    int            `json:"total_records"`
	AcceptedRecords int            `json:"accepted_records"`
	OutOfWindow     int            `json:"out_of_window"`
	RejectedRecords int            `json:"rejected_records"`
	RejectedByReason map[string]int `json:"rejected_by_reason,omitempty"`
	Errors          []RecordError  `json:"errors,omitempty"`
}

// AnalysisResult is the full materialized output of a run: the five result
// tables, the monthly trends supplement and the headline summary. Either a
// full window's tables are produced, or none are.
type AnalysisResult struct {
	RunID       string                   `json:"run_id"`
	Params      AnalysisParams           `json:"params"`
	Validation  ValidationReport         `json:"validation"`
	Annotations []FrequencyAnnotation    `json:"annotations,omitempty"`
	Performance []CampaignPerformanceRow `json:"campaign_performance"`
	Impact      []FrequencyImpactRow     `json:"frequency_impact"`
	Engagement  []ClientEngagementRow    `json:"client_engagement"`
	Optimal     []OptimalFrequencyRow    `json:"optimal_frequency"`
	Trends      []MonthlyTrendRow        `json:"monthly_trends"`
	Summary     RunSummary               `json:"summary"`
	Phases      []PhaseResult            `json:"phases,omitempty"`
}
