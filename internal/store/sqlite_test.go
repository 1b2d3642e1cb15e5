package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-insights/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "insights.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sqliteParams() model.AnalysisParams {
	return model.DefaultParams(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
}

func TestSQLiteRunLifecycle(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, sqliteParams())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusAggregating))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunStatusAggregating, got.Status)
	assert.Equal(t, sqliteParams().EndDate, got.Params.EndDate)
	assert.Equal(t, model.PolicyStrict, got.Params.Policy)

	require.NoError(t, st.FailRun(ctx, run.ID, "frequency phase blew up"))
	got, err = st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "frequency phase blew up", got.Error)
}

func TestSQLiteRunNotFound(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	_, err := st.GetRun(ctx, "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, st.UpdateRunStatus(ctx, "does-not-exist", model.RunStatusComplete))
	assert.Error(t, st.FailRun(ctx, "does-not-exist", "boom"))
}

func TestSQLiteListRuns(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := st.CreateRun(ctx, sqliteParams())
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}
	require.NoError(t, st.UpdateRunStatus(ctx, ids[1], model.RunStatusComplete))

	t.Run("all", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		assert.Len(t, runs, 3)
	})

	t.Run("by status", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, ids[1], runs[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}

func TestSQLitePhases(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, sqliteParams())
	require.NoError(t, err)

	phase, err := st.CreatePhase(ctx, run.ID, "frequency")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusRunning, phase.Status)

	require.NoError(t, st.CompletePhase(ctx, phase.ID, &model.PhaseResult{
		Name:     "frequency",
		Status:   model.PhaseStatusComplete,
		Duration: 12,
		Metadata: map[string]any{"annotations": 4},
	}))

	assert.Error(t, st.CompletePhase(ctx, "does-not-exist", &model.PhaseResult{Status: model.PhaseStatusComplete}))
}

func TestSQLiteSaveAndGetResult(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, sqliteParams())
	require.NoError(t, err)

	gap := 20
	result := &model.AnalysisResult{
		RunID:  run.ID,
		Params: sqliteParams(),
		Validation: model.ValidationReport{
			TotalRecords:    3,
			AcceptedRecords: 3,
		},
		Annotations: []model.FrequencyAnnotation{
			{TacticID: "T1", ClientID: "C1", ContactNumber: 1, ContactsLast30d: 0},
			{TacticID: "T2", ClientID: "C1", ContactNumber: 2, DaysSinceLastContact: &gap, ContactsLast30d: 1, ContactsLast60d: 1, ContactsLast90d: 1},
			{TacticID: "T3", ClientID: "C2", ContactNumber: 1},
		},
		Performance: []model.CampaignPerformanceRow{
			{CampaignID: "CMP-A", Channel: "email", TotalDeployments: 3},
		},
		Summary: model.RunSummary{TotalDeployments: 3},
	}

	require.NoError(t, st.SaveResult(ctx, result))

	got, err := st.GetResult(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.RunID)
	assert.Equal(t, 3, got.Validation.TotalRecords)
	require.Len(t, got.Performance, 1)
	assert.Equal(t, "CMP-A", got.Performance[0].CampaignID)
	// Annotations live in their own table, not in the result document.
	assert.Nil(t, got.Annotations)

	runAfter, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, runAfter.Status)

	annotations, err := st.ListAnnotations(ctx, run.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, annotations, 3)
	assert.Equal(t, "T1", annotations[0].TacticID)
	assert.Nil(t, annotations[0].DaysSinceLastContact)
	require.NotNil(t, annotations[1].DaysSinceLastContact)
	assert.Equal(t, 20, *annotations[1].DaysSinceLastContact)
	assert.Equal(t, "T3", annotations[2].TacticID)

	t.Run("pagination", func(t *testing.T) {
		page, err := st.ListAnnotations(ctx, run.ID, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "T2", page[0].TacticID)
	})
}

func TestSQLiteSaveResultUnknownRun(t *testing.T) {
	st := newTestSQLite(t)

	err := st.SaveResult(context.Background(), &model.AnalysisResult{RunID: "nope"})
	require.Error(t, err)

	// The failed transaction left nothing behind.
	got, err := st.GetResult(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteGetResultMissing(t *testing.T) {
	st := newTestSQLite(t)

	got, err := st.GetResult(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
