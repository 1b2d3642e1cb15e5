package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-insights/internal/config"
	"github.com/sells-group/campaign-insights/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", Path: "test.db"},
		Analysis: config.AnalysisConfig{
			WindowMonths:           18,
			MinBucketSample:        30,
			MinChannelSample:       100,
			HighConfidenceSample:   1000,
			MediumConfidenceSample: 100,
			ValidationPolicy:       "strict",
			Workers:                8,
		},
		Server: config.ServerConfig{Port: 8080, RatePerSecond: 100, RateBurst: 100},
	}
}

func resetAnalyzeFlags() {
	analyzeStart = ""
	analyzeEnd = ""
	analyzeAsOf = ""
	analyzePolicy = ""
	analyzeParamsFile = ""
	analyzeWorkers = 0
}

func TestBuildParamsDefaults(t *testing.T) {
	cfg = testConfig()
	resetAnalyzeFlags()
	t.Cleanup(resetAnalyzeFlags)

	params, err := buildParams()
	require.NoError(t, err)

	today := model.Midnight(time.Now())
	assert.Equal(t, today, params.EndDate)
	assert.Equal(t, today.AddDate(0, -18, 0), params.StartDate)
	assert.Equal(t, today, params.AsOfDate)
	assert.Equal(t, 30, params.MinBucketSample)
	assert.Equal(t, model.PolicyStrict, params.Policy)
	assert.Equal(t, 8, params.Workers)
}

func TestBuildParamsFlags(t *testing.T) {
	cfg = testConfig()
	resetAnalyzeFlags()
	t.Cleanup(resetAnalyzeFlags)

	analyzeStart = "2024-01-01"
	analyzeEnd = "2025-06-30"
	analyzeAsOf = "2025-07-15"
	analyzePolicy = "skip"
	analyzeWorkers = 4

	params, err := buildParams()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), params.StartDate)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), params.EndDate)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), params.AsOfDate)
	assert.Equal(t, model.PolicySkip, params.Policy)
	assert.Equal(t, 4, params.Workers)
}

func TestBuildParamsFile(t *testing.T) {
	cfg = testConfig()
	resetAnalyzeFlags()
	t.Cleanup(resetAnalyzeFlags)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_bucket_sample: 10
min_channel_sample: 50
validation_policy: skip
`), 0o644))
	analyzeParamsFile = path

	params, err := buildParams()
	require.NoError(t, err)
	assert.Equal(t, 10, params.MinBucketSample)
	assert.Equal(t, 50, params.MinChannelSample)
	assert.Equal(t, model.PolicySkip, params.Policy)
	// Untouched values keep their configured defaults.
	assert.Equal(t, 1000, params.HighConfidenceSample)
}

func TestBuildParamsFlagBeatsFile(t *testing.T) {
	cfg = testConfig()
	resetAnalyzeFlags()
	t.Cleanup(resetAnalyzeFlags)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validation_policy: skip\n"), 0o644))
	analyzeParamsFile = path
	analyzePolicy = "strict"

	params, err := buildParams()
	require.NoError(t, err)
	assert.Equal(t, model.PolicyStrict, params.Policy)
}

func TestBuildParamsErrors(t *testing.T) {
	cfg = testConfig()
	resetAnalyzeFlags()
	t.Cleanup(resetAnalyzeFlags)

	t.Run("bad end date", func(t *testing.T) {
		analyzeEnd = "30-06-2025"
		defer resetAnalyzeFlags()
		_, err := buildParams()
		require.Error(t, err)
	})

	t.Run("inverted window", func(t *testing.T) {
		analyzeStart = "2025-12-01"
		analyzeEnd = "2025-01-01"
		defer resetAnalyzeFlags()
		_, err := buildParams()
		require.Error(t, err)
	})

	t.Run("unknown policy", func(t *testing.T) {
		analyzePolicy = "lenient"
		defer resetAnalyzeFlags()
		_, err := buildParams()
		require.Error(t, err)
	})
}

func TestExportResult(t *testing.T) {
	result := &model.AnalysisResult{RunID: "run-1"}

	t.Run("csv", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		require.NoError(t, exportResult(result, dir, "csv"))
		_, err := os.Stat(filepath.Join(dir, "campaign_performance.csv"))
		assert.NoError(t, err)
	})

	t.Run("xlsx", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		require.NoError(t, exportResult(result, dir, "xlsx"))
		_, err := os.Stat(filepath.Join(dir, "campaign_insights.xlsx"))
		assert.NoError(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		require.Error(t, exportResult(result, t.TempDir(), "parquet"))
	})
}
