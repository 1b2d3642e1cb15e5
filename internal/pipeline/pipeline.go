// Package pipeline orchestrates a full analysis run: input screening, the
// frequency engine, and the aggregate report tables.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/campaign-insights/internal/frequency"
	"github.com/sells-group/campaign-insights/internal/ingest"
	"github.com/sells-group/campaign-insights/internal/model"
	"github.com/sells-group/campaign-insights/internal/report"
	"github.com/sells-group/campaign-insights/internal/store"
)

// Pipeline runs the analysis over a materialized input set. Results are
// all-or-nothing: a failed phase fails the run and nothing is persisted.
type Pipeline struct {
	store  store.Store
	engine *frequency.Engine
}

// New creates a Pipeline backed by the given store.
func New(st store.Store, workers int) *Pipeline {
	return &Pipeline{
		store:  st,
		engine: frequency.New(workers),
	}
}

// Run executes the pipeline over records for one analysis window.
func (p *Pipeline) Run(ctx context.Context, records []model.DeploymentRecord, params model.AnalysisParams) (*model.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("start", params.StartDate.Format(model.DateLayout)),
		zap.String("end", params.EndDate.Format(model.DateLayout)),
	)
	log.Info("pipeline: starting analysis", zap.Int("records", len(records)))

	run, err := p.store.CreateRun(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	result, err := p.execute(ctx, run, records, params, log)
	if err != nil {
		if statusErr := p.store.FailRun(ctx, run.ID, err.Error()); statusErr != nil {
			log.Warn("pipeline: failed to mark run failed", zap.Error(statusErr))
		}
		return nil, err
	}

	if err := p.store.SaveResult(ctx, result); err != nil {
		if statusErr := p.store.FailRun(ctx, run.ID, err.Error()); statusErr != nil {
			log.Warn("pipeline: failed to mark run failed", zap.Error(statusErr))
		}
		return nil, eris.Wrap(err, "pipeline: save result")
	}

	log.Info("pipeline: analysis complete",
		zap.String("run_id", run.ID),
		zap.Int("accepted", result.Validation.AcceptedRecords),
		zap.Int("campaigns", len(result.Performance)),
		zap.Int("clients", len(result.Engagement)),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, run *model.Run, records []model.DeploymentRecord, params model.AnalysisParams, log *zap.Logger) (*model.AnalysisResult, error) {
	result := &model.AnalysisResult{
		RunID:  run.ID,
		Params: params,
	}

	setStatus := func(status model.RunStatus) {
		if err := p.store.UpdateRunStatus(ctx, run.ID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	var phasesMu sync.Mutex
	trackPhase := func(name string, fn func() (map[string]any, error)) error {
		phase, phaseErr := p.store.CreatePhase(ctx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		meta, fnErr := fn()
		pr := model.PhaseResult{
			Name:     name,
			Duration: time.Since(start).Milliseconds(),
			Status:   model.PhaseStatusComplete,
			Metadata: meta,
		}
		if fnErr != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", pr.Duration),
				zap.Error(fnErr),
			)
		} else {
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", pr.Duration),
			)
		}

		if phase != nil {
			if completeErr := p.store.CompletePhase(ctx, phase.ID, &pr); completeErr != nil {
				log.Warn("pipeline: failed to complete phase", zap.Error(completeErr))
			}
		}
		phasesMu.Lock()
		result.Phases = append(result.Phases, pr)
		phasesMu.Unlock()
		return fnErr
	}

	// Phase 1: input screening.
	setStatus(model.RunStatusValidating)
	var accepted []model.DeploymentRecord
	if err := trackPhase("screen", func() (map[string]any, error) {
		var screenErr error
		accepted, result.Validation, screenErr = ingest.Screen(records, params)
		return map[string]any{
			"accepted":      result.Validation.AcceptedRecords,
			"rejected":      result.Validation.RejectedRecords,
			"out_of_window": result.Validation.OutOfWindow,
		}, screenErr
	}); err != nil {
		return nil, err
	}

	// Phase 2: frequency engine.
	setStatus(model.RunStatusAnnotating)
	var byTactic map[string]model.FrequencyAnnotation
	if err := trackPhase("frequency", func() (map[string]any, error) {
		annotations, annErr := p.engine.Annotate(ctx, accepted)
		if annErr != nil {
			return nil, annErr
		}
		result.Annotations = annotations
		byTactic = frequency.ByTactic(annotations)
		return map[string]any{"annotations": len(annotations)}, nil
	}); err != nil {
		return nil, err
	}

	// Phase 3: aggregations, independent of one another.
	setStatus(model.RunStatusAggregating)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return trackPhase("campaign_performance", func() (map[string]any, error) {
			if err := gCtx.Err(); err != nil {
				return nil, err
			}
			result.Performance = report.CampaignPerformance(accepted)
			return map[string]any{"rows": len(result.Performance)}, nil
		})
	})
	g.Go(func() error {
		return trackPhase("frequency_impact", func() (map[string]any, error) {
			rows, impactErr := report.FrequencyImpact(accepted, byTactic, params)
			if impactErr != nil {
				return nil, impactErr
			}
			result.Impact = rows
			return map[string]any{"rows": len(rows)}, nil
		})
	})
	g.Go(func() error {
		return trackPhase("client_engagement", func() (map[string]any, error) {
			if err := gCtx.Err(); err != nil {
				return nil, err
			}
			result.Engagement = report.ClientEngagement(accepted, params)
			return map[string]any{"rows": len(result.Engagement)}, nil
		})
	})
	g.Go(func() error {
		return trackPhase("optimal_frequency", func() (map[string]any, error) {
			rows, optErr := report.OptimalFrequency(accepted, byTactic, params)
			if optErr != nil {
				return nil, optErr
			}
			result.Optimal = rows
			return map[string]any{"rows": len(rows)}, nil
		})
	})
	g.Go(func() error {
		return trackPhase("monthly_trends", func() (map[string]any, error) {
			if err := gCtx.Err(); err != nil {
				return nil, err
			}
			result.Trends = report.MonthlyTrends(accepted)
			return map[string]any{"rows": len(result.Trends)}, nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Summary = report.Summarize(accepted, result.Performance, result.Optimal)
	return result, nil
}
