package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/campaign-insights/internal/export"
	"github.com/sells-group/campaign-insights/internal/ingest"
	"github.com/sells-group/campaign-insights/internal/model"
	"github.com/sells-group/campaign-insights/internal/pipeline"
	"github.com/sells-group/campaign-insights/internal/report"
)

var (
	analyzeInput       string
	analyzeStart       string
	analyzeEnd         string
	analyzeAsOf        string
	analyzePolicy      string
	analyzeParamsFile  string
	analyzeWorkers     int
	analyzeOutputDir   string
	analyzeFormat      string
	analyzeAnnotations bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline over a deployment CSV",
	Long: `Reads a campaign deployment export, screens it against the input schema,
computes contact-frequency annotations and builds the result tables.

Examples:
  # 18-month window ending today, results stored and printed
  campaign-insights analyze --input deployments.csv

  # Explicit window, skip invalid rows, export tables as CSV
  campaign-insights analyze --input deployments.csv \
    --start 2024-01-01 --end 2025-06-30 --policy skip --output-dir out

  # Single XLSX workbook including raw annotations
  campaign-insights analyze --input deployments.csv \
    --output-dir out --format xlsx --annotations`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		params, err := buildParams()
		if err != nil {
			return err
		}

		records, err := ingest.ReadDeploymentsCSV(analyzeInput)
		if err != nil {
			return err
		}
		zap.L().Info("parsed deployment csv",
			zap.Int("records", len(records)),
			zap.String("input", analyzeInput),
		)

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		result, err := pipeline.New(st, params.Workers).Run(ctx, records, params)
		if err != nil {
			return err
		}

		fmt.Println(report.RenderSummary(result.Summary, params))
		fmt.Printf("run id: %s\n", result.RunID)

		if analyzeOutputDir != "" {
			if !analyzeAnnotations {
				result.Annotations = nil
			}
			if err := exportResult(result, analyzeOutputDir, analyzeFormat); err != nil {
				return err
			}
			fmt.Printf("tables written to %s\n", analyzeOutputDir)
		}
		return nil
	},
}

// buildParams layers run parameters: config defaults, then an optional
// params file, then flags.
func buildParams() (model.AnalysisParams, error) {
	end := model.Midnight(time.Now())
	if analyzeEnd != "" {
		d, err := time.Parse(model.DateLayout, analyzeEnd)
		if err != nil {
			return model.AnalysisParams{}, eris.Wrapf(err, "analyze: parse --end %q", analyzeEnd)
		}
		end = model.Midnight(d)
	}

	params := model.DefaultParams(end)
	params.StartDate = end.AddDate(0, -cfg.Analysis.WindowMonths, 0)
	params.MinBucketSample = cfg.Analysis.MinBucketSample
	params.MinChannelSample = cfg.Analysis.MinChannelSample
	params.HighConfidenceSample = cfg.Analysis.HighConfidenceSample
	params.MediumConfidenceSample = cfg.Analysis.MediumConfidenceSample
	params.Policy = model.ValidationPolicy(cfg.Analysis.ValidationPolicy)
	params.Workers = cfg.Analysis.Workers

	if analyzeParamsFile != "" {
		data, err := os.ReadFile(analyzeParamsFile)
		if err != nil {
			return params, eris.Wrap(err, "analyze: read params file")
		}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return params, eris.Wrap(err, "analyze: parse params file")
		}
	}

	if analyzeStart != "" {
		d, err := time.Parse(model.DateLayout, analyzeStart)
		if err != nil {
			return params, eris.Wrapf(err, "analyze: parse --start %q", analyzeStart)
		}
		params.StartDate = model.Midnight(d)
	}
	if analyzeAsOf != "" {
		d, err := time.Parse(model.DateLayout, analyzeAsOf)
		if err != nil {
			return params, eris.Wrapf(err, "analyze: parse --as-of %q", analyzeAsOf)
		}
		params.AsOfDate = model.Midnight(d)
	}
	if analyzePolicy != "" {
		params.Policy = model.ValidationPolicy(analyzePolicy)
	}
	if analyzeWorkers > 0 {
		params.Workers = analyzeWorkers
	}

	return params, params.Validate()
}

func exportResult(result *model.AnalysisResult, dir, format string) error {
	switch format {
	case "csv", "":
		return export.WriteCSVDir(result, dir)
	case "xlsx":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "analyze: create output dir")
		}
		return export.WriteXLSX(result, dir+"/campaign_insights.xlsx")
	default:
		return eris.Errorf("analyze: unknown export format %q", format)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "deployment CSV path (required)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "analysis window start (YYYY-MM-DD, default end minus configured window)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "analysis window end (YYYY-MM-DD, default today)")
	analyzeCmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "reference date for recency metrics (default window end)")
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "validation policy: strict or skip")
	analyzeCmd.Flags().StringVar(&analyzeParamsFile, "params-file", "", "YAML file overriding analysis parameters")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "frequency engine worker count")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "directory for exported result tables")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "csv", "export format: csv or xlsx")
	analyzeCmd.Flags().BoolVar(&analyzeAnnotations, "annotations", false, "include raw frequency annotations in the export")
	_ = analyzeCmd.MarkFlagRequired("input")
}
