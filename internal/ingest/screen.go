package ingest

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-insights/internal/model"
)

// maxReportedErrors caps the per-record errors carried in the report; the
// per-reason counts always cover every rejection.
const maxReportedErrors = 100

// Screen filters records to the analysis window and applies the schema
// rules. Under PolicyStrict the first violation fails the run with the
// offending tactic ID; under PolicySkip violations are excluded and
// counted. Out-of-window records are filtered silently in both modes.
func Screen(records []model.DeploymentRecord, params model.AnalysisParams) ([]model.DeploymentRecord, model.ValidationReport, error) {
	report := model.ValidationReport{
		TotalRecords:     len(records),
		RejectedByReason: make(map[string]int),
	}

	accepted := make([]model.DeploymentRecord, 0, len(records))
	for _, r := range records {
		if reason := violation(r); reason != "" {
			if params.Policy == model.PolicyStrict || params.Policy == "" {
				return nil, report, eris.Errorf("ingest: record %s rejected: %s", r.TacticID, reason)
			}
			report.RejectedRecords++
			report.RejectedByReason[reason]++
			if len(report.Errors) < maxReportedErrors {
				report.Errors = append(report.Errors, model.RecordError{TacticID: r.TacticID, Reason: reason})
			}
			continue
		}
		if !params.InWindow(r.DeploymentDate) {
			report.OutOfWindow++
			continue
		}
		accepted = append(accepted, r)
	}
	report.AcceptedRecords = len(accepted)

	if report.RejectedRecords > 0 {
		zap.L().Warn("ingest: records rejected by schema screen",
			zap.Int("rejected", report.RejectedRecords),
			zap.Int("accepted", report.AcceptedRecords),
		)
	}
	return accepted, report, nil
}

// violation returns the schema rule a record breaks, or "" when clean.
func violation(r model.DeploymentRecord) string {
	switch {
	case r.TacticID == "":
		return "missing tactic_id"
	case r.ClientID == "":
		return "missing client_id"
	case r.CampaignID == "":
		return "missing campaign_id"
	case r.DeploymentDate.IsZero():
		return "missing deployment_date"
	case r.ConversionFlag && !r.ResponseFlag:
		return "conversion without response"
	case r.ResponseDate != nil && !r.ResponseFlag:
		return "response_date without response_flag"
	case r.ResponseFlag && r.ResponseDate == nil:
		return "response_flag without response_date"
	case r.ConversionDate != nil && !r.ConversionFlag:
		return "conversion_date without conversion_flag"
	case r.ConversionFlag && r.ConversionDate == nil:
		return "conversion_flag without conversion_date"
	case r.Revenue < 0:
		return "negative revenue"
	case r.Revenue > 0 && !r.ConversionFlag:
		return "revenue without conversion"
	default:
		return ""
	}
}
