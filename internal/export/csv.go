// Package export writes the result tables of an analysis run to tabular
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-insights/internal/model"
)

// Table is one exportable result table as ordered columns and rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Tables flattens an AnalysisResult into its exportable tables, in a fixed
// order. Annotations are included only when the result carries them.
func Tables(result *model.AnalysisResult) []Table {
	tables := []Table{
		performanceTable(result.Performance),
		impactTable(result.Impact),
		engagementTable(result.Engagement),
		optimalTable(result.Optimal),
		trendsTable(result.Trends),
	}
	if len(result.Annotations) > 0 {
		tables = append(tables, annotationTable(result.Annotations))
	}
	return tables
}

// WriteCSVDir writes each result table as <dir>/<table>.csv.
func WriteCSVDir(result *model.AnalysisResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}
	for _, t := range Tables(result) {
		if err := writeCSV(t, filepath.Join(dir, t.Name+".csv")); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Columns); err != nil {
		return eris.Wrapf(err, "export: write header %s", t.Name)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row %s", t.Name)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "export: flush %s", t.Name)
}

func performanceTable(rows []model.CampaignPerformanceRow) Table {
	t := Table{
		Name: "campaign_performance",
		Columns: []string{
			"campaign_id", "campaign_name", "channel", "offer_type",
			"total_deployments", "unique_clients", "total_responses", "total_conversions",
			"total_revenue", "avg_revenue_per_deployment", "response_rate", "conversion_rate",
			"response_to_conversion_rate", "revenue_per_client", "avg_days_to_response", "avg_days_to_conversion",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CampaignID, r.CampaignName, r.Channel, r.OfferType,
			strconv.Itoa(r.TotalDeployments), strconv.Itoa(r.UniqueClients),
			strconv.Itoa(r.TotalResponses), strconv.Itoa(r.TotalConversions),
			formatFloat(r.TotalRevenue), formatFloat(r.AvgRevenuePerDeployment),
			formatFloat(r.ResponseRate), formatFloat(r.ConversionRate),
			formatNullable(r.ResponseToConversionRate), formatFloat(r.RevenuePerClient),
			formatNullable(r.AvgDaysToResponse), formatNullable(r.AvgDaysToConversion),
		})
	}
	return t
}

func impactTable(rows []model.FrequencyImpactRow) Table {
	t := Table{
		Name: "frequency_impact",
		Columns: []string{
			"contacts_last_30d", "deployments_count", "avg_response_rate",
			"avg_conversion_rate", "avg_revenue", "revenue_stddev", "confidence_level",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.ContactsLast30d), strconv.Itoa(r.DeploymentsCount),
			formatFloat(r.AvgResponseRate), formatFloat(r.AvgConversionRate),
			formatFloat(r.AvgRevenue), formatNullable(r.RevenueStddev), string(r.Confidence),
		})
	}
	return t
}

func engagementTable(rows []model.ClientEngagementRow) Table {
	t := Table{
		Name: "client_engagement",
		Columns: []string{
			"client_id", "total_contacts", "total_responses", "total_conversions",
			"total_revenue", "first_contact_date", "last_contact_date",
			"response_rate", "conversion_rate", "revenue_per_contact",
			"days_since_last_contact", "customer_lifetime_days",
			"engagement_score", "client_segment",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ClientID, strconv.Itoa(r.TotalContacts), strconv.Itoa(r.TotalResponses),
			strconv.Itoa(r.TotalConversions), formatFloat(r.TotalRevenue),
			r.FirstContactDate.Format(model.DateLayout), r.LastContactDate.Format(model.DateLayout),
			formatFloat(r.ResponseRate), formatFloat(r.ConversionRate), formatFloat(r.RevenuePerContact),
			strconv.Itoa(r.DaysSinceLastContact), strconv.Itoa(r.CustomerLifetimeDays),
			formatFloat(r.EngagementScore), string(r.ClientSegment),
		})
	}
	return t
}

func optimalTable(rows []model.OptimalFrequencyRow) Table {
	t := Table{
		Name: "optimal_frequency",
		Columns: []string{
			"channel", "contacts_last_30d", "sample_size", "response_rate",
			"conversion_rate", "avg_revenue", "revenue_stddev",
			"conversion_lift_pct", "revenue_rank", "recommended",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Channel, strconv.Itoa(r.ContactsLast30d), strconv.Itoa(r.SampleSize),
			formatFloat(r.ResponseRate), formatFloat(r.ConversionRate),
			formatFloat(r.AvgRevenue), formatNullable(r.RevenueStddev),
			formatNullable(r.ConversionLiftPct), strconv.Itoa(r.RevenueRank),
			strconv.FormatBool(r.Recommended),
		})
	}
	return t
}

func trendsTable(rows []model.MonthlyTrendRow) Table {
	t := Table{
		Name: "monthly_trends",
		Columns: []string{
			"year_month", "channel", "deployments", "unique_clients",
			"response_rate", "conversion_rate", "total_revenue",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.YearMonth, r.Channel, strconv.Itoa(r.Deployments), strconv.Itoa(r.UniqueClients),
			formatFloat(r.ResponseRate), formatFloat(r.ConversionRate), formatFloat(r.TotalRevenue),
		})
	}
	return t
}

func annotationTable(rows []model.FrequencyAnnotation) Table {
	t := Table{
		Name: "frequency_annotations",
		Columns: []string{
			"tactic_id", "client_id", "contact_number", "days_since_last_contact",
			"contacts_last_30d", "contacts_last_60d", "contacts_last_90d",
		},
	}
	for _, r := range rows {
		gap := ""
		if r.DaysSinceLastContact != nil {
			gap = strconv.Itoa(*r.DaysSinceLastContact)
		}
		t.Rows = append(t.Rows, []string{
			r.TacticID, r.ClientID, strconv.Itoa(r.ContactNumber), gap,
			strconv.Itoa(r.ContactsLast30d), strconv.Itoa(r.ContactsLast60d), strconv.Itoa(r.ContactsLast90d),
		})
	}
	return t
}

// formatFloat renders a value with two decimals, the precision of every
// rate and currency column.
func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatNullable renders nil as an empty cell so undefined ratios stay
// distinguishable from true zeros.
func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
