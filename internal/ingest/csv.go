// Package ingest reads deployment records from CSV exports and screens
// them against the input schema before the pipeline runs.
package ingest

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-insights/internal/model"
)

// requiredColumns must be present in the deployment CSV header.
var requiredColumns = []string{
	"TACTIC_ID", "CLIENT_ID", "CAMPAIGN_ID", "DEPLOYMENT_DATE",
	"RESPONSE_FLAG", "CONVERSION_FLAG", "REVENUE",
}

// ReadDeploymentsCSV parses a deployment export. Column order is
// determined by the header row; optional columns (CREATIVE_ID, SEGMENT,
// RESPONSE_DATE, CONVERSION_DATE) may be absent. Rows are returned
// unvalidated; Screen applies the schema rules.
func ReadDeploymentsCSV(path string) ([]model.DeploymentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}
	if len(rows) < 2 {
		return nil, eris.New("ingest: csv has no data rows")
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("ingest: missing required column %q", col)
		}
	}

	records := make([]model.DeploymentRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec, err := parseRow(row, colIdx)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: row %d", n+2)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, colIdx map[string]int) (model.DeploymentRecord, error) {
	rec := model.DeploymentRecord{
		TacticID:     getCol(row, colIdx, "TACTIC_ID"),
		ClientID:     getCol(row, colIdx, "CLIENT_ID"),
		CampaignID:   getCol(row, colIdx, "CAMPAIGN_ID"),
		CampaignName: getCol(row, colIdx, "CAMPAIGN_NAME"),
		Channel:      getCol(row, colIdx, "CHANNEL"),
		CreativeID:   getCol(row, colIdx, "CREATIVE_ID"),
		Segment:      getCol(row, colIdx, "SEGMENT"),
		OfferType:    getCol(row, colIdx, "OFFER_TYPE"),
	}

	if s := getCol(row, colIdx, "DEPLOYMENT_DATE"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return rec, eris.Wrapf(err, "deployment_date %q", s)
		}
		rec.DeploymentDate = d
	}

	var err error
	if rec.ResponseFlag, err = parseFlag(getCol(row, colIdx, "RESPONSE_FLAG")); err != nil {
		return rec, eris.Wrap(err, "response_flag")
	}
	if rec.ConversionFlag, err = parseFlag(getCol(row, colIdx, "CONVERSION_FLAG")); err != nil {
		return rec, eris.Wrap(err, "conversion_flag")
	}

	if s := getCol(row, colIdx, "RESPONSE_DATE"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return rec, eris.Wrapf(err, "response_date %q", s)
		}
		rec.ResponseDate = &d
	}
	if s := getCol(row, colIdx, "CONVERSION_DATE"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return rec, eris.Wrapf(err, "conversion_date %q", s)
		}
		rec.ConversionDate = &d
	}

	if s := getCol(row, colIdx, "REVENUE"); s != "" {
		v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
		if err != nil {
			return rec, eris.Wrapf(err, "revenue %q", s)
		}
		rec.Revenue = v
	}

	return rec, nil
}

// parseDate accepts ISO dates with or without a time component and
// normalizes to UTC midnight.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{model.DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Midnight(t), nil
		}
	}
	return time.Time{}, eris.Errorf("unrecognized date %q", s)
}

// parseFlag accepts 0/1 and true/false; empty means false.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, eris.Errorf("invalid flag value %q", s)
	}
}

func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
