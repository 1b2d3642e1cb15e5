package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// ValidationPolicy decides whether a schema-invalid record fails the whole
// run or is excluded with a count reported.
type ValidationPolicy string

const (
	PolicyStrict ValidationPolicy = "strict"
	PolicySkip   ValidationPolicy = "skip"
)

// DefaultWindowMonths is the default analysis window length.
const DefaultWindowMonths = 18

// AnalysisParams configures a single analysis run. The window is
// [StartDate, EndDate] inclusive; AsOfDate anchors recency metrics and is
// not necessarily the run time.
type AnalysisParams struct {
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	AsOfDate  time.Time `json:"as_of_date" yaml:"as_of_date"`

	MinBucketSample        int `json:"min_bucket_sample" yaml:"min_bucket_sample"`
	MinChannelSample       int `json:"min_channel_sample" yaml:"min_channel_sample"`
	HighConfidenceSample   int `json:"high_confidence_sample" yaml:"high_confidence_sample"`
	MediumConfidenceSample int `json:"medium_confidence_sample" yaml:"medium_confidence_sample"`

	Policy  ValidationPolicy `json:"validation_policy" yaml:"validation_policy"`
	Workers int              `json:"workers,omitempty" yaml:"workers"`
}

// DefaultParams returns analysis parameters anchored at end: an 18-month
// window, standard sample thresholds and strict validation.
func DefaultParams(end time.Time) AnalysisParams {
	end = Midnight(end)
	return AnalysisParams{
		StartDate:              end.AddDate(0, -DefaultWindowMonths, 0),
		EndDate:                end,
		AsOfDate:               end,
		MinBucketSample:        30,
		MinChannelSample:       100,
		HighConfidenceSample:   1000,
		MediumConfidenceSample: 100,
		Policy:                 PolicyStrict,
	}
}

// Validate checks parameter consistency.
func (p AnalysisParams) Validate() error {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return eris.New("params: start and end dates are required")
	}
	if p.EndDate.Before(p.StartDate) {
		return eris.Errorf("params: end date %s before start date %s",
			p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	if p.MinBucketSample < 0 || p.MinChannelSample < 0 {
		return eris.New("params: sample thresholds must be non-negative")
	}
	switch p.Policy {
	case PolicyStrict, PolicySkip, "":
	default:
		return eris.Errorf("params: unknown validation policy %q", p.Policy)
	}
	return nil
}

// InWindow reports whether d falls inside the analysis window.
func (p AnalysisParams) InWindow(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// Midnight truncates t to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference b − a between two
// midnight-normalized dates.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
