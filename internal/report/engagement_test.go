package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-insights/internal/model"
)

func TestClientEngagement(t *testing.T) {
	records := []model.DeploymentRecord{
		outcome("T1", "C1", "CMP-A", "email", 10, true, true, 600),
		outcome("T2", "C1", "CMP-A", "email", 40, true, true, 600),
		outcome("T3", "C1", "CMP-B", "email", 100, false, false, 0),
		outcome("T4", "C2", "CMP-A", "email", 50, false, false, 0),
	}
	params := testParams()
	params.AsOfDate = day(130)

	rows := ClientEngagement(records, params)
	require.Len(t, rows, 2)

	c1 := rows[0]
	assert.Equal(t, "C1", c1.ClientID)
	assert.Equal(t, 3, c1.TotalContacts)
	assert.Equal(t, 2, c1.TotalResponses)
	assert.Equal(t, 2, c1.TotalConversions)
	assert.Equal(t, 1200.0, c1.TotalRevenue)
	assert.Equal(t, day(10), c1.FirstContactDate)
	assert.Equal(t, day(100), c1.LastContactDate)
	assert.Equal(t, 66.67, c1.ResponseRate)
	assert.Equal(t, 66.67, c1.ConversionRate)
	assert.Equal(t, 400.0, c1.RevenuePerContact)
	assert.Equal(t, 30, c1.DaysSinceLastContact)
	assert.Equal(t, 90, c1.CustomerLifetimeDays)
	// 66.67×0.3 + 66.67×0.5 + min(400/100, 1)×100×0.2 on unrounded rates.
	assert.Equal(t, 73.33, c1.EngagementScore)
	assert.Equal(t, model.SegmentHighValue, c1.ClientSegment)

	c2 := rows[1]
	assert.Equal(t, "C2", c2.ClientID)
	assert.Equal(t, 1, c2.TotalContacts)
	assert.Equal(t, 0.0, c2.EngagementScore)
	assert.Equal(t, 0, c2.CustomerLifetimeDays)
	assert.Equal(t, model.SegmentLowEngagement, c2.ClientSegment)
}

func TestEngagementScoreCapsRevenue(t *testing.T) {
	// Revenue per contact above 100 contributes the full 20 points.
	assert.Equal(t, 20.0, engagementScore(0, 0, 5000))
	assert.Equal(t, 20.0, engagementScore(0, 0, 100))
	assert.Equal(t, 10.0, engagementScore(0, 0, 50))
	assert.Equal(t, 100.0, engagementScore(100, 100, 100))
}

func TestAssignSegment(t *testing.T) {
	tests := []struct {
		name           string
		responseRate   float64
		conversionRate float64
		totalRevenue   float64
		totalContacts  int
		want           model.ClientSegment
	}{
		{"high value", 50, 10, 1000, 4, model.SegmentHighValue},
		{"high conversion low revenue is medium", 50, 15, 800, 4, model.SegmentMediumValue},
		{"high revenue low conversion is medium", 10, 2, 600, 4, model.SegmentMediumValue},
		{"conversion alone reaches medium", 0, 5, 0, 4, model.SegmentMediumValue},
		{"responder without conversions", 25, 0, 100, 4, model.SegmentEngagedNonConverter},
		{"heavy contact without engagement", 5, 0, 0, 12, model.SegmentOverContacted},
		{"quiet client", 5, 0, 0, 3, model.SegmentLowEngagement},
		{"thresholds are inclusive", 20, 0, 0, 1, model.SegmentEngagedNonConverter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignSegment(tt.responseRate, tt.conversionRate, tt.totalRevenue, tt.totalContacts)
			assert.Equal(t, tt.want, got)
		})
	}
}
