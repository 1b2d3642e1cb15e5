package report

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/campaign-insights/internal/model"
)

type engagementAcc struct {
	contacts    int
	responses   int
	conversions int
	revenue     float64
	first       time.Time
	last        time.Time
}

// ClientEngagement aggregates per-client lifetime metrics, scores
// engagement and assigns a value segment. Exactly one row per client seen
// in the window, ordered by client ID. Recency is measured against
// params.AsOfDate, not the run time.
func ClientEngagement(records []model.DeploymentRecord, params model.AnalysisParams) []model.ClientEngagementRow {
	groups := make(map[string]*engagementAcc)

	for _, r := range records {
		acc, ok := groups[r.ClientID]
		if !ok {
			acc = &engagementAcc{first: r.DeploymentDate, last: r.DeploymentDate}
			groups[r.ClientID] = acc
		}
		acc.contacts++
		acc.responses += boolToInt(r.ResponseFlag)
		acc.conversions += boolToInt(r.ConversionFlag)
		acc.revenue += r.Revenue
		if r.DeploymentDate.Before(acc.first) {
			acc.first = r.DeploymentDate
		}
		if r.DeploymentDate.After(acc.last) {
			acc.last = r.DeploymentDate
		}
	}

	rows := make([]model.ClientEngagementRow, 0, len(groups))
	for clientID, acc := range groups {
		contacts := float64(acc.contacts)
		responseRate := float64(acc.responses) / contacts * 100
		conversionRate := float64(acc.conversions) / contacts * 100
		revenuePerContact := acc.revenue / contacts

		rows = append(rows, model.ClientEngagementRow{
			ClientID:             clientID,
			TotalContacts:        acc.contacts,
			TotalResponses:       acc.responses,
			TotalConversions:     acc.conversions,
			TotalRevenue:         round2(acc.revenue),
			FirstContactDate:     acc.first,
			LastContactDate:      acc.last,
			ResponseRate:         round2(responseRate),
			ConversionRate:       round2(conversionRate),
			RevenuePerContact:    round2(revenuePerContact),
			DaysSinceLastContact: model.DaysBetween(acc.last, params.AsOfDate),
			CustomerLifetimeDays: model.DaysBetween(acc.first, acc.last),
			EngagementScore:      engagementScore(responseRate, conversionRate, revenuePerContact),
			ClientSegment:        assignSegment(responseRate, conversionRate, acc.revenue, acc.contacts),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ClientID < rows[j].ClientID })
	return rows
}

// engagementScore is the weighted composite of response rate, conversion
// rate and capped revenue per contact. The weighting and scaling are fixed
// product constants and must not be renormalized.
func engagementScore(responseRate, conversionRate, revenuePerContact float64) float64 {
	return round2(responseRate*0.3 + conversionRate*0.5 + math.Min(revenuePerContact/100, 1)*100*0.2)
}

// assignSegment applies the segment rules in order; the first matching
// rule wins.
func assignSegment(responseRate, conversionRate, totalRevenue float64, totalContacts int) model.ClientSegment {
	switch {
	case conversionRate >= 10 && totalRevenue >= 1000:
		return model.SegmentHighValue
	case conversionRate >= 5 || totalRevenue >= 500:
		return model.SegmentMediumValue
	case responseRate >= 20:
		return model.SegmentEngagedNonConverter
	case totalContacts >= 10:
		return model.SegmentOverContacted
	default:
		return model.SegmentLowEngagement
	}
}
