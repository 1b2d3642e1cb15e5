package report

import (
	"sort"

	"github.com/sells-group/campaign-insights/internal/model"
)

type performanceKey struct {
	campaignID   string
	campaignName string
	channel      string
	offerType    string
}

type performanceAcc struct {
	deployments     int
	clients         map[string]struct{}
	responses       int
	conversions     int
	revenue         float64
	daysToResponse  []int
	daysToConversion []int
}

// CampaignPerformance aggregates deployments by
// (campaign_id, campaign_name, channel, offer_type). One row per distinct
// key present in the window, ordered by the grouping key.
func CampaignPerformance(records []model.DeploymentRecord) []model.CampaignPerformanceRow {
	groups := make(map[performanceKey]*performanceAcc)

	for _, r := range records {
		key := performanceKey{r.CampaignID, r.CampaignName, r.Channel, r.OfferType}
		acc, ok := groups[key]
		if !ok {
			acc = &performanceAcc{clients: make(map[string]struct{})}
			groups[key] = acc
		}
		acc.deployments++
		acc.clients[r.ClientID] = struct{}{}
		acc.responses += boolToInt(r.ResponseFlag)
		acc.conversions += boolToInt(r.ConversionFlag)
		acc.revenue += r.Revenue
		if r.ResponseFlag && r.ResponseDate != nil {
			acc.daysToResponse = append(acc.daysToResponse, model.DaysBetween(r.DeploymentDate, *r.ResponseDate))
		}
		if r.ConversionFlag && r.ConversionDate != nil {
			acc.daysToConversion = append(acc.daysToConversion, model.DaysBetween(r.DeploymentDate, *r.ConversionDate))
		}
	}

	rows := make([]model.CampaignPerformanceRow, 0, len(groups))
	for key, acc := range groups {
		row := model.CampaignPerformanceRow{
			CampaignID:              key.campaignID,
			CampaignName:            key.campaignName,
			Channel:                 key.channel,
			OfferType:               key.offerType,
			TotalDeployments:        acc.deployments,
			UniqueClients:           len(acc.clients),
			TotalResponses:          acc.responses,
			TotalConversions:        acc.conversions,
			TotalRevenue:            round2(acc.revenue),
			AvgRevenuePerDeployment: round2(acc.revenue / float64(acc.deployments)),
			ResponseRate:            pct(float64(acc.responses), float64(acc.deployments)),
			ConversionRate:          pct(float64(acc.conversions), float64(acc.deployments)),
			RevenuePerClient:        round2(acc.revenue / float64(len(acc.clients))),
		}
		row.ResponseToConversionRate = pctOrNil(float64(acc.conversions), float64(acc.responses))
		row.AvgDaysToResponse = meanDaysOrNil(acc.daysToResponse)
		row.AvgDaysToConversion = meanDaysOrNil(acc.daysToConversion)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.CampaignID != b.CampaignID {
			return a.CampaignID < b.CampaignID
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.OfferType < b.OfferType
	})
	return rows
}

// meanDaysOrNil averages day counts rounded to two decimals, nil when no
// record carries the metric.
func meanDaysOrNil(days []int) *float64 {
	if len(days) == 0 {
		return nil
	}
	var sum int
	for _, d := range days {
		sum += d
	}
	v := round2(float64(sum) / float64(len(days)))
	return &v
}
