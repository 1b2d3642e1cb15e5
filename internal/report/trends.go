package report

import (
	"sort"

	"github.com/sells-group/campaign-insights/internal/model"
)

type trendKey struct {
	yearMonth string
	channel   string
}

type trendAcc struct {
	deployments int
	clients     map[string]struct{}
	responses   int
	conversions int
	revenue     float64
}

// MonthlyTrends aggregates deployments by calendar month and channel,
// ordered by (year_month, channel).
func MonthlyTrends(records []model.DeploymentRecord) []model.MonthlyTrendRow {
	groups := make(map[trendKey]*trendAcc)

	for _, r := range records {
		key := trendKey{r.DeploymentDate.Format("2006-01"), r.Channel}
		acc, ok := groups[key]
		if !ok {
			acc = &trendAcc{clients: make(map[string]struct{})}
			groups[key] = acc
		}
		acc.deployments++
		acc.clients[r.ClientID] = struct{}{}
		acc.responses += boolToInt(r.ResponseFlag)
		acc.conversions += boolToInt(r.ConversionFlag)
		acc.revenue += r.Revenue
	}

	rows := make([]model.MonthlyTrendRow, 0, len(groups))
	for key, acc := range groups {
		rows = append(rows, model.MonthlyTrendRow{
			YearMonth:      key.yearMonth,
			Channel:        key.channel,
			Deployments:    acc.deployments,
			UniqueClients:  len(acc.clients),
			ResponseRate:   pct(float64(acc.responses), float64(acc.deployments)),
			ConversionRate: pct(float64(acc.conversions), float64(acc.deployments)),
			TotalRevenue:   round2(acc.revenue),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].YearMonth != rows[j].YearMonth {
			return rows[i].YearMonth < rows[j].YearMonth
		}
		return rows[i].Channel < rows[j].Channel
	})
	return rows
}
