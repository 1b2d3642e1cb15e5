package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/campaign-insights/internal/model"
)

const (
	topCampaignCount  = 5
	topFrequencyCount = 10
)

// Summarize computes the headline figures of a run: overall volumes and
// rates, the top campaigns by conversion rate and the top frequency
// buckets by average revenue.
func Summarize(records []model.DeploymentRecord, performance []model.CampaignPerformanceRow, optimal []model.OptimalFrequencyRow) model.RunSummary {
	clients := make(map[string]struct{})
	campaigns := make(map[string]struct{})
	var responses, conversions int
	var revenue float64
	for _, r := range records {
		clients[r.ClientID] = struct{}{}
		campaigns[r.CampaignID] = struct{}{}
		responses += boolToInt(r.ResponseFlag)
		conversions += boolToInt(r.ConversionFlag)
		revenue += r.Revenue
	}

	s := model.RunSummary{
		TotalDeployments: len(records),
		UniqueClients:    len(clients),
		TotalCampaigns:   len(campaigns),
		TotalRevenue:     round2(revenue),
	}
	if len(records) > 0 {
		s.OverallResponseRate = pct(float64(responses), float64(len(records)))
		s.OverallConversionRate = pct(float64(conversions), float64(len(records)))
	}

	top := make([]model.CampaignPerformanceRow, len(performance))
	copy(top, performance)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ConversionRate > top[j].ConversionRate })
	if len(top) > topCampaignCount {
		top = top[:topCampaignCount]
	}
	s.TopCampaigns = top

	freq := make([]model.OptimalFrequencyRow, len(optimal))
	copy(freq, optimal)
	sort.SliceStable(freq, func(i, j int) bool { return freq[i].AvgRevenue > freq[j].AvgRevenue })
	if len(freq) > topFrequencyCount {
		freq = freq[:topFrequencyCount]
	}
	s.TopFrequencies = freq

	return s
}

// RenderSummary formats a RunSummary as the executive text report.
func RenderSummary(s model.RunSummary, params model.AnalysisParams) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Campaign Performance Executive Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	p.Fprintf(&b, "Analysis Period: %s to %s\n",
		params.StartDate.Format(model.DateLayout), params.EndDate.Format(model.DateLayout))
	p.Fprintf(&b, "Total Deployments: %d\n", s.TotalDeployments)
	p.Fprintf(&b, "Unique Clients: %d\n", s.UniqueClients)
	p.Fprintf(&b, "Total Campaigns: %d\n", s.TotalCampaigns)
	p.Fprintf(&b, "Overall Response Rate: %.2f%%\n", s.OverallResponseRate)
	p.Fprintf(&b, "Overall Conversion Rate: %.2f%%\n", s.OverallConversionRate)
	p.Fprintf(&b, "Total Revenue: $%.2f\n", s.TotalRevenue)

	if len(s.TopCampaigns) > 0 {
		b.WriteString("\nTop Performing Campaigns:\n")
		for i, c := range s.TopCampaigns {
			fmt.Fprintf(&b, "  %d. %s (%s/%s) conversion %.2f%% revenue $%.2f\n",
				i+1, c.CampaignName, c.Channel, c.OfferType, c.ConversionRate, c.TotalRevenue)
		}
	}

	if len(s.TopFrequencies) > 0 {
		b.WriteString("\nOptimal Contact Frequency:\n")
		for _, f := range s.TopFrequencies {
			fmt.Fprintf(&b, "  %s @ %d contacts/30d: avg revenue $%.2f (n=%d, rank %d)\n",
				f.Channel, f.ContactsLast30d, f.AvgRevenue, f.SampleSize, f.RevenueRank)
		}
	}

	return b.String()
}
