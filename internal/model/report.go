package model

import "time"

// CampaignPerformanceRow aggregates deployments by campaign, channel and
// offer type. Rates are percentages rounded to two decimals; ratios with a
// zero denominator are nil, never NaN.
type CampaignPerformanceRow struct {
	CampaignID               string   `json:"campaign_id"`
	CampaignName             string   `json:"campaign_name"`
	Channel                  string   `json:"channel"`
	OfferType                string   `json:"offer_type"`
	TotalDeployments         int      `json:"total_deployments"`
	UniqueClients            int      `json:"unique_clients"`
	TotalResponses           int      `json:"total_responses"`
	TotalConversions         int      `json:"total_conversions"`
	TotalRevenue             float64  `json:"total_revenue"`
	AvgRevenuePerDeployment  float64  `json:"avg_revenue_per_deployment"`
	ResponseRate             float64  `json:"response_rate"`
	ConversionRate           float64  `json:"conversion_rate"`
	ResponseToConversionRate *float64 `json:"response_to_conversion_rate,omitempty"`
	RevenuePerClient         float64  `json:"revenue_per_client"`
	AvgDaysToResponse        *float64 `json:"avg_days_to_response,omitempty"`
	AvgDaysToConversion      *float64 `json:"avg_days_to_conversion,omitempty"`
}

// ConfidenceLevel bands a frequency bucket by its post-filter sample size.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// FrequencyImpactRow aggregates outcomes by trailing 30-day contact count.
// Buckets below the minimum sample size are dropped from the table.
type FrequencyImpactRow struct {
	ContactsLast30d   int             `json:"contacts_last_30d"`
	DeploymentsCount  int             `json:"deployments_count"`
	AvgResponseRate   float64         `json:"avg_response_rate"`
	AvgConversionRate float64         `json:"avg_conversion_rate"`
	AvgRevenue        float64         `json:"avg_revenue"`
	RevenueStddev     *float64        `json:"revenue_stddev,omitempty"`
	Confidence        ConfidenceLevel `json:"confidence_level"`
}

// ClientSegment is the rule-assigned value tier of a client.
type ClientSegment string

const (
	SegmentHighValue           ClientSegment = "High Value"
	SegmentMediumValue         ClientSegment = "Medium Value"
	SegmentEngagedNonConverter ClientSegment = "Engaged Non-Converter"
	SegmentOverContacted       ClientSegment = "Over-Contacted"
	SegmentLowEngagement       ClientSegment = "Low Engagement"
)

// ClientEngagementRow holds per-client lifetime metrics, the composite
// engagement score and the assigned segment. Exactly one row per client
// seen in the window.
type ClientEngagementRow struct {
	ClientID             string        `json:"client_id"`
	TotalContacts        int           `json:"total_contacts"`
	TotalResponses       int           `json:"total_responses"`
	TotalConversions     int           `json:"total_conversions"`
	TotalRevenue         float64       `json:"total_revenue"`
	FirstContactDate     time.Time     `json:"first_contact_date"`
	LastContactDate      time.Time     `json:"last_contact_date"`
	ResponseRate         float64       `json:"response_rate"`
	ConversionRate       float64       `json:"conversion_rate"`
	RevenuePerContact    float64       `json:"revenue_per_contact"`
	DaysSinceLastContact int           `json:"days_since_last_contact"`
	CustomerLifetimeDays int           `json:"customer_lifetime_days"`
	EngagementScore      float64       `json:"engagement_score"`
	ClientSegment        ClientSegment `json:"client_segment"`
}

// OptimalFrequencyRow aggregates outcomes by (channel, trailing 30-day
// contact count). Lift is relative to the channel's zero-contact bucket.
type OptimalFrequencyRow struct {
	Channel           string   `json:"channel"`
	ContactsLast30d   int      `json:"contacts_last_30d"`
	SampleSize        int      `json:"sample_size"`
	ResponseRate      float64  `json:"response_rate"`
	ConversionRate    float64  `json:"conversion_rate"`
	AvgRevenue        float64  `json:"avg_revenue"`
	RevenueStddev     *float64 `json:"revenue_stddev,omitempty"`
	ConversionLiftPct *float64 `json:"conversion_lift_pct,omitempty"`
	RevenueRank       int      `json:"revenue_rank"`
	Recommended       bool     `json:"recommended"`
}

// MonthlyTrendRow aggregates deployments by calendar month and channel.
type MonthlyTrendRow struct {
	YearMonth      string  `json:"year_month"`
	Channel        string  `json:"channel"`
	Deployments    int     `json:"deployments"`
	UniqueClients  int     `json:"unique_clients"`
	ResponseRate   float64 `json:"response_rate"`
	ConversionRate float64 `json:"conversion_rate"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// RunSummary holds the headline figures of an analysis run.
type RunSummary struct {
	TotalDeployments      int                      `json:"total_deployments"`
	UniqueClients         int                      `json:"unique_clients"`
	TotalCampaigns        int                      `json:"total_campaigns"`
	OverallResponseRate   float64                  `json:"overall_response_rate"`
	OverallConversionRate float64                  `json:"overall_conversion_rate"`
	TotalRevenue          float64                  `json:"total_revenue"`
	TopCampaigns          []CampaignPerformanceRow `json:"top_campaigns,omitempty"`
	TopFrequencies        []OptimalFrequencyRow    `json:"top_frequencies,omitempty"`
}
