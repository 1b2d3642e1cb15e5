package report

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-insights/internal/model"
)

type impactAcc struct {
	count       int
	responses   int
	conversions int
	revenue     []float64
}

// FrequencyImpact buckets outcomes by trailing 30-day contact count.
// Buckets with fewer than params.MinBucketSample deployments are dropped
// rather than zero-filled; confidence banding is evaluated on the
// post-filter bucket. Rows are ordered by contact count ascending.
func FrequencyImpact(records []model.DeploymentRecord, byTactic map[string]model.FrequencyAnnotation, params model.AnalysisParams) ([]model.FrequencyImpactRow, error) {
	buckets := make(map[int]*impactAcc)

	for _, r := range records {
		a, ok := byTactic[r.TacticID]
		if !ok {
			return nil, eris.Errorf("impact: record %s has no frequency annotation", r.TacticID)
		}
		acc, ok := buckets[a.ContactsLast30d]
		if !ok {
			acc = &impactAcc{}
			buckets[a.ContactsLast30d] = acc
		}
		acc.count++
		acc.responses += boolToInt(r.ResponseFlag)
		acc.conversions += boolToInt(r.ConversionFlag)
		acc.revenue = append(acc.revenue, r.Revenue)
	}

	rows := make([]model.FrequencyImpactRow, 0, len(buckets))
	var dropped int
	for contacts, acc := range buckets {
		if acc.count < params.MinBucketSample {
			dropped++
			continue
		}
		var revSum float64
		for _, v := range acc.revenue {
			revSum += v
		}
		rows = append(rows, model.FrequencyImpactRow{
			ContactsLast30d:   contacts,
			DeploymentsCount:  acc.count,
			AvgResponseRate:   pct(float64(acc.responses), float64(acc.count)),
			AvgConversionRate: pct(float64(acc.conversions), float64(acc.count)),
			AvgRevenue:        round2(revSum / float64(acc.count)),
			RevenueStddev:     sampleStddev(acc.revenue),
			Confidence:        confidenceLevel(acc.count, params),
		})
	}
	if dropped > 0 {
		zap.L().Debug("impact: buckets below sample threshold dropped",
			zap.Int("dropped", dropped),
			zap.Int("min_sample", params.MinBucketSample),
		)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ContactsLast30d < rows[j].ContactsLast30d })
	return rows, nil
}

// confidenceLevel bands a bucket by sample size. Thresholds are inclusive.
func confidenceLevel(sample int, params model.AnalysisParams) model.ConfidenceLevel {
	switch {
	case sample >= params.HighConfidenceSample:
		return model.ConfidenceHigh
	case sample >= params.MediumConfidenceSample:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
