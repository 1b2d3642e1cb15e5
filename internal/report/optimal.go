package report

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-insights/internal/model"
)

type optimalKey struct {
	channel  string
	contacts int
}

type optimalAcc struct {
	count       int
	responses   int
	conversions int
	revenue     []float64
}

// bucketRow pairs an output row with pre-rounding values used for lift and
// ranking.
type bucketRow struct {
	row     model.OptimalFrequencyRow
	rawConv float64
	rawRev  float64
}

// OptimalFrequency buckets outcomes by (channel, trailing 30-day contact
// count), keeps buckets with at least params.MinChannelSample deployments,
// computes conversion lift against the channel's zero-contact bucket and
// dense-ranks buckets by average revenue within each channel. The rank-1
// bucket per channel is the recommendation; revenue ties are broken by
// contact count ascending. Rows are ordered by (channel, contacts).
func OptimalFrequency(records []model.DeploymentRecord, byTactic map[string]model.FrequencyAnnotation, params model.AnalysisParams) ([]model.OptimalFrequencyRow, error) {
	buckets := make(map[optimalKey]*optimalAcc)

	for _, r := range records {
		a, ok := byTactic[r.TacticID]
		if !ok {
			return nil, eris.Errorf("optimal: record %s has no frequency annotation", r.TacticID)
		}
		key := optimalKey{r.Channel, a.ContactsLast30d}
		acc, ok := buckets[key]
		if !ok {
			acc = &optimalAcc{}
			buckets[key] = acc
		}
		acc.count++
		acc.responses += boolToInt(r.ResponseFlag)
		acc.conversions += boolToInt(r.ConversionFlag)
		acc.revenue = append(acc.revenue, r.Revenue)
	}

	// Post-filter rows with unrounded conversion rates kept aside for lift.
	byChannel := make(map[string][]bucketRow)
	for key, acc := range buckets {
		if acc.count < params.MinChannelSample {
			continue
		}
		var revSum float64
		for _, v := range acc.revenue {
			revSum += v
		}
		rawConv := float64(acc.conversions) / float64(acc.count)
		rawRev := revSum / float64(acc.count)
		byChannel[key.channel] = append(byChannel[key.channel], bucketRow{
			row: model.OptimalFrequencyRow{
				Channel:         key.channel,
				ContactsLast30d: key.contacts,
				SampleSize:      acc.count,
				ResponseRate:    pct(float64(acc.responses), float64(acc.count)),
				ConversionRate:  pct(float64(acc.conversions), float64(acc.count)),
				AvgRevenue:      round2(rawRev),
				RevenueStddev:   sampleStddev(acc.revenue),
			},
			rawConv: rawConv,
			rawRev:  rawRev,
		})
	}

	channels := make([]string, 0, len(byChannel))
	for ch := range byChannel {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	var rows []model.OptimalFrequencyRow
	for _, ch := range channels {
		group := byChannel[ch]
		sort.Slice(group, func(i, j int) bool {
			return group[i].row.ContactsLast30d < group[j].row.ContactsLast30d
		})

		// Baseline is the zero-contact bucket, i.e. the first bucket when
		// ordered ascending by contact count, and only if that count is 0.
		var baseline *float64
		if len(group) > 0 && group[0].row.ContactsLast30d == 0 {
			baseline = &group[0].rawConv
		}
		for i := range group {
			if baseline != nil && *baseline != 0 {
				lift := round2(100 * (group[i].rawConv - *baseline) / *baseline)
				group[i].row.ConversionLiftPct = &lift
			}
		}

		rankBuckets(group)

		for i := range group {
			rows = append(rows, group[i].row)
		}
	}
	return rows, nil
}

// rankBuckets assigns dense revenue ranks (1 = highest average revenue)
// within one channel and marks the recommended bucket. group must already
// be ordered by contact count ascending so the rank-1 tie-break is
// deterministic.
func rankBuckets(group []bucketRow) {
	order := make([]int, len(group))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return group[order[a]].rawRev > group[order[b]].rawRev
	})

	rank := 0
	prev := 0.0
	for pos, idx := range order {
		if pos == 0 || group[idx].rawRev != prev {
			rank++
			prev = group[idx].rawRev
		}
		group[idx].row.RevenueRank = rank
	}

	// First bucket in contact-count order holding rank 1 wins.
	for i := range group {
		if group[i].row.RevenueRank == 1 {
			group[i].row.Recommended = true
			break
		}
	}
}

// Recommendations returns the recommended bucket per channel, ordered by
// channel.
func Recommendations(rows []model.OptimalFrequencyRow) []model.OptimalFrequencyRow {
	var out []model.OptimalFrequencyRow
	for _, r := range rows {
		if r.Recommended {
			out = append(out, r)
		}
	}
	return out
}
