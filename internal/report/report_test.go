package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-insights/internal/model"
)

func day(offset int) time.Time {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func testParams() model.AnalysisParams {
	return model.AnalysisParams{
		StartDate:              day(0),
		EndDate:                day(365),
		AsOfDate:               day(365),
		MinBucketSample:        1,
		MinChannelSample:       1,
		HighConfidenceSample:   1000,
		MediumConfidenceSample: 100,
		Policy:                 model.PolicyStrict,
		Workers:                1,
	}
}

// outcome builds a deployment with response/conversion flags and revenue.
func outcome(tactic, client, campaign, channel string, dayOffset int, responded, converted bool, revenue float64) model.DeploymentRecord {
	r := model.DeploymentRecord{
		TacticID:       tactic,
		ClientID:       client,
		CampaignID:     campaign,
		CampaignName:   campaign + " name",
		DeploymentDate: day(dayOffset),
		Channel:        channel,
		OfferType:      "standard",
		ResponseFlag:   responded,
		ConversionFlag: converted,
		Revenue:        revenue,
	}
	return r
}

// annotate builds a byTactic index placing each record in a fixed trailing
// 30-day contact bucket.
func annotate(records []model.DeploymentRecord, contacts30 ...int) map[string]model.FrequencyAnnotation {
	idx := make(map[string]model.FrequencyAnnotation, len(records))
	for i, r := range records {
		idx[r.TacticID] = model.FrequencyAnnotation{
			TacticID:        r.TacticID,
			ClientID:        r.ClientID,
			ContactNumber:   i + 1,
			ContactsLast30d: contacts30[i],
		}
	}
	return idx
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2345))
	assert.Equal(t, 1.24, round2(1.2351))
	assert.Equal(t, -2.5, round2(-2.499))
	assert.Equal(t, 0.0, round2(0))
}

func TestPctOrNil(t *testing.T) {
	t.Run("defined ratio", func(t *testing.T) {
		got := pctOrNil(1, 3)
		require.NotNil(t, got)
		assert.Equal(t, 33.33, *got)
	})

	t.Run("zero denominator is nil, not zero", func(t *testing.T) {
		assert.Nil(t, pctOrNil(0, 0))
		assert.Nil(t, pctOrNil(5, 0))
	})
}

func TestSampleStddev(t *testing.T) {
	t.Run("fewer than two samples", func(t *testing.T) {
		assert.Nil(t, sampleStddev(nil))
		assert.Nil(t, sampleStddev([]float64{42}))
	})

	t.Run("known sample", func(t *testing.T) {
		got := sampleStddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		require.NotNil(t, got)
		assert.Equal(t, 2.14, *got)
	})

	t.Run("identical values", func(t *testing.T) {
		got := sampleStddev([]float64{3, 3, 3})
		require.NotNil(t, got)
		assert.Equal(t, 0.0, *got)
	})
}
