package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-insights/internal/model"
)

func TestCampaignPerformance(t *testing.T) {
	respDate := day(3)
	convDate := day(10)

	records := []model.DeploymentRecord{
		outcome("T1", "C1", "CMP-A", "email", 0, true, true, 250),
		outcome("T2", "C2", "CMP-A", "email", 5, true, false, 0),
		outcome("T3", "C1", "CMP-A", "email", 12, false, false, 0),
		outcome("T4", "C3", "CMP-B", "direct_mail", 1, false, false, 0),
	}
	records[0].ResponseDate = &respDate
	records[0].ConversionDate = &convDate

	rows := CampaignPerformance(records)
	require.Len(t, rows, 2)

	a := rows[0]
	assert.Equal(t, "CMP-A", a.CampaignID)
	assert.Equal(t, "email", a.Channel)
	assert.Equal(t, 3, a.TotalDeployments)
	assert.Equal(t, 2, a.UniqueClients)
	assert.Equal(t, 2, a.TotalResponses)
	assert.Equal(t, 1, a.TotalConversions)
	assert.Equal(t, 250.0, a.TotalRevenue)
	assert.Equal(t, 83.33, a.AvgRevenuePerDeployment)
	assert.Equal(t, 66.67, a.ResponseRate)
	assert.Equal(t, 33.33, a.ConversionRate)
	assert.Equal(t, 125.0, a.RevenuePerClient)
	require.NotNil(t, a.ResponseToConversionRate)
	assert.Equal(t, 50.0, *a.ResponseToConversionRate)
	require.NotNil(t, a.AvgDaysToResponse)
	assert.Equal(t, 3.0, *a.AvgDaysToResponse)
	require.NotNil(t, a.AvgDaysToConversion)
	assert.Equal(t, 10.0, *a.AvgDaysToConversion)

	b := rows[1]
	assert.Equal(t, "CMP-B", b.CampaignID)
	assert.Equal(t, 1, b.TotalDeployments)
	assert.Equal(t, 0.0, b.ResponseRate)
	// No responses: the response-to-conversion ratio is undefined.
	assert.Nil(t, b.ResponseToConversionRate)
	assert.Nil(t, b.AvgDaysToResponse)
	assert.Nil(t, b.AvgDaysToConversion)
}

func TestCampaignPerformanceSplitsByOfferType(t *testing.T) {
	records := []model.DeploymentRecord{
		outcome("T1", "C1", "CMP-A", "email", 0, false, false, 0),
		outcome("T2", "C1", "CMP-A", "email", 1, false, false, 0),
	}
	records[1].OfferType = "discount"

	rows := CampaignPerformance(records)
	require.Len(t, rows, 2)
	// Ordered by offer type within a campaign/channel pair.
	assert.Equal(t, "discount", rows[0].OfferType)
	assert.Equal(t, "standard", rows[1].OfferType)
	assert.Equal(t, 1, rows[0].TotalDeployments)
}

func TestCampaignPerformanceEmpty(t *testing.T) {
	assert.Empty(t, CampaignPerformance(nil))
}
