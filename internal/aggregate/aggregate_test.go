package aggregate

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/pkg/models"
)

func video(channel, country, category string, views int64) models.Video {
	v := models.Video{
		VideoID:      channel + "-" + country,
		ChannelTitle: channel,
		Country:      country,
		Views:        views,
	}
	if category != "" {
		v.Category = sql.NullString{String: category, Valid: true}
	}
	return v
}

func withEngagement(v models.Video, rate float64) models.Video {
	v.EngagementRate = sql.NullFloat64{Float64: rate, Valid: true}
	return v
}

func TestByCategoryNameIncludesNotAvailableBucket(t *testing.T) {
	videos := []models.Video{
		video("a", "US", "Music", 100),
		video("b", "US", "Music", 300),
		video("c", "US", "", 50), // unmapped category
	}

	rows := ByCategoryName(videos)
	require.Len(t, rows, 2)

	// sorted by category name: "Music" < "not available"
	assert.Equal(t, "Music", rows[0].Category)
	assert.InDelta(t, 200, rows[0].AvgViews, 1e-9)
	assert.Equal(t, models.CategoryNotAvailable, rows[1].Category)
	assert.InDelta(t, 50, rows[1].AvgViews, 1e-9)
}

func TestByCategoryIDRanksDescending(t *testing.T) {
	v1 := video("a", "US", "", 100)
	v1.CategoryID = 1
	v2 := video("b", "US", "", 500)
	v2.CategoryID = 2
	v3 := video("c", "US", "", 300)
	v3.CategoryID = 3

	rows := ByCategoryID([]models.Video{v1, v2, v3})
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{rows[0].CategoryID, rows[1].CategoryID, rows[2].CategoryID})
}

func TestChannelsRankingTiesKeepEncounterOrder(t *testing.T) {
	videos := []models.Video{
		video("first", "US", "", 100),
		video("second", "US", "", 100), // tied on total views
		video("third", "US", "", 200),
	}

	rows := Channels(videos)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0].Channel)
	assert.Equal(t, "first", rows[1].Channel)
	assert.Equal(t, "second", rows[2].Channel)
}

func TestChannelsAggregates(t *testing.T) {
	a := video("chan", "US", "", 100)
	a.Likes = 10
	a.CommentCount = 4
	b := video("chan", "US", "", 300)
	b.Likes = 30
	b.CommentCount = 8

	rows := Channels([]models.Video{a, b})
	require.Len(t, rows, 1)

	r := rows[0]
	assert.InDelta(t, 200, r.AvgViews, 1e-9)
	assert.Equal(t, int64(400), r.TotalViews)
	assert.Equal(t, 2, r.VideoCount)
	assert.InDelta(t, 20, r.AvgLikes, 1e-9)
	assert.InDelta(t, 6, r.AvgComments, 1e-9)
	assert.False(t, r.AvgEngagement.Valid) // no engagement available in group
}

func TestCountryCategoryEngagementSkipsUnavailable(t *testing.T) {
	videos := []models.Video{
		withEngagement(video("a", "US", "Music", 100), 4),
		video("b", "US", "Music", 0), // views=0, engagement unavailable
		withEngagement(video("c", "US", "Music", 200), 8),
	}

	rows := CountryCategory(videos)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 3, r.Count) // count counts rows, not available values
	require.True(t, r.AvgEngagement.Valid)
	assert.InDelta(t, 6, r.AvgEngagement.Float64, 1e-9)
}

func TestCategoryCountryMedianAndStd(t *testing.T) {
	videos := []models.Video{
		video("a", "US", "Music", 1),
		video("b", "US", "Music", 2),
		video("c", "US", "Music", 3),
		video("d", "US", "Music", 4),
	}

	rows := CategoryCountry(videos)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.InDelta(t, 2.5, r.AvgViews, 1e-9)
	assert.InDelta(t, 2.5, r.MedianViews, 1e-9) // even length: midpoint average
	assert.InDelta(t, 1.2909944487, r.StdViews, 1e-6)
}

func TestByDayCalendarOrder(t *testing.T) {
	mon := video("a", "US", "", 100)
	mon.PublishDay = "Monday"
	fri := video("b", "US", "", 200)
	fri.PublishDay = "Friday"
	sun := video("c", "US", "", 300)
	sun.PublishDay = "Sunday"

	rows := ByDay([]models.Video{sun, fri, mon})
	require.Len(t, rows, 3)
	assert.Equal(t, "Monday", rows[0].Day)
	assert.Equal(t, "Friday", rows[1].Day)
	assert.Equal(t, "Sunday", rows[2].Day)
}

func TestByHourAscending(t *testing.T) {
	early := video("a", "US", "", 100)
	early.PublishHour = 3
	late := video("b", "US", "", 200)
	late.PublishHour = 21

	rows := ByHour([]models.Video{late, early})
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Hour)
	assert.Equal(t, 21, rows[1].Hour)
}

func TestHourlyByCountryKeepsRegionOrder(t *testing.T) {
	us := video("a", "US", "", 100)
	in := video("b", "IN", "", 200)

	byCountry, countries := HourlyByCountry([]models.Video{us, in, us})
	assert.Equal(t, []string{"US", "IN"}, countries)
	assert.Len(t, byCountry["US"], 1)
	assert.Len(t, byCountry["IN"], 1)
}

func TestTimeAnalysisGrouping(t *testing.T) {
	a := video("chan", "US", "", 100)
	a.PublishHour = 9
	a.PublishDay = "Monday"
	b := video("chan", "US", "", 300)
	b.PublishHour = 9
	b.PublishDay = "Monday"
	c := video("chan", "IN", "", 500)
	c.PublishHour = 9
	c.PublishDay = "Monday"

	rows := TimeAnalysis([]models.Video{a, b, c})
	require.Len(t, rows, 2)

	// sorted by country: IN before US
	assert.Equal(t, "IN", rows[0].Country)
	assert.Equal(t, int64(500), rows[0].TotalViews)
	assert.Equal(t, "US", rows[1].Country)
	assert.Equal(t, int64(400), rows[1].TotalViews)
	assert.Equal(t, 2, rows[1].VideoCount)
}

func TestMeanEngagement(t *testing.T) {
	videos := []models.Video{
		withEngagement(video("a", "US", "", 100), 2),
		video("b", "US", "", 0),
		withEngagement(video("c", "US", "", 100), 4),
	}

	eng := MeanEngagement(videos)
	require.True(t, eng.Valid)
	assert.InDelta(t, 3, eng.Float64, 1e-9)

	assert.False(t, MeanEngagement([]models.Video{video("d", "US", "", 0)}).Valid)
}

func TestChannelTrendCounts(t *testing.T) {
	videos := []models.Video{
		video("busy", "US", "", 1),
		video("busy", "US", "", 2),
		video("quiet", "US", "", 3),
	}

	rows := ChannelTrendCounts(videos)
	require.Len(t, rows, 2)
	assert.Equal(t, "busy", rows[0].Channel)
	assert.Equal(t, 2, rows[0].TrendCount)
}
