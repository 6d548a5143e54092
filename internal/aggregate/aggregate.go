// Package aggregate computes the derived summary tables over the enriched
// record set. Every function here is a pure view: it reads the records,
// groups, and returns typed rows. Means skip unavailable values; counts
// count rows.
package aggregate

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"trendhub/pkg/models"
)

// group collects the numeric columns of one bucket.
type group struct {
	views      []float64
	likes      []float64
	comments   []float64
	engagement []float64 // available values only
	sentiment  []float64
	days       []float64
	totalViews int64
	count      int
}

func (g *group) add(v *models.Video) {
	g.views = append(g.views, float64(v.Views))
	g.likes = append(g.likes, float64(v.Likes))
	g.comments = append(g.comments, float64(v.CommentCount))
	if v.EngagementRate.Valid {
		g.engagement = append(g.engagement, v.EngagementRate.Float64)
	}
	g.sentiment = append(g.sentiment, v.TitleSentiment)
	g.days = append(g.days, float64(v.DaysToTrend))
	g.totalViews += v.Views
	g.count++
}

// groupBy buckets videos by key, remembering first-encounter order so that
// rankings can break ties stably.
func groupBy[K comparable](videos []models.Video, key func(*models.Video) K) (map[K]*group, []K) {
	groups := make(map[K]*group)
	var order []K
	for i := range videos {
		k := key(&videos[i])
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		g.add(&videos[i])
	}
	return groups, order
}

// ByCategoryID ranks categories (by raw id) by mean views, descending.
func ByCategoryID(videos []models.Video) []models.CategoryIDViews {
	groups, order := groupBy(videos, func(v *models.Video) int { return v.CategoryID })
	rows := make([]models.CategoryIDViews, 0, len(order))
	for _, id := range order {
		rows = append(rows, models.CategoryIDViews{CategoryID: id, AvgViews: stat.Mean(groups[id].views, nil)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AvgViews > rows[j].AvgViews })
	return rows
}

// ByCategoryName computes mean views per display category, including the
// "not available" bucket, sorted by category name.
func ByCategoryName(videos []models.Video) []models.CategoryAvgViews {
	groups, order := groupBy(videos, func(v *models.Video) string { return v.CategoryLabel() })
	rows := make([]models.CategoryAvgViews, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.CategoryAvgViews{Category: name, AvgViews: stat.Mean(groups[name].views, nil)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

// ByHour computes mean views per publish hour, ascending by hour.
func ByHour(videos []models.Video) []models.HourlyViews {
	groups, order := groupBy(videos, func(v *models.Video) int { return v.PublishHour })
	rows := make([]models.HourlyViews, 0, len(order))
	for _, h := range order {
		rows = append(rows, models.HourlyViews{Hour: h, AvgViews: stat.Mean(groups[h].views, nil)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Hour < rows[j].Hour })
	return rows
}

// HourlyByCountry is ByHour split per region, for the country comparison
// report and charts. Keys follow first-encounter order of the regions.
func HourlyByCountry(videos []models.Video) (map[string][]models.HourlyViews, []string) {
	byCountry := make(map[string][]models.Video)
	var countries []string
	for _, v := range videos {
		if _, ok := byCountry[v.Country]; !ok {
			countries = append(countries, v.Country)
		}
		byCountry[v.Country] = append(byCountry[v.Country], v)
	}
	out := make(map[string][]models.HourlyViews, len(countries))
	for _, c := range countries {
		out[c] = ByHour(byCountry[c])
	}
	return out, countries
}

// DailyByCountry is ByDay split per region.
func DailyByCountry(videos []models.Video) (map[string][]models.DailyViews, []string) {
	byCountry := make(map[string][]models.Video)
	var countries []string
	for _, v := range videos {
		if _, ok := byCountry[v.Country]; !ok {
			countries = append(countries, v.Country)
		}
		byCountry[v.Country] = append(byCountry[v.Country], v)
	}
	out := make(map[string][]models.DailyViews, len(countries))
	for _, c := range countries {
		out[c] = ByDay(byCountry[c])
	}
	return out, countries
}

var weekdayOrder = []string{
	time.Monday.String(), time.Tuesday.String(), time.Wednesday.String(),
	time.Thursday.String(), time.Friday.String(), time.Saturday.String(),
	time.Sunday.String(),
}

// ByDay computes mean views and row counts per publish weekday, in calendar
// order Monday through Sunday. Days with no records are omitted.
func ByDay(videos []models.Video) []models.DailyViews {
	groups, _ := groupBy(videos, func(v *models.Video) string { return v.PublishDay })
	rows := make([]models.DailyViews, 0, len(groups))
	for _, day := range weekdayOrder {
		g, ok := groups[day]
		if !ok {
			continue
		}
		rows = append(rows, models.DailyViews{Day: day, AvgViews: stat.Mean(g.views, nil), Count: g.count})
	}
	return rows
}

// SentimentByCategory ranks display categories by mean title sentiment,
// descending.
func SentimentByCategory(videos []models.Video) []models.SentimentByCategory {
	groups, order := groupBy(videos, func(v *models.Video) string { return v.CategoryLabel() })
	rows := make([]models.SentimentByCategory, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.SentimentByCategory{Category: name, AvgSentiment: stat.Mean(groups[name].sentiment, nil)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AvgSentiment > rows[j].AvgSentiment })
	return rows
}

type countryCategoryKey struct {
	country  string
	category string
}

// CountryCategory summarises mean views, mean engagement and row count per
// (country, category), sorted by country then category.
func CountryCategory(videos []models.Video) []models.CountryCategorySummary {
	groups, order := groupBy(videos, func(v *models.Video) countryCategoryKey {
		return countryCategoryKey{v.Country, v.CategoryLabel()}
	})
	rows := make([]models.CountryCategorySummary, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, models.CountryCategorySummary{
			Country:       k.country,
			Category:      k.category,
			AvgViews:      stat.Mean(g.views, nil),
			AvgEngagement: nullMean(g.engagement),
			Count:         g.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// Channels ranks channels by total views descending; ties keep the order the
// channels were first encountered in.
func Channels(videos []models.Video) []models.ChannelMetrics {
	groups, order := groupBy(videos, func(v *models.Video) string { return v.ChannelTitle })
	rows := make([]models.ChannelMetrics, 0, len(order))
	for _, name := range order {
		g := groups[name]
		rows = append(rows, models.ChannelMetrics{
			Channel:       name,
			AvgViews:      stat.Mean(g.views, nil),
			TotalViews:    g.totalViews,
			VideoCount:    g.count,
			AvgLikes:      stat.Mean(g.likes, nil),
			AvgComments:   stat.Mean(g.comments, nil),
			AvgEngagement: nullMean(g.engagement),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalViews > rows[j].TotalViews })
	return rows
}

// ChannelTrendCounts ranks channels by how many trending observations they
// have, descending, ties stable.
func ChannelTrendCounts(videos []models.Video) []models.ChannelTrendCount {
	groups, order := groupBy(videos, func(v *models.Video) string { return v.ChannelTitle })
	rows := make([]models.ChannelTrendCount, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.ChannelTrendCount{Channel: name, TrendCount: groups[name].count})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TrendCount > rows[j].TrendCount })
	return rows
}

type categoryCountryKey struct {
	category string
	country  string
}

// CategoryCountry computes the detailed per-(category, country) metrics,
// sorted by category then country.
func CategoryCountry(videos []models.Video) []models.CategoryCountryMetrics {
	groups, order := groupBy(videos, func(v *models.Video) categoryCountryKey {
		return categoryCountryKey{v.CategoryLabel(), v.Country}
	})
	rows := make([]models.CategoryCountryMetrics, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, models.CategoryCountryMetrics{
			Category:       k.category,
			Country:        k.country,
			AvgViews:       stat.Mean(g.views, nil),
			MedianViews:    median(g.views),
			StdViews:       stat.StdDev(g.views, nil),
			AvgLikes:       stat.Mean(g.likes, nil),
			AvgComments:    stat.Mean(g.comments, nil),
			AvgEngagement:  nullMean(g.engagement),
			AvgDaysToTrend: stat.Mean(g.days, nil),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Country < rows[j].Country
	})
	return rows
}

type timeKey struct {
	country string
	hour    int
	day     string
}

// TimeAnalysis is the (country, hour, day) BI view.
func TimeAnalysis(videos []models.Video) []models.TimeAnalysisRow {
	groups, order := groupBy(videos, func(v *models.Video) timeKey {
		return timeKey{v.Country, v.PublishHour, v.PublishDay}
	})
	rows := make([]models.TimeAnalysisRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, models.TimeAnalysisRow{
			Country:       k.country,
			Hour:          k.hour,
			Day:           k.day,
			AvgViews:      stat.Mean(g.views, nil),
			TotalViews:    g.totalViews,
			VideoCount:    g.count,
			AvgLikes:      stat.Mean(g.likes, nil),
			AvgComments:   stat.Mean(g.comments, nil),
			AvgEngagement: nullMean(g.engagement),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.Day < b.Day
	})
	return rows
}

// CategoryPerformance is the (category, country) BI view.
func CategoryPerformance(videos []models.Video) []models.CategoryPerformanceRow {
	groups, order := groupBy(videos, func(v *models.Video) categoryCountryKey {
		return categoryCountryKey{v.CategoryLabel(), v.Country}
	})
	rows := make([]models.CategoryPerformanceRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, models.CategoryPerformanceRow{
			Category:       k.category,
			Country:        k.country,
			AvgViews:       stat.Mean(g.views, nil),
			TotalViews:     g.totalViews,
			VideoCount:     g.count,
			AvgLikes:       stat.Mean(g.likes, nil),
			AvgComments:    stat.Mean(g.comments, nil),
			AvgEngagement:  nullMean(g.engagement),
			AvgDaysToTrend: stat.Mean(g.days, nil),
			AvgSentiment:   stat.Mean(g.sentiment, nil),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Country < rows[j].Country
	})
	return rows
}

type channelKey struct {
	channel  string
	country  string
	category string
}

// ChannelPerformance is the (channel, country, category) BI view.
func ChannelPerformance(videos []models.Video) []models.ChannelPerformanceRow {
	groups, order := groupBy(videos, func(v *models.Video) channelKey {
		return channelKey{v.ChannelTitle, v.Country, v.CategoryLabel()}
	})
	rows := make([]models.ChannelPerformanceRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, models.ChannelPerformanceRow{
			Channel:        k.channel,
			Country:        k.country,
			Category:       k.category,
			AvgViews:       stat.Mean(g.views, nil),
			TotalViews:     g.totalViews,
			VideoCount:     g.count,
			AvgLikes:       stat.Mean(g.likes, nil),
			AvgComments:    stat.Mean(g.comments, nil),
			AvgEngagement:  nullMean(g.engagement),
			AvgDaysToTrend: stat.Mean(g.days, nil),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Category < b.Category
	})
	return rows
}

// MeanEngagement averages engagement_rate over the records where it is
// available. Invalid when no record has it.
func MeanEngagement(videos []models.Video) sql.NullFloat64 {
	var xs []float64
	for i := range videos {
		if videos[i].EngagementRate.Valid {
			xs = append(xs, videos[i].EngagementRate.Float64)
		}
	}
	return nullMean(xs)
}

// MeanDaysToTrend averages days_to_trend over all records.
func MeanDaysToTrend(videos []models.Video) float64 {
	if len(videos) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range videos {
		sum += float64(videos[i].DaysToTrend)
	}
	return sum / float64(len(videos))
}

func nullMean(xs []float64) sql.NullFloat64 {
	if len(xs) == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: stat.Mean(xs, nil), Valid: true}
}

// median uses the midpoint-average convention for even-length input.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
