package report

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"trendhub/internal/aggregate"
	"trendhub/pkg/models"
)

// Tables bundles every aggregate view the reporter and exporter consume.
type Tables struct {
	CategoryIDViews     []models.CategoryIDViews
	CategoryAvgViews    []models.CategoryAvgViews
	Hourly              []models.HourlyViews
	Daily               []models.DailyViews
	SentimentByCategory []models.SentimentByCategory
	Channels            []models.ChannelMetrics
	ChannelTrends       []models.ChannelTrendCount
	CountryCategory     []models.CountryCategorySummary
	CategoryCountry     []models.CategoryCountryMetrics
	HourlyByCountry     map[string][]models.HourlyViews
	DailyByCountry      map[string][]models.DailyViews
	Countries           []string
	TimeAnalysis        []models.TimeAnalysisRow
	CategoryPerformance []models.CategoryPerformanceRow
	ChannelPerformance  []models.ChannelPerformanceRow
}

// BuildTables computes every aggregate view from the enriched record set.
func BuildTables(videos []models.Video) Tables {
	hourlyByCountry, countries := aggregate.HourlyByCountry(videos)
	dailyByCountry, _ := aggregate.DailyByCountry(videos)
	return Tables{
		CategoryIDViews:     aggregate.ByCategoryID(videos),
		CategoryAvgViews:    aggregate.ByCategoryName(videos),
		Hourly:              aggregate.ByHour(videos),
		Daily:               aggregate.ByDay(videos),
		SentimentByCategory: aggregate.SentimentByCategory(videos),
		Channels:            aggregate.Channels(videos),
		ChannelTrends:       aggregate.ChannelTrendCounts(videos),
		CountryCategory:     aggregate.CountryCategory(videos),
		CategoryCountry:     aggregate.CategoryCountry(videos),
		HourlyByCountry:     hourlyByCountry,
		DailyByCountry:      dailyByCountry,
		Countries:           countries,
		TimeAnalysis:        aggregate.TimeAnalysis(videos),
		CategoryPerformance: aggregate.CategoryPerformance(videos),
		ChannelPerformance:  aggregate.ChannelPerformance(videos),
	}
}

// PrintSummary writes the formatted console report: overall results,
// detailed results and the country-specific section.
func PrintSummary(w io.Writer, videos []models.Video, t Tables) {
	fmt.Fprintf(w, "\n=== YouTube Trending Video Analysis Results ===\n")
	fmt.Fprintf(w, "\nTotal number of videos analyzed: %d\n", len(videos))

	fmt.Fprintf(w, "\nTop 5 Categories by Average Views:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range top(t.CategoryIDViews, 5) {
		fmt.Fprintf(tw, "%d\t%.2f\n", r.CategoryID, r.AvgViews)
	}
	tw.Flush()

	if eng := aggregate.MeanEngagement(videos); eng.Valid {
		fmt.Fprintf(w, "\nAverage Engagement Rate: %.2f%%\n", eng.Float64)
	} else {
		fmt.Fprintf(w, "\nAverage Engagement Rate: not available\n")
	}

	fmt.Fprintf(w, "\nMost Common Publishing Days:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	byCount := append([]models.DailyViews(nil), t.Daily...)
	sort.SliceStable(byCount, func(i, j int) bool { return byCount[i].Count > byCount[j].Count })
	for _, r := range top(byCount, 5) {
		fmt.Fprintf(tw, "%s\t%d\n", r.Day, r.Count)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nAverage Days to Trend: %.2f days\n", aggregate.MeanDaysToTrend(videos))

	fmt.Fprintf(w, "\n=== Detailed Analysis Results ===\n")

	fmt.Fprintf(w, "\nTop 5 Categories by Sentiment:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range top(t.SentimentByCategory, 5) {
		fmt.Fprintf(tw, "%s\t%.4f\n", r.Category, r.AvgSentiment)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nBest Publishing Hours (Top 3):\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range topHours(t.Hourly, 3) {
		fmt.Fprintf(tw, "%02d:00\t%.2f\n", r.Hour, r.AvgViews)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nBest Publishing Days (Top 3):\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	byViews := append([]models.DailyViews(nil), t.Daily...)
	sort.SliceStable(byViews, func(i, j int) bool { return byViews[i].AvgViews > byViews[j].AvgViews })
	for _, r := range top(byViews, 3) {
		fmt.Fprintf(tw, "%s\t%.2f\n", r.Day, r.AvgViews)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nChannel Performance Summary:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "channel\tavg_views\ttotal_views\tvideo_count\tavg_likes\tavg_comments\tavg_engagement\n")
	for _, r := range top(t.Channels, 5) {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%d\t%.2f\t%.2f\t%s\n",
			r.Channel, r.AvgViews, r.TotalViews, r.VideoCount, r.AvgLikes, r.AvgComments, nullStr(r.AvgEngagement))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n=== Country-Specific Analysis Results ===\n")

	fmt.Fprintf(w, "\nBest Publishing Hours by Country:\n")
	for _, country := range t.Countries {
		fmt.Fprintf(w, "\n%s:\n", country)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range topHours(t.HourlyByCountry[country], 3) {
			fmt.Fprintf(tw, "%02d:00\t%.2f\n", r.Hour, r.AvgViews)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nCategory Performance by Country:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "country\tcategory\tavg_views\tavg_engagement\tcount\n")
	for _, r := range t.CountryCategory {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%d\n", r.Country, r.Category, r.AvgViews, nullStr(r.AvgEngagement), r.Count)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nDetailed Category Metrics:\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "category\tcountry\tavg_views\tmedian_views\tstd_views\tavg_likes\tavg_comments\tavg_engagement\tavg_days_to_trend\n")
	for _, r := range t.CategoryCountry {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%.2f\n",
			r.Category, r.Country, r.AvgViews, r.MedianViews, r.StdViews,
			r.AvgLikes, r.AvgComments, nullStr(r.AvgEngagement), r.AvgDaysToTrend)
	}
	tw.Flush()
}

func top[T any](rows []T, n int) []T {
	if len(rows) < n {
		return rows
	}
	return rows[:n]
}

func topHours(rows []models.HourlyViews, n int) []models.HourlyViews {
	ranked := append([]models.HourlyViews(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AvgViews > ranked[j].AvgViews })
	return top(ranked, n)
}

func nullStr(nf sql.NullFloat64) string {
	if !nf.Valid {
		return "not available"
	}
	return fmt.Sprintf("%.2f", nf.Float64)
}
