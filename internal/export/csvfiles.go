package export

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"trendhub/pkg/models"
)

// OutputTables are the aggregate summaries written for external BI tooling.
type OutputTables struct {
	CountryCategory  []models.CountryCategorySummary
	CategoryAvgViews []models.CategoryAvgViews
	ChannelTrends    []models.ChannelTrendCount
	Correlation      models.CorrelationMatrix
	Channels         []models.ChannelMetrics
	CategoryCountry  []models.CategoryCountryMetrics
}

// BITables are the dashboard-ingestion datasets.
type BITables struct {
	Videos              []models.Video
	TimeAnalysis        []models.TimeAnalysisRow
	CategoryPerformance []models.CategoryPerformanceRow
	ChannelPerformance  []models.ChannelPerformanceRow
}

// WriteOutputs writes every aggregate summary file under dir. Each file is
// written to a temp file first and renamed into place, so readers never see
// a half-written table. Any failure is fatal for the stage.
func WriteOutputs(dir string, t OutputTables) error {
	rows := make([][]string, 0, len(t.CountryCategory))
	for _, r := range t.CountryCategory {
		rows = append(rows, []string{r.Country, r.Category, ffloat(r.AvgViews), fnull(r.AvgEngagement), strconv.Itoa(r.Count)})
	}
	if err := writeCSV(filepath.Join(dir, "country_category_summary.csv"),
		[]string{"country", "category", "avg_views", "avg_engagement", "count"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.CategoryAvgViews {
		rows = append(rows, []string{r.Category, ffloat(r.AvgViews)})
	}
	if err := writeCSV(filepath.Join(dir, "category_avg_views.csv"),
		[]string{"category", "avg_views"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.ChannelTrends {
		rows = append(rows, []string{r.Channel, strconv.Itoa(r.TrendCount)})
	}
	if err := writeCSV(filepath.Join(dir, "top_trending_channels.csv"),
		[]string{"channel_title", "trend_count"}, rows); err != nil {
		return err
	}

	if err := writeCorrelation(filepath.Join(dir, "correlation_matrix.csv"), t.Correlation); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.Channels {
		rows = append(rows, []string{
			r.Channel, f2(r.AvgViews), strconv.FormatInt(r.TotalViews, 10),
			strconv.Itoa(r.VideoCount), f2(r.AvgLikes), f2(r.AvgComments), fnull2(r.AvgEngagement),
		})
	}
	if err := writeCSV(filepath.Join(dir, "channel_performance.csv"),
		[]string{"channel_title", "avg_views", "total_views", "video_count", "avg_likes", "avg_comments", "avg_engagement"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.CategoryCountry {
		rows = append(rows, []string{
			r.Category, r.Country, f2(r.AvgViews), f2(r.MedianViews), f2(r.StdViews),
			f2(r.AvgLikes), f2(r.AvgComments), fnull2(r.AvgEngagement), f2(r.AvgDaysToTrend),
		})
	}
	return writeCSV(filepath.Join(dir, "detailed_category_metrics.csv"),
		[]string{"category", "country", "avg_views", "median_views", "std_views", "avg_likes", "avg_comments", "avg_engagement", "avg_days_to_trend"}, rows)
}

// WritePowerBI writes the dashboard-ingestion datasets under dir.
func WritePowerBI(dir string, t BITables) error {
	header := []string{
		"video_id", "title", "channel_title", "category_id", "publish_time",
		"trending_date", "views", "likes", "dislikes", "comment_count",
		"country", "publish_hour", "publish_day", "days_to_trend",
		"title_sentiment", "sentiment_label", "engagement_rate", "category",
		"publish_date", "publish_month", "publish_year", "like_ratio",
		"comment_ratio", "engagement_score",
	}
	rows := make([][]string, 0, len(t.Videos))
	for i := range t.Videos {
		v := &t.Videos[i]
		category := ""
		if v.Category.Valid {
			category = v.Category.String
		}
		rows = append(rows, []string{
			v.VideoID, v.Title, v.ChannelTitle, strconv.Itoa(v.CategoryID),
			v.PublishTime.Format(time.RFC3339),
			v.TrendingDate.Format("2006-01-02"),
			strconv.FormatInt(v.Views, 10), strconv.FormatInt(v.Likes, 10),
			strconv.FormatInt(v.Dislikes, 10), strconv.FormatInt(v.CommentCount, 10),
			v.Country, strconv.Itoa(v.PublishHour), v.PublishDay,
			strconv.Itoa(v.DaysToTrend), ffloat(v.TitleSentiment), v.SentimentLabel,
			fnull(v.EngagementRate), category,
			v.PublishTime.Format("2006-01-02"), strconv.Itoa(v.PublishMonth),
			strconv.Itoa(v.PublishYear), fnull(v.LikeRatio), fnull(v.CommentRatio),
			fnull(v.EngagementScore),
		})
	}
	if err := writeCSV(filepath.Join(dir, "main_dataset.csv"), header, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.TimeAnalysis {
		rows = append(rows, []string{
			r.Country, strconv.Itoa(r.Hour), r.Day, ffloat(r.AvgViews),
			strconv.FormatInt(r.TotalViews, 10), strconv.Itoa(r.VideoCount),
			ffloat(r.AvgLikes), ffloat(r.AvgComments), fnull(r.AvgEngagement),
		})
	}
	if err := writeCSV(filepath.Join(dir, "time_analysis.csv"),
		[]string{"country", "hour", "day", "avg_views", "total_views", "video_count", "avg_likes", "avg_comments", "avg_engagement"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.CategoryPerformance {
		rows = append(rows, []string{
			r.Category, r.Country, ffloat(r.AvgViews),
			strconv.FormatInt(r.TotalViews, 10), strconv.Itoa(r.VideoCount),
			ffloat(r.AvgLikes), ffloat(r.AvgComments), fnull(r.AvgEngagement),
			ffloat(r.AvgDaysToTrend), ffloat(r.AvgSentiment),
		})
	}
	if err := writeCSV(filepath.Join(dir, "category_performance.csv"),
		[]string{"category", "country", "avg_views", "total_views", "video_count", "avg_likes", "avg_comments", "avg_engagement", "avg_days_to_trend", "avg_sentiment"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range t.ChannelPerformance {
		rows = append(rows, []string{
			r.Channel, r.Country, r.Category, ffloat(r.AvgViews),
			strconv.FormatInt(r.TotalViews, 10), strconv.Itoa(r.VideoCount),
			ffloat(r.AvgLikes), ffloat(r.AvgComments), fnull(r.AvgEngagement),
			ffloat(r.AvgDaysToTrend),
		})
	}
	return writeCSV(filepath.Join(dir, "channel_performance.csv"),
		[]string{"channel", "country", "category", "avg_views", "total_views", "video_count", "avg_likes", "avg_comments", "avg_engagement", "avg_days_to_trend"}, rows)
}

func writeCorrelation(path string, m models.CorrelationMatrix) error {
	header := append([]string{""}, m.Columns...)
	rows := make([][]string, 0, len(m.Columns))
	for i, name := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, name)
		for j := range m.Columns {
			row = append(row, ffloat(m.Values[i][j]))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// writeCSV writes header and rows atomically: temp file in the target
// directory, then rename.
func writeCSV(path string, header []string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err = w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// ffloat formats with full precision; NaN (degenerate aggregate) becomes an
// empty cell.
func ffloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// f2 rounds to two decimals, matching the rounded summary tables.
func f2(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// fnull renders an unavailable value as an empty cell, never as zero.
func fnull(nf sql.NullFloat64) string {
	if !nf.Valid {
		return ""
	}
	return ffloat(nf.Float64)
}

func fnull2(nf sql.NullFloat64) string {
	if !nf.Valid {
		return ""
	}
	return f2(nf.Float64)
}
