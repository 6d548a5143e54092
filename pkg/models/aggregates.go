package models

import "database/sql"

// One result type per aggregation. All of these are derived, read-only views
// over the enriched record set and are recomputed from scratch each run.

type CategoryIDViews struct {
	CategoryID int     `json:"category_id"`
	AvgViews   float64 `json:"avg_views"`
}

type CategoryAvgViews struct {
	Category string  `json:"category"`
	AvgViews float64 `json:"avg_views"`
}

type HourlyViews struct {
	Hour     int     `json:"hour"`
	AvgViews float64 `json:"avg_views"`
}

type DailyViews struct {
	Day      string  `json:"day"`
	AvgViews float64 `json:"avg_views"`
	Count    int     `json:"count"`
}

type SentimentByCategory struct {
	Category     string  `json:"category"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

type CountryCategorySummary struct {
	Country       string          `json:"country"`
	Category      string          `json:"category"`
	AvgViews      float64         `json:"avg_views"`
	AvgEngagement sql.NullFloat64 `json:"avg_engagement"`
	Count         int             `json:"count"`
}

// ChannelMetrics ranks channels by total views descending.
type ChannelMetrics struct {
	Channel       string          `json:"channel"`
	AvgViews      float64         `json:"avg_views"`
	TotalViews    int64           `json:"total_views"`
	VideoCount    int             `json:"video_count"`
	AvgLikes      float64         `json:"avg_likes"`
	AvgComments   float64         `json:"avg_comments"`
	AvgEngagement sql.NullFloat64 `json:"avg_engagement"`
}

type ChannelTrendCount struct {
	Channel    string `json:"channel_title"`
	TrendCount int    `json:"trend_count"`
}

type CategoryCountryMetrics struct {
	Category       string          `json:"category"`
	Country        string          `json:"country"`
	AvgViews       float64         `json:"avg_views"`
	MedianViews    float64         `json:"median_views"`
	StdViews       float64         `json:"std_views"` // NaN for single-row groups
	AvgLikes       float64         `json:"avg_likes"`
	AvgComments    float64         `json:"avg_comments"`
	AvgEngagement  sql.NullFloat64 `json:"avg_engagement"`
	AvgDaysToTrend float64         `json:"avg_days_to_trend"`
}

// CorrelationMatrix holds pairwise Pearson correlations over the fixed
// numeric column set. Values is square and symmetric with 1 on the diagonal;
// degenerate pairs are NaN.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the correlation between columns i and j.
func (m CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

type TimeAnalysisRow struct {
	Country       string          `json:"country"`
	Hour          int             `json:"hour"`
	Day           string          `json:"day"`
	AvgViews      float64         `json:"avg_views"`
	TotalViews    int64           `json:"total_views"`
	VideoCount    int             `json:"video_count"`
	AvgLikes      float64         `json:"avg_likes"`
	AvgComments   float64         `json:"avg_comments"`
	AvgEngagement sql.NullFloat64 `json:"avg_engagement"`
}

type CategoryPerformanceRow struct {
	Category       string          `json:"category"`
	Country        string          `json:"country"`
	AvgViews       float64         `json:"avg_views"`
	TotalViews     int64           `json:"total_views"`
	VideoCount     int             `json:"video_count"`
	AvgLikes       float64         `json:"avg_likes"`
	AvgComments    float64         `json:"avg_comments"`
	AvgEngagement  sql.NullFloat64 `json:"avg_engagement"`
	AvgDaysToTrend float64         `json:"avg_days_to_trend"`
	AvgSentiment   float64         `json:"avg_sentiment"`
}

type ChannelPerformanceRow struct {
	Channel        string          `json:"channel"`
	Country        string          `json:"country"`
	Category       string          `json:"category"`
	AvgViews       float64         `json:"avg_views"`
	TotalViews     int64           `json:"total_views"`
	VideoCount     int             `json:"video_count"`
	AvgLikes       float64         `json:"avg_likes"`
	AvgComments    float64         `json:"avg_comments"`
	AvgEngagement  sql.NullFloat64 `json:"avg_engagement"`
	AvgDaysToTrend float64         `json:"avg_days_to_trend"`
}
