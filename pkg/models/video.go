package models

import (
	"database/sql"
	"time"
)

// Sentiment labels assigned by strict sign of the compound polarity score.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// CategoryNotAvailable is the display bucket for records whose category_id
// has no entry in the category mapping. Aggregations group such records
// under this label instead of dropping them.
const CategoryNotAvailable = "not available"

// Video is one trending observation: a (video, trending date) pair from a
// regional export, plus the features derived by the enricher. Ratios that
// are undefined for a record (views = 0) are carried as invalid Null values,
// never as zero.
type Video struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	CategoryID   int       `json:"category_id"`
	PublishTime  time.Time `json:"publish_time"`
	TrendingDate time.Time `json:"trending_date"`
	Views        int64     `json:"views"`
	Likes        int64     `json:"likes"`
	Dislikes     int64     `json:"dislikes"`
	CommentCount int64     `json:"comment_count"`
	Country      string    `json:"country"`

	// derived by the enricher
	PublishHour    int             `json:"publish_hour"`
	PublishDay     string          `json:"publish_day"`
	PublishMonth   int             `json:"publish_month"`
	PublishYear    int             `json:"publish_year"`
	DaysToTrend    int             `json:"days_to_trend"`
	TitleSentiment float64         `json:"title_sentiment"`
	SentimentLabel string          `json:"sentiment_label"`
	EngagementRate sql.NullFloat64 `json:"engagement_rate"`
	Category       sql.NullString  `json:"category"`

	// BI dataset extras
	LikeRatio       sql.NullFloat64 `json:"like_ratio"`
	CommentRatio    sql.NullFloat64 `json:"comment_ratio"`
	EngagementScore sql.NullFloat64 `json:"engagement_score"`
}

// CategoryLabel returns the grouping bucket for the record's category.
func (v *Video) CategoryLabel() string {
	if v.Category.Valid {
		return v.Category.String
	}
	return CategoryNotAvailable
}

// Run records one pipeline execution for provenance.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	VideoCount int       `json:"video_count"`
	Status     string    `json:"status"`
}
