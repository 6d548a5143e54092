package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"trendhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type VideoQuery struct {
	Country  string
	Category string // display name; "not available" selects unmapped rows
	Limit    int
	Offset   int
}

type Summary struct {
	TotalVideos    int             `json:"total_videos"`
	AvgEngagement  sql.NullFloat64 `json:"avg_engagement"`
	AvgDaysToTrend sql.NullFloat64 `json:"avg_days_to_trend"`
	LatestRun      *models.Run     `json:"latest_run,omitempty"`
}

type CategoryStat struct {
	Category   string  `json:"category"`
	AvgViews   float64 `json:"avg_views"`
	VideoCount int     `json:"video_count"`
}

type ChannelStat struct {
	Channel       string          `json:"channel"`
	TotalViews    int64           `json:"total_views"`
	VideoCount    int             `json:"video_count"`
	AvgEngagement sql.NullFloat64 `json:"avg_engagement"`
}

func (r *Repo) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(engagement_rate), AVG(days_to_trend)
		FROM videos
	`)
	if err := row.Scan(&s.TotalVideos, &s.AvgEngagement, &s.AvgDaysToTrend); err != nil {
		return s, fmt.Errorf("scan summary: %w", err)
	}

	run := models.Run{}
	row = r.DB.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, video_count, status
		FROM runs
		ORDER BY finished_at DESC
		LIMIT 1
	`)
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.VideoCount, &run.Status)
	switch {
	case err == sql.ErrNoRows:
		// no run recorded yet; summary still valid
	case err != nil:
		return s, fmt.Errorf("scan latest run: %w", err)
	default:
		s.LatestRun = &run
	}
	return s, nil
}

func (r *Repo) Videos(ctx context.Context, q VideoQuery) ([]models.Video, error) {
	var (
		where []string
		args  []any
	)
	if q.Country != "" {
		where = append(where, "country = ?")
		args = append(args, q.Country)
	}
	if q.Category == models.CategoryNotAvailable {
		where = append(where, "category IS NULL")
	} else if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}

	query := `
		SELECT video_id, title, channel_title, category_id, publish_time,
		       trending_date, views, likes, dislikes, comment_count, country,
		       publish_hour, publish_day, days_to_trend, title_sentiment,
		       sentiment_label, engagement_rate, category
		FROM videos
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY views DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(
			&v.VideoID, &v.Title, &v.ChannelTitle, &v.CategoryID,
			&v.PublishTime, &v.TrendingDate, &v.Views, &v.Likes, &v.Dislikes,
			&v.CommentCount, &v.Country, &v.PublishHour, &v.PublishDay,
			&v.DaysToTrend, &v.TitleSentiment, &v.SentimentLabel,
			&v.EngagementRate, &v.Category,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *Repo) Categories(ctx context.Context) ([]CategoryStat, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT COALESCE(category, ?), AVG(views), COUNT(*)
		FROM videos
		GROUP BY COALESCE(category, ?)
		ORDER BY AVG(views) DESC
	`, models.CategoryNotAvailable, models.CategoryNotAvailable)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.AvgViews, &s.VideoCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *Repo) TopChannels(ctx context.Context, limit int) ([]ChannelStat, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT channel_title, SUM(views), COUNT(*), AVG(engagement_rate)
		FROM videos
		GROUP BY channel_title
		ORDER BY SUM(views) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	var stats []ChannelStat
	for rows.Next() {
		var s ChannelStat
		if err := rows.Scan(&s.Channel, &s.TotalViews, &s.VideoCount, &s.AvgEngagement); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
