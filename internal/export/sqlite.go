package export

import (
	"context"
	"database/sql"
	"fmt"

	"trendhub/pkg/models"
)

const videosSchema = `
CREATE TABLE videos (
	video_id         TEXT      NOT NULL,
	title            TEXT      NOT NULL,
	channel_title    TEXT      NOT NULL,
	category_id      INTEGER   NOT NULL,
	publish_time     TIMESTAMP NOT NULL,
	trending_date    TIMESTAMP NOT NULL,
	views            INTEGER   NOT NULL,
	likes            INTEGER   NOT NULL,
	dislikes         INTEGER   NOT NULL,
	comment_count    INTEGER   NOT NULL,
	country          TEXT      NOT NULL,
	publish_hour     INTEGER   NOT NULL,
	publish_day      TEXT      NOT NULL,
	publish_month    INTEGER   NOT NULL,
	publish_year     INTEGER   NOT NULL,
	days_to_trend    INTEGER   NOT NULL,
	title_sentiment  REAL      NOT NULL,
	sentiment_label  TEXT      NOT NULL,
	engagement_rate  REAL,
	category         TEXT,
	like_ratio       REAL,
	comment_ratio    REAL,
	engagement_score REAL,
	PRIMARY KEY (video_id, trending_date)
);`

// ReplaceVideos rebuilds the videos table from the enriched record set. Drop,
// create and every insert run inside one transaction, so a reader either sees
// the previous table or the complete new one, never a partial write.
func ReplaceVideos(ctx context.Context, db *sql.DB, videos []models.Video) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS videos`); err != nil {
		return fmt.Errorf("drop videos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, videosSchema); err != nil {
		return fmt.Errorf("create videos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO videos (
			video_id, title, channel_title, category_id, publish_time,
			trending_date, views, likes, dislikes, comment_count, country,
			publish_hour, publish_day, publish_month, publish_year,
			days_to_trend, title_sentiment, sentiment_label, engagement_rate,
			category, like_ratio, comment_ratio, engagement_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range videos {
		v := &videos[i]
		if _, err := stmt.ExecContext(
			ctx,
			v.VideoID,
			v.Title,
			v.ChannelTitle,
			v.CategoryID,
			v.PublishTime,
			v.TrendingDate,
			v.Views,
			v.Likes,
			v.Dislikes,
			v.CommentCount,
			v.Country,
			v.PublishHour,
			v.PublishDay,
			v.PublishMonth,
			v.PublishYear,
			v.DaysToTrend,
			v.TitleSentiment,
			v.SentimentLabel,
			v.EngagementRate,
			v.Category,
			v.LikeRatio,
			v.CommentRatio,
			v.EngagementScore,
		); err != nil {
			return fmt.Errorf("insert video %s: %w", v.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadVideos loads the exported table back, in insertion order. Used by the
// round-trip checks and anything that wants to re-aggregate from the store.
func ReadVideos(ctx context.Context, db *sql.DB) ([]models.Video, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT video_id, title, channel_title, category_id, publish_time,
		       trending_date, views, likes, dislikes, comment_count, country,
		       publish_hour, publish_day, publish_month, publish_year,
		       days_to_trend, title_sentiment, sentiment_label,
		       engagement_rate, category, like_ratio, comment_ratio,
		       engagement_score
		FROM videos
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(
			&v.VideoID, &v.Title, &v.ChannelTitle, &v.CategoryID,
			&v.PublishTime, &v.TrendingDate, &v.Views, &v.Likes, &v.Dislikes,
			&v.CommentCount, &v.Country, &v.PublishHour, &v.PublishDay,
			&v.PublishMonth, &v.PublishYear, &v.DaysToTrend,
			&v.TitleSentiment, &v.SentimentLabel, &v.EngagementRate,
			&v.Category, &v.LikeRatio, &v.CommentRatio, &v.EngagementScore,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

// RecordRun appends one provenance row for a finished pipeline run.
func RecordRun(ctx context.Context, db *sql.DB, run models.Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, video_count, status)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.VideoCount, run.Status)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}
