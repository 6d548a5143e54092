package enrich

import (
	"database/sql"
	"strconv"
	"time"

	"trendhub/pkg/models"
)

type dedupKey struct {
	videoID string
	date    string
}

// Enrich derives every per-record feature and drops duplicate trending
// observations, keeping the first occurrence of each (video_id,
// trending_date) pair. Time features come first; dedup runs before the
// sentiment and engagement passes so duplicates are never scored.
func Enrich(videos []models.Video, categories map[string]string, scorer *Scorer) []models.Video {
	out := make([]models.Video, 0, len(videos))
	seen := make(map[dedupKey]bool, len(videos))

	for _, v := range videos {
		applyTimeFeatures(&v)

		key := dedupKey{v.VideoID, v.TrendingDate.Format("2006-01-02")}
		if seen[key] {
			continue
		}
		seen[key] = true

		v.TitleSentiment = scorer.Score(v.Title)
		v.SentimentLabel = Label(v.TitleSentiment)
		applyEngagement(&v)
		applyCategory(&v, categories)

		out = append(out, v)
	}
	return out
}

func applyTimeFeatures(v *models.Video) {
	pt := v.PublishTime
	v.PublishHour = pt.Hour()
	v.PublishDay = pt.Weekday().String()
	v.PublishMonth = int(pt.Month())
	v.PublishYear = pt.Year()

	// whole days between the trending date and the publish date with the
	// time of day stripped; negative values pass through untouched
	midnight := time.Date(pt.Year(), pt.Month(), pt.Day(), 0, 0, 0, 0, time.UTC)
	v.DaysToTrend = int(v.TrendingDate.Sub(midnight) / (24 * time.Hour))
}

func applyEngagement(v *models.Video) {
	if v.Views == 0 {
		// undefined, not zero: the ratios stay unavailable
		return
	}
	views := float64(v.Views)
	interactions := float64(v.Likes + v.Dislikes + v.CommentCount)

	v.EngagementRate = valid(interactions / views * 100)
	v.EngagementScore = valid(interactions / views)
	v.LikeRatio = valid(float64(v.Likes) / views)
	v.CommentRatio = valid(float64(v.CommentCount) / views)
}

func applyCategory(v *models.Video, categories map[string]string) {
	if name, ok := categories[strconv.Itoa(v.CategoryID)]; ok {
		v.Category = sql.NullString{String: name, Valid: true}
	}
}

func valid(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}
