package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/internal/export"
	"trendhub/pkg/models"
)

func seedVideo(id, channel, country, category string, views int64) models.Video {
	v := models.Video{
		VideoID:        id,
		Title:          "Title " + id,
		ChannelTitle:   channel,
		CategoryID:     10,
		PublishTime:    time.Date(2017, 11, 13, 17, 0, 0, 0, time.UTC),
		TrendingDate:   time.Date(2017, 11, 14, 0, 0, 0, 0, time.UTC),
		Views:          views,
		Likes:          views / 10,
		Country:        country,
		PublishHour:    17,
		PublishDay:     "Monday",
		PublishMonth:   11,
		PublishYear:    2017,
		DaysToTrend:    1,
		SentimentLabel: models.SentimentNeutral,
	}
	if category != "" {
		v.Category = sql.NullString{String: category, Valid: true}
	}
	if views > 0 {
		v.EngagementRate = sql.NullFloat64{Float64: 5, Valid: true}
	}
	return v
}

func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE runs (
			id          TEXT PRIMARY KEY,
			started_at  TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			video_count INTEGER   NOT NULL,
			status      TEXT      NOT NULL
		)
	`)
	require.NoError(t, err)

	require.NoError(t, export.ReplaceVideos(context.Background(), db, []models.Video{
		seedVideo("a", "ChanOne", "US", "Music", 1000),
		seedVideo("b", "ChanOne", "US", "Comedy", 3000),
		seedVideo("c", "ChanTwo", "IN", "Music", 500),
		seedVideo("d", "ChanThree", "IN", "", 0),
	}))

	r := gin.New()
	NewHandler(NewRepo(db)).RegisterRoutes(r.Group("/api"))
	return r, db
}

func doGET(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSummaryEndpoint(t *testing.T) {
	r, db := newTestRouter(t)

	require.NoError(t, export.RecordRun(context.Background(), db, models.Run{
		ID:         "run-1",
		StartedAt:  time.Date(2018, 1, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2018, 1, 1, 12, 5, 0, 0, time.UTC),
		VideoCount: 4,
		Status:     "ok",
	}))

	w, body := doGET(t, r, "/api/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), body["total_videos"])
	require.NotNil(t, body["latest_run"])
	run := body["latest_run"].(map[string]any)
	assert.Equal(t, "run-1", run["id"])
}

func TestSummaryEndpointWithoutRuns(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), body["total_videos"])
	assert.Nil(t, body["latest_run"])
}

func TestVideosEndpointFilters(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/videos?country=US")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	// ordered by views descending
	first := items[0].(map[string]any)
	assert.Equal(t, "b", first["video_id"])
}

func TestVideosEndpointNotAvailableCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/videos?category=not+available")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "d", items[0].(map[string]any)["video_id"])
}

func TestVideosEndpointLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/videos?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["limit"])
	assert.Len(t, body["items"].([]any), 2)

	// garbage limit falls back to the default
	_, body = doGET(t, r, "/api/videos?limit=bogus")
	assert.Equal(t, float64(20), body["limit"])
}

func TestCategoriesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 3)

	var names []string
	for _, it := range items {
		names = append(names, it.(map[string]any)["category"].(string))
	}
	assert.Contains(t, names, "Music")
	assert.Contains(t, names, models.CategoryNotAvailable)
	// ranked by average views, so Comedy (3000) leads
	assert.Equal(t, "Comedy", names[0])
}

func TestChannelsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doGET(t, r, "/api/channels?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 2)

	top := items[0].(map[string]any)
	assert.Equal(t, "ChanOne", top["channel"])
	assert.Equal(t, float64(4000), top["total_views"])
}
