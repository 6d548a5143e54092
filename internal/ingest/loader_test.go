package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "video_id,trending_date,title,channel_title,category_id,publish_time,tags,views,likes,dislikes,comment_count,thumbnail_link,comments_disabled,ratings_disabled,video_error_or_removed,description\n"

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "videos.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvHeader+rows), 0o644))
	return path
}

func TestLoadVideosParsesRow(t *testing.T) {
	path := writeCSV(t, `abc123,17.14.11,"Song, live",VEVO,10,2017-11-13T17:13:01.000Z,"music",1000,100,10,40,thumb,False,False,False,desc`+"\n")

	videos, err := LoadVideos([]Source{{Path: path, Country: "US"}})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "abc123", v.VideoID)
	assert.Equal(t, "Song, live", v.Title)
	assert.Equal(t, "VEVO", v.ChannelTitle)
	assert.Equal(t, 10, v.CategoryID)
	assert.Equal(t, "US", v.Country)
	assert.Equal(t, int64(1000), v.Views)
	assert.Equal(t, int64(100), v.Likes)
	assert.Equal(t, int64(10), v.Dislikes)
	assert.Equal(t, int64(40), v.CommentCount)

	// trending_date is yy.dd.MM, so "17.14.11" means 2017-11-14.
	assert.Equal(t, time.Date(2017, 11, 14, 0, 0, 0, 0, time.UTC), v.TrendingDate)
	assert.Equal(t, time.Date(2017, 11, 13, 17, 13, 1, 0, time.UTC), v.PublishTime)
}

func TestLoadVideosConcatenatesSourcesInOrder(t *testing.T) {
	us := writeCSV(t, "a,17.14.11,T,C,10,2017-11-13T00:00:00.000Z,tags,1,0,0,0,th,False,False,False,d\n")
	in := writeCSV(t, "b,17.14.11,T,C,10,2017-11-13T00:00:00.000Z,tags,2,0,0,0,th,False,False,False,d\n")

	videos, err := LoadVideos([]Source{{Path: us, Country: "US"}, {Path: in, Country: "IN"}})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "US", videos[0].Country)
	assert.Equal(t, "IN", videos[1].Country)
}

func TestLoadVideosMissingFile(t *testing.T) {
	_, err := LoadVideos([]Source{{Path: filepath.Join(t.TempDir(), "nope.csv"), Country: "US"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadVideosBadTrendingDate(t *testing.T) {
	path := writeCSV(t, "a,2017-11-14,T,C,10,2017-11-13T00:00:00.000Z,tags,1,0,0,0,th,False,False,False,d\n")

	_, err := LoadVideos([]Source{{Path: path, Country: "US"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trending_date")
	assert.Contains(t, err.Error(), ":2:") // failing line number
}

func TestLoadVideosBadViewCount(t *testing.T) {
	path := writeCSV(t, "a,17.14.11,T,C,10,2017-11-13T00:00:00.000Z,tags,lots,0,0,0,th,False,False,False,d\n")

	_, err := LoadVideos([]Source{{Path: path, Country: "US"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "views")
}

func TestLoadVideosHeaderCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.csv")
	content := "Video_ID,Trending_Date,Title,Channel_Title,Category_ID,Publish_Time,Views,Likes,Dislikes,Comment_Count\n" +
		"a,17.14.11,T,C,10,2017-11-13T00:00:00.000Z,5,1,0,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	videos, err := LoadVideos([]Source{{Path: path, Country: "US"}})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, int64(5), videos[0].Views)
}

func TestLoadCategoryMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	content := `{"items": [
		{"id": "10", "snippet": {"title": "Music"}},
		{"id": "24", "snippet": {"title": "Entertainment"}}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadCategoryMap(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10": "Music", "24": "Entertainment"}, m)
}

func TestLoadCategoryMapMissingFile(t *testing.T) {
	_, err := LoadCategoryMap(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCategoryMapMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadCategoryMap(path)
	require.Error(t, err)
}
