package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"trendhub/pkg/models"
)

// trendingDateLayout is the yy.dd.MM format the Kaggle trending exports use
// (e.g. "17.14.11" for 2017-11-14).
const trendingDateLayout = "06.02.01"

// Source pairs one regional CSV export with its region tag.
type Source struct {
	Path    string
	Country string
}

// LoadVideos reads every source file and concatenates the records in input
// order, tagging each with its region. Any missing file or malformed row is
// fatal for the whole load: downstream date arithmetic needs clean types.
// Use errors.Is(err, os.ErrNotExist) to distinguish a missing input from a
// schema problem.
func LoadVideos(sources []Source) ([]models.Video, error) {
	var videos []models.Video
	for _, src := range sources {
		vs, err := loadFile(src.Path, src.Country)
		if err != nil {
			return nil, err
		}
		videos = append(videos, vs...)
	}
	return videos, nil
}

func loadFile(path, country string) ([]models.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var videos []models.Video
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++
		if len(row) == 0 {
			continue
		}

		v, err := parseRow(header, row, country)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		videos = append(videos, v)
	}

	return videos, nil
}

func parseRow(header map[string]int, row []string, country string) (models.Video, error) {
	v := models.Video{
		VideoID:      valueAt(header, row, "video_id"),
		Title:        valueAt(header, row, "title"),
		ChannelTitle: valueAt(header, row, "channel_title"),
		Country:      country,
	}

	categoryID, err := strconv.Atoi(valueAt(header, row, "category_id"))
	if err != nil {
		return v, fmt.Errorf("parse category_id: %w", err)
	}
	v.CategoryID = categoryID

	v.TrendingDate, err = parseTrendingDate(valueAt(header, row, "trending_date"))
	if err != nil {
		return v, err
	}
	v.PublishTime, err = parsePublishTime(valueAt(header, row, "publish_time"))
	if err != nil {
		return v, err
	}

	counts := []struct {
		name string
		dst  *int64
	}{
		{"views", &v.Views},
		{"likes", &v.Likes},
		{"dislikes", &v.Dislikes},
		{"comment_count", &v.CommentCount},
	}
	for _, c := range counts {
		n, err := strconv.ParseInt(valueAt(header, row, c.name), 10, 64)
		if err != nil {
			return v, fmt.Errorf("parse %s: %w", c.name, err)
		}
		*c.dst = n
	}

	return v, nil
}

// parseTrendingDate yields a UTC midnight date.
func parseTrendingDate(raw string) (time.Time, error) {
	t, err := time.Parse(trendingDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse trending_date %q: %w", raw, err)
	}
	return t, nil
}

// parsePublishTime accepts the RFC 3339 timestamps the exports carry and
// converts them to UTC wall-clock, so every later subtraction operates on
// one uniform representation.
func parsePublishTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse publish_time %q: %w", raw, err)
	}
	return t.UTC(), nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
