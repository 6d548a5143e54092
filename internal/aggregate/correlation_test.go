package aggregate

import (
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/pkg/models"
)

func corrVideo(views, likes, dislikes, comments int64, days int) models.Video {
	return models.Video{
		Views:        views,
		Likes:        likes,
		Dislikes:     dislikes,
		CommentCount: comments,
		DaysToTrend:  days,
	}
}

func TestCorrelationShapeAndDiagonal(t *testing.T) {
	videos := []models.Video{
		corrVideo(100, 10, 1, 5, 1),
		corrVideo(200, 30, 2, 9, 3),
		corrVideo(300, 20, 4, 7, 2),
	}

	m := Correlation(videos)
	require.Equal(t, CorrelationColumns, m.Columns)
	require.Len(t, m.Values, len(CorrelationColumns))
	for i, row := range m.Values {
		require.Len(t, row, len(CorrelationColumns))
		assert.Equal(t, 1.0, m.At(i, i))
	}
}

func TestCorrelationSymmetric(t *testing.T) {
	videos := []models.Video{
		corrVideo(100, 10, 1, 5, 1),
		corrVideo(200, 30, 2, 9, 3),
		corrVideo(300, 20, 4, 7, 2),
		corrVideo(50, 5, 8, 2, 5),
	}

	m := Correlation(videos)
	for i := range m.Values {
		for j := range m.Values {
			a, b := m.At(i, j), m.At(j, i)
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b)
		}
	}
}

func TestCorrelationPerfectlyLinearPair(t *testing.T) {
	// likes = views / 10, so views vs likes correlates at exactly 1.
	videos := []models.Video{
		corrVideo(100, 10, 3, 5, 1),
		corrVideo(200, 20, 1, 9, 3),
		corrVideo(400, 40, 7, 2, 2),
	}

	m := Correlation(videos)
	assert.InDelta(t, 1, m.At(0, 1), 1e-9)
}

func TestCorrelationSkipsUnavailableEngagement(t *testing.T) {
	a := corrVideo(100, 10, 1, 5, 1)
	a.EngagementRate = sql.NullFloat64{Float64: 16, Valid: true}
	b := corrVideo(200, 20, 2, 9, 3) // engagement unavailable, excluded pairwise
	c := corrVideo(400, 40, 4, 2, 2)
	c.EngagementRate = sql.NullFloat64{Float64: 11.5, Valid: true}

	m := Correlation([]models.Video{a, b, c})

	// views vs likes still uses all three rows.
	assert.InDelta(t, 1, m.At(0, 1), 1e-9)
	// views vs engagement_rate falls back to the two complete rows.
	assert.InDelta(t, -1, m.At(0, 4), 1e-9)
}

func TestCorrelationDegeneratePairIsNaN(t *testing.T) {
	a := corrVideo(100, 10, 1, 5, 1)
	a.EngagementRate = sql.NullFloat64{Float64: 16, Valid: true}
	b := corrVideo(200, 20, 2, 9, 3)
	c := corrVideo(400, 40, 4, 2, 2)

	// Only one row carries engagement_rate, so every pair against it is NaN.
	m := Correlation([]models.Video{a, b, c})
	for i := range CorrelationColumns {
		if i == 4 {
			continue
		}
		assert.True(t, math.IsNaN(m.At(i, 4)), "column %s", CorrelationColumns[i])
	}
	assert.Equal(t, 1.0, m.At(4, 4))
}
