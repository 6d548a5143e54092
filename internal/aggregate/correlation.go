package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"trendhub/pkg/models"
)

// CorrelationColumns is the fixed numeric column set of the correlation
// matrix, in export order.
var CorrelationColumns = []string{
	"views", "likes", "dislikes", "comment_count", "engagement_rate", "days_to_trend",
}

// Correlation computes the pairwise Pearson correlation matrix over the
// fixed column set. Rows where a column is unavailable are excluded for the
// pairs involving that column only; pairs with fewer than two complete rows
// come out NaN. The matrix is symmetric with exactly 1 on the diagonal.
func Correlation(videos []models.Video) models.CorrelationMatrix {
	n := len(CorrelationColumns)
	cols := make([][]float64, n)
	for i := range cols {
		cols[i] = make([]float64, len(videos))
	}
	for r := range videos {
		v := &videos[r]
		cols[0][r] = float64(v.Views)
		cols[1][r] = float64(v.Likes)
		cols[2][r] = float64(v.Dislikes)
		cols[3][r] = float64(v.CommentCount)
		if v.EngagementRate.Valid {
			cols[4][r] = v.EngagementRate.Float64
		} else {
			cols[4][r] = math.NaN()
		}
		cols[5][r] = float64(v.DaysToTrend)
	}

	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		vals[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(cols[i], cols[j])
			vals[i][j] = r
			vals[j][i] = r
		}
	}

	return models.CorrelationMatrix{Columns: CorrelationColumns, Values: vals}
}

func pairwisePearson(xs, ys []float64) float64 {
	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for k := range xs {
		if math.IsNaN(xs[k]) || math.IsNaN(ys[k]) {
			continue
		}
		px = append(px, xs[k])
		py = append(py, ys[k])
	}
	if len(px) < 2 {
		return math.NaN()
	}
	return stat.Correlation(px, py, nil)
}
