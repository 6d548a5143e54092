package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"trendhub/pkg/models"
)

// ChartSet renders the visual panels under Dir. Every image is an
// independent unit of work: a failed render is logged and skipped, and the
// remaining images still get written.
type ChartSet struct {
	Dir string
	Log *logrus.Logger
}

func (c *ChartSet) RenderAll(videos []models.Video, t Tables, corr models.CorrelationMatrix) {
	renders := []struct {
		name string
		fn   func() error
	}{
		{"youtube_analysis.png", func() error { return c.renderOverview(videos, t) }},
		{"country_category_comparison.png", func() error { return c.renderCountryCategory(t) }},
		{"correlation_heatmap.png", func() error { return c.renderHeatmap(corr) }},
		{"detailed_analysis.png", func() error { return c.renderDetailed(videos, t) }},
		{"country_comparison_analysis.png", func() error { return c.renderCountryComparison(videos, t) }},
	}
	for _, r := range renders {
		if err := r.fn(); err != nil {
			c.Log.WithError(err).Warnf("skipping chart %s", r.name)
			continue
		}
		c.Log.Debugf("rendered %s", filepath.Join(c.Dir, r.name))
	}
}

func (c *ChartSet) renderOverview(videos []models.Video, t Tables) error {
	p1, err := sentimentViewsBoxes(videos)
	if err != nil {
		return err
	}

	p2 := plot.New()
	p2.Title.Text = "Average Views by Category"
	p2.Y.Label.Text = "Average Views"
	values := make(plotter.Values, 0, len(t.CategoryIDViews))
	names := make([]string, 0, len(t.CategoryIDViews))
	for _, r := range t.CategoryIDViews {
		values = append(values, r.AvgViews)
		names = append(names, fmt.Sprintf("%d", r.CategoryID))
	}
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p2.Add(bars)
	p2.NominalX(names...)
	p2.X.Tick.Label.Rotation = math.Pi / 4

	p3, err := hourlyLine(t.Hourly, "Average Views by Hour of Publication")
	if err != nil {
		return err
	}

	p4 := plot.New()
	p4.Title.Text = "Views vs Engagement Rate"
	p4.X.Label.Text = "Views (log scale)"
	p4.Y.Label.Text = "Engagement Rate (%)"
	p4.X.Scale = plot.LogScale{}
	p4.X.Tick.Marker = plot.LogTicks{Prec: -1}
	var xys plotter.XYs
	for i := range videos {
		v := &videos[i]
		if v.Views > 0 && v.EngagementRate.Valid {
			xys = append(xys, plotter.XY{X: float64(v.Views), Y: v.EngagementRate.Float64})
		}
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = plotutil.Color(1)
	p4.Add(scatter)

	return c.savePanels("youtube_analysis.png",
		[][]*plot.Plot{{p1, p2}, {p3, p4}}, 14*vg.Inch, 10*vg.Inch)
}

func (c *ChartSet) renderCountryCategory(t Tables) error {
	p, err := groupedCategoryBars(t, "Average Views by Category and Country", "Average Views",
		func(r models.CountryCategorySummary) float64 { return r.AvgViews })
	if err != nil {
		return err
	}
	return c.savePanels("country_category_comparison.png",
		[][]*plot.Plot{{p}}, 14*vg.Inch, 7*vg.Inch)
}

func (c *ChartSet) renderHeatmap(corr models.CorrelationMatrix) error {
	p := plot.New()
	p.Title.Text = "Correlation Heatmap of Key Metrics"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{corr}, cm.Palette(255))
	p.Add(hm)
	p.NominalX(corr.Columns...)
	p.NominalY(corr.Columns...)
	p.X.Tick.Label.Rotation = math.Pi / 4

	return c.savePanels("correlation_heatmap.png",
		[][]*plot.Plot{{p}}, 10*vg.Inch, 8*vg.Inch)
}

func (c *ChartSet) renderDetailed(videos []models.Video, t Tables) error {
	p1, err := hourlyLine(t.Hourly, "Average Views by Hour of Publication")
	if err != nil {
		return err
	}

	p2 := plot.New()
	p2.Title.Text = "Average Views by Day of Week"
	p2.Y.Label.Text = "Average Views"
	dayValues := make(plotter.Values, 0, len(t.Daily))
	dayNames := make([]string, 0, len(t.Daily))
	for _, r := range t.Daily {
		dayValues = append(dayValues, r.AvgViews)
		dayNames = append(dayNames, r.Day)
	}
	dayBars, err := plotter.NewBarChart(dayValues, vg.Points(14))
	if err != nil {
		return err
	}
	dayBars.Color = plotutil.Color(2)
	p2.Add(dayBars)
	p2.NominalX(dayNames...)
	p2.X.Tick.Label.Rotation = math.Pi / 4

	p3 := plot.New()
	p3.Title.Text = "Average Sentiment by Category"
	p3.Y.Label.Text = "Average Sentiment Score"
	sentValues := make(plotter.Values, 0, len(t.SentimentByCategory))
	sentNames := make([]string, 0, len(t.SentimentByCategory))
	for _, r := range t.SentimentByCategory {
		sentValues = append(sentValues, r.AvgSentiment)
		sentNames = append(sentNames, r.Category)
	}
	sentBars, err := plotter.NewBarChart(sentValues, vg.Points(10))
	if err != nil {
		return err
	}
	sentBars.Color = plotutil.Color(3)
	p3.Add(sentBars)
	p3.NominalX(sentNames...)
	p3.X.Tick.Label.Rotation = math.Pi / 4

	p4 := plot.New()
	p4.Title.Text = "Distribution of Days to Trend"
	p4.X.Label.Text = "Days to Trend"
	p4.Y.Label.Text = "Count"
	days := make(plotter.Values, 0, len(videos))
	for i := range videos {
		days = append(days, float64(videos[i].DaysToTrend))
	}
	hist, err := plotter.NewHist(days, 30)
	if err != nil {
		return err
	}
	hist.FillColor = plotutil.Color(4)
	p4.Add(hist)

	return c.savePanels("detailed_analysis.png",
		[][]*plot.Plot{{p1, p2}, {p3, p4}}, 14*vg.Inch, 10*vg.Inch)
}

func (c *ChartSet) renderCountryComparison(videos []models.Video, t Tables) error {
	p1 := plot.New()
	p1.Title.Text = "Average Views by Hour - Country Comparison"
	p1.X.Label.Text = "Hour of Day"
	p1.Y.Label.Text = "Average Views"
	for i, country := range t.Countries {
		var xys plotter.XYs
		for _, r := range t.HourlyByCountry[country] {
			xys = append(xys, plotter.XY{X: float64(r.Hour), Y: r.AvgViews})
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		p1.Add(line, points)
		p1.Legend.Add(country, line)
	}

	p2, err := groupedDailyBars(t)
	if err != nil {
		return err
	}

	p3, err := groupedCategoryBars(t, "Category Performance by Country", "Average Views",
		func(r models.CountryCategorySummary) float64 { return r.AvgViews })
	if err != nil {
		return err
	}

	p4, err := groupedCategoryBars(t, "Engagement Rate by Category and Country", "Engagement Rate (%)",
		func(r models.CountryCategorySummary) float64 {
			if !r.AvgEngagement.Valid {
				return 0
			}
			return r.AvgEngagement.Float64
		})
	if err != nil {
		return err
	}

	p5, err := countryBoxes(videos, t.Countries, "Trend Duration by Country", "Days to Trend",
		func(v *models.Video) (float64, bool) { return float64(v.DaysToTrend), true })
	if err != nil {
		return err
	}

	p6, err := countryBoxes(videos, t.Countries, "Title Sentiment by Country", "Sentiment Score",
		func(v *models.Video) (float64, bool) { return v.TitleSentiment, true })
	if err != nil {
		return err
	}

	return c.savePanels("country_comparison_analysis.png",
		[][]*plot.Plot{{p1, p2}, {p3, p4}, {p5, p6}}, 14*vg.Inch, 15*vg.Inch)
}

// sentimentViewsBoxes draws one box of view counts per sentiment label on a
// log scale, so zero-view rows are left out of this panel.
func sentimentViewsBoxes(videos []models.Video) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Sentiment vs Views"
	p.X.Label.Text = "Sentiment"
	p.Y.Label.Text = "Views (log scale)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	labels := []string{models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive}
	for i, label := range labels {
		var vals plotter.Values
		for j := range videos {
			if videos[j].SentimentLabel == label && videos[j].Views > 0 {
				vals = append(vals, float64(videos[j].Views))
			}
		}
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), vals)
		if err != nil {
			return nil, err
		}
		p.Add(box)
	}
	p.NominalX(labels...)
	return p, nil
}

func hourlyLine(hourly []models.HourlyViews, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Average Views"
	xys := make(plotter.XYs, 0, len(hourly))
	for _, r := range hourly {
		xys = append(xys, plotter.XY{X: float64(r.Hour), Y: r.AvgViews})
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(0)
	points.Color = plotutil.Color(0)
	p.Add(line, points)
	return p, nil
}

// groupedCategoryBars draws one bar series per country across the category
// buckets, metric chosen by the caller.
func groupedCategoryBars(t Tables, title, yLabel string, metric func(models.CountryCategorySummary) float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	categories := categoryList(t.CountryCategory)
	byKey := make(map[[2]string]float64, len(t.CountryCategory))
	for _, r := range t.CountryCategory {
		byKey[[2]string{r.Country, r.Category}] = metric(r)
	}

	w := vg.Points(8)
	for i, country := range t.Countries {
		values := make(plotter.Values, 0, len(categories))
		for _, cat := range categories {
			values = append(values, byKey[[2]string{country, cat}])
		}
		bars, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(i-len(t.Countries)/2)
		p.Add(bars)
		p.Legend.Add(country, bars)
	}
	p.NominalX(categories...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.Legend.Top = true
	return p, nil
}

func groupedDailyBars(t Tables) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Views by Day - Country Comparison"
	p.X.Label.Text = "Day of Week"
	p.Y.Label.Text = "Average Views"

	var days []string
	seen := make(map[string]bool)
	for _, country := range t.Countries {
		for _, r := range t.DailyByCountry[country] {
			if !seen[r.Day] {
				seen[r.Day] = true
				days = append(days, r.Day)
			}
		}
	}

	w := vg.Points(10)
	for i, country := range t.Countries {
		byDay := make(map[string]float64, len(t.DailyByCountry[country]))
		for _, r := range t.DailyByCountry[country] {
			byDay[r.Day] = r.AvgViews
		}
		values := make(plotter.Values, 0, len(days))
		for _, d := range days {
			values = append(values, byDay[d])
		}
		bars, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(i-len(t.Countries)/2)
		p.Add(bars)
		p.Legend.Add(country, bars)
	}
	p.NominalX(days...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.Legend.Top = true
	return p, nil
}

func countryBoxes(videos []models.Video, countries []string, title, yLabel string, value func(*models.Video) (float64, bool)) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Country"
	p.Y.Label.Text = yLabel

	for i, country := range countries {
		var vals plotter.Values
		for j := range videos {
			if videos[j].Country != country {
				continue
			}
			if x, ok := value(&videos[j]); ok {
				vals = append(vals, x)
			}
		}
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), vals)
		if err != nil {
			return nil, err
		}
		p.Add(box)
	}
	p.NominalX(countries...)
	return p, nil
}

func categoryList(rows []models.CountryCategorySummary) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, r := range rows {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// corrGrid adapts the correlation matrix to the heat map grid interface.
type corrGrid struct {
	m models.CorrelationMatrix
}

func (g corrGrid) Dims() (int, int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	v := g.m.Values[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (c *ChartSet) savePanels(name string, plots [][]*plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Points(12),
		PadY:      vg.Points(12),
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(6),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure %s: %w", c.Dir, err)
	}
	f, err := os.Create(filepath.Join(c.Dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
