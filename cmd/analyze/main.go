package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"trendhub/internal/aggregate"
	"trendhub/internal/enrich"
	"trendhub/internal/export"
	"trendhub/internal/ingest"
	"trendhub/internal/report"
	"trendhub/pkg/database"
	"trendhub/pkg/models"
	"trendhub/pkg/utils"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "optional YAML config path (defaults match the data/ layout)")
		logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", *logLevel)
	}

	cfg, err := utils.LoadPipelineConfig(*cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	started := time.Now().UTC()

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	// stage 1: load
	sources := make([]ingest.Source, 0, len(cfg.Inputs))
	for _, in := range cfg.Inputs {
		sources = append(sources, ingest.Source{Path: in.Path, Country: in.Country})
	}
	videos, err := ingest.LoadVideos(sources)
	if err != nil {
		logger.Fatalf("load videos: %v", err)
	}
	categories, err := ingest.LoadCategoryMap(cfg.CategoryFile)
	if err != nil {
		logger.Fatalf("load category map: %v", err)
	}
	logger.Infof("loaded %d trending observations from %d files", len(videos), len(sources))

	// stage 2: enrich
	enriched := enrich.Enrich(videos, categories, enrich.NewScorer())
	logger.Infof("enriched %d unique observations (%d duplicates dropped)",
		len(enriched), len(videos)-len(enriched))

	// stage 3: aggregate
	tables := report.BuildTables(enriched)
	corr := aggregate.Correlation(enriched)

	// stage 4: export
	if err := export.ReplaceVideos(ctx, db, enriched); err != nil {
		logger.Fatalf("export to sqlite: %v", err)
	}
	logger.Infof("replaced videos table in %s", cfg.DBPath)

	if err := export.WriteOutputs(cfg.OutputsDir, export.OutputTables{
		CountryCategory:  tables.CountryCategory,
		CategoryAvgViews: tables.CategoryAvgViews,
		ChannelTrends:    tables.ChannelTrends,
		Correlation:      corr,
		Channels:         tables.Channels,
		CategoryCountry:  tables.CategoryCountry,
	}); err != nil {
		logger.Fatalf("write summary files: %v", err)
	}
	logger.Infof("wrote summary tables to %s/", cfg.OutputsDir)

	if err := export.WritePowerBI(cfg.PowerBIDir, export.BITables{
		Videos:              enriched,
		TimeAnalysis:        tables.TimeAnalysis,
		CategoryPerformance: tables.CategoryPerformance,
		ChannelPerformance:  tables.ChannelPerformance,
	}); err != nil {
		logger.Fatalf("write Power BI datasets: %v", err)
	}

	// stage 5: report
	charts := &report.ChartSet{Dir: cfg.VisualsDir, Log: logger}
	charts.RenderAll(enriched, tables, corr)

	report.PrintSummary(os.Stdout, enriched, tables)

	run := models.Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		VideoCount: len(enriched),
		Status:     "completed",
	}
	if err := export.RecordRun(ctx, db, run); err != nil {
		logger.Fatalf("record run: %v", err)
	}

	logger.Infof("Power BI datasets have been exported to the '%s' directory", cfg.PowerBIDir)
	logger.Infof("✅ analysis complete: %d videos, run %s", len(enriched), run.ID)
}
