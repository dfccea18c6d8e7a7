// Package main fetches the dataset once and writes a signed markdown report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"saludcl/internal/charts"
	"saludcl/internal/config"
	"saludcl/internal/export"
	"saludcl/internal/fetcher"
	"saludcl/internal/logger"
	"saludcl/internal/models"
	"saludcl/internal/pipeline"
	"saludcl/internal/report"
	"saludcl/pkg/metadata"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	limit := flag.Int("limit", 0, "Number of records to fetch (default source.limit)")
	output := flag.String("output", "", "Write the report to this file instead of stdout")
	chartsDir := flag.String("charts", "", "Also render every chart as SVG into this directory")
	exportPath := flag.String("export", "", "Also write the analysis table to this Parquet file")

	flag.Parse()

	cfg, err := config.Resolve(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *limit == 0 {
		*limit = cfg.Source.Limit
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Source.GetTimeout())
	defer cancel()

	start := time.Now()

	session := pipeline.NewSession(fetcher.NewClient(cfg.Source, log), log)

	table, err := session.Analysis(ctx, *limit)
	if err != nil {
		log.Error("failed to build analysis table", "error", err)
		os.Exit(1)
	}

	log.Info("analysis table ready", "rows", table.Len(), "duration", time.Since(start))

	links := map[string]string{}

	if *chartsDir != "" {
		links, err = renderCharts(cfg, table, *chartsDir, *output, log)
		if err != nil {
			log.Error("failed to render charts", "error", err)
			os.Exit(1)
		}
	}

	if *exportPath != "" {
		n, err := export.WriteTable(*exportPath, table)
		if err != nil {
			log.Error("export failed", "path", *exportPath, "error", err)
			os.Exit(1)
		}

		log.Info("exported analysis table", "path", *exportPath, "rows", n)
	}

	body := report.NewBuilder(report.Options{Charts: links}).Sign(table, metadata.Metadata{
		Source:   cfg.Source.BaseURL,
		Resource: cfg.Source.ResourceID,
		Limit:    *limit,
	})

	if *output == "" {
		fmt.Println(body)

		return
	}

	if err := os.WriteFile(*output, []byte(body+"\n"), 0o644); err != nil {
		log.Error("failed to write report", "path", *output, "error", err)
		os.Exit(1)
	}

	log.Info("report written", "path", *output)
}

// renderCharts writes one SVG per chart and returns links relative to the report.
// Charts without data are skipped.
func renderCharts(cfg *config.Config, table *models.AnalysisTable, dir, reportPath string, log *logger.Logger) (map[string]string, error) {
	theme, err := charts.NewTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts directory: %w", err)
	}

	renderer := charts.NewRenderer(theme, cfg.Charts)
	links := make(map[string]string, len(charts.Names))

	for _, name := range charts.Names {
		path := filepath.Join(dir, name+".svg")

		if err := renderChart(renderer, name, table, path); err != nil {
			log.Warn("chart skipped", "chart", name, "error", err)

			continue
		}

		link := path
		if reportPath != "" {
			if rel, err := filepath.Rel(filepath.Dir(reportPath), path); err == nil {
				link = rel
			}
		}

		links[name] = filepath.ToSlash(link)
	}

	return links, nil
}

func renderChart(renderer *charts.Renderer, name string, table *models.AnalysisTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := renderer.Render(name, table, charts.SVG, f); err != nil {
		f.Close()
		os.Remove(path)

		return err
	}

	return f.Close()
}
