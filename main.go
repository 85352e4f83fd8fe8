package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/config"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/export"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/logger"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/metrics"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/pipeline"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/tracesource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	configFile      = pflag.String("config", "", "optional YAML config file")
	tracesFile      = pflag.String("traces", "./data/drives.osm", "recorded drives (.osm, .osm.pbf, .geojson, .txt, optionally .bz2)")
	outFile         = pflag.String("out", "edit_area_age.geojson", "corridor polygons output")
	metricsTextfile = pflag.String("metrics-textfile", "", "write scan metrics in textfile collector format")
	centerLat       = pflag.Float64("center-lat", 0, "map center latitude to restore after the scan")
	centerLon       = pflag.Float64("center-lon", 0, "map center longitude to restore after the scan")
	zoom            = pflag.Float64("zoom", 0, "map zoom to restore after the scan")
)

func main() {
	pflag.Float64("radius-miles", 1.0, "editable distance in statute miles")
	pflag.Int("expiry-window-days", 7, "days before expiry to flag in magenta")
	pflag.Int("max-drives", 300, "maximum number of drives per scan")
	pflag.Int("workers", 1, "goroutines building corridor polygons")
	pflag.Float64("simplify-meters", 0, "simplify drives before buffering, 0 disables")
	pflag.Float64("cap-step-degrees", 5, "angular step of corridor end caps")
	pflag.Parse()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("edit area age failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.LoadWithFlags(*configFile, pflag.CommandLine)
	if err != nil {
		return err
	}
	log.Sugar().Infof("editable radius: %.2f miles", cfg.RadiusMiles)

	reg := prometheus.NewRegistry()
	p, err := pipeline.New(*cfg, log, pipeline.WithMetrics(metrics.New(reg)))
	if err != nil {
		return err
	}

	traces, err := tracesource.NewReader(log).ReadFile(context.Background(), *tracesFile)
	if err != nil {
		return err
	}

	viewport := datastructure.Viewport{
		Center: datastructure.NewCoordinate(*centerLat, *centerLon),
		Zoom:   *zoom,
	}
	result, err := p.Scan(pipeline.NewSession(), viewport, traces)
	if err != nil {
		return err
	}

	if err := export.WriteGeoJSONFile(*outFile, result); err != nil {
		return err
	}
	if *metricsTextfile != "" {
		if err := metrics.WriteTextfile(*metricsTextfile, reg); err != nil {
			return err
		}
	}

	fmt.Println(result.Summary())
	return nil
}
