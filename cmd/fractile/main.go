// Command fractile renders the Mandelbrot set in parallel under a chosen
// scheduling strategy, with optional execution instrumentation, JSON
// statistics output, Prometheus metrics, and a gops diagnostics agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vnykmshr/fractile/pkg/render"
	"github.com/vnykmshr/fractile/pkg/telemetry"
)

func main() {
	var (
		strategyName = flag.String("strategy", "fixed", "scheduling strategy: fixed, binary, tiles")
		width        = flag.Int("width", 1920, "raster width in pixels")
		height       = flag.Int("height", 1080, "raster height in pixels")
		iterations   = flag.Int("iters", 1000, "maximum kernel iterations per pixel")
		workers      = flag.Int("workers", 0, "worker count (0 = one per CPU)")
		tileSize     = flag.Int("tile", 64, "tile edge length for fixed and tiles strategies")
		threshold    = flag.Int("threshold", 4096, "region area below which binary stops splitting")
		outPath      = flag.String("out", "", "write the rendered image to this PNG file")
		instrument   = flag.Bool("instrument", false, "collect and report execution statistics")
		jsonOut      = flag.Bool("json", false, "print execution statistics as JSON (implies -instrument)")
		metricsAddr  = flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
		gopsAgent    = flag.Bool("agent", false, "start a gops diagnostics agent")
	)
	flag.Parse()

	strategy, err := render.ParseStrategy(*strategyName)
	if err != nil {
		log.Fatalf("fractile: %v", err)
	}

	var metrics *telemetry.Metrics
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = telemetry.NewMetrics(reg)
		go serveMetrics(*metricsAddr, reg)
	}

	if *gopsAgent {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("fractile: gops agent: %v", err)
		}
		defer agent.Close()
	}

	job, err := render.New(render.Options{
		Width:         *width,
		Height:        *height,
		MaxIterations: *iterations,
		Workers:       *workers,
		TileSize:      *tileSize,
		Threshold:     *threshold,
		Instrumented:  *instrument || *jsonOut,
		Metrics:       metrics,
	})
	if err != nil {
		log.Fatalf("fractile: %v", err)
	}

	printBanner(job.Options(), strategy)

	buf, elapsed, err := job.Render(context.Background(), strategy)
	if err != nil {
		log.Fatalf("fractile: %v", err)
	}
	fmt.Printf("Computation time: %s\n", elapsed.Round(time.Millisecond))

	if *outPath != "" {
		if err := buf.SavePNG(*outPath); err != nil {
			log.Fatalf("fractile: %v", err)
		}
		fmt.Printf("Image written to %s\n", *outPath)
	}

	if *jsonOut {
		data, err := job.Tracker.SummaryJSON()
		if err != nil {
			log.Fatalf("fractile: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if *instrument {
		report(job, strategy)
	}
}

func printBanner(opts render.Options, strategy render.Strategy) {
	fmt.Printf("Rendering %dx%d @ %d iterations\n", opts.Width, opts.Height, opts.MaxIterations)
	fmt.Printf("Strategy: %s, workers: %d", strategy, opts.Workers)
	switch strategy {
	case render.StrategyBinary:
		fmt.Printf(", split threshold: %d px", opts.Threshold)
	default:
		fmt.Printf(", tile size: %d px", opts.TileSize)
	}
	fmt.Println()
}

// report prints the statistics relevant to the strategy: tile strategies
// carry positional metadata for extremes and the heatmap, the stealing
// strategies carry queue samples.
func report(job *render.Job, strategy render.Strategy) {
	opts := job.Options()
	job.Tracker.Report(os.Stdout)

	switch strategy {
	case render.StrategyFixed, render.StrategyTiles:
		job.Tracker.Extremes(os.Stdout, 5, render.TileLabel)
		job.Tracker.SpatialHeatmap(os.Stdout, opts.Width, opts.Height, opts.TileSize, render.TilePosition)
	}

	switch strategy {
	case render.StrategyBinary, render.StrategyTiles:
		job.Monitor.Report(os.Stdout)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("fractile: metrics server: %v", err)
	}
}
