/*
Package fractile is a teaching library for parallel task-decomposition
strategies over an embarrassingly-parallel raster workload (per-pixel
fractal computation), with detailed execution telemetry for reasoning
about load-balance quality.

Raster model (pkg/raster):
  - Region: immutable half-open rectangular slice of the raster
  - Partition: static tile grid in raster-scan order
  - Buffer: shared output raster with disjoint bulk writes and PNG output

Scheduling (pkg/scheduling):
  - fixedpool: bounded fixed-size pool, results drained in completion order
  - stealing: per-worker deques with fork/join and work stealing

Strategies (pkg/render):
  - fixed: static tile grid on a fixed pool
  - binary: recursive binary split with work stealing
  - tiles: static tile grid submitted wholesale to the stealing executor

Telemetry (pkg/telemetry):
  - Tracker: per-unit execution records, statistics, heatmap, extremes
  - QueueMonitor: per-worker local backlog timelines
  - Metrics: Prometheus export for long-running consumers

Example usage:

	import "github.com/vnykmshr/fractile/pkg/render"

	job, err := render.New(render.Options{
		Width: 1600, Height: 1200, MaxIterations: 2000,
		TileSize: 64, Threshold: 5000, Instrumented: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	buf, elapsed, err := job.Render(ctx, render.StrategyBinary)
	if err != nil {
		log.Fatal(err)
	}

	job.Tracker.Report(os.Stdout)
	if err := buf.SavePNG("mandelbrot.png"); err != nil {
		log.Fatal(err)
	}
*/
package fractile
