package render

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/vnykmshr/fractile/pkg/common/errors"
	"github.com/vnykmshr/fractile/pkg/common/validation"
	"github.com/vnykmshr/fractile/pkg/fractal"
	"github.com/vnykmshr/fractile/pkg/raster"
	"github.com/vnykmshr/fractile/pkg/telemetry"
)

// Strategy selects how a render distributes work across workers.
type Strategy string

const (
	// StrategyFixed dispatches pre-partitioned tiles to a fixed-size
	// worker pool and commits results in completion order.
	StrategyFixed Strategy = "fixed"

	// StrategyBinary splits the raster recursively on the work-stealing
	// executor, forking one half and computing the other.
	StrategyBinary Strategy = "binary"

	// StrategyTiles runs pre-partitioned tiles as a join-all batch on the
	// work-stealing executor.
	StrategyTiles Strategy = "tiles"
)

// ParseStrategy converts a strategy name to a Strategy value.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyFixed, StrategyBinary, StrategyTiles:
		return Strategy(name), nil
	}
	return "", errors.NewValidationError("render", "strategy", name, "unknown strategy").
		WithHint("valid strategies: fixed, binary, tiles")
}

// Options configures a render job. The zero value is not usable; Width,
// Height, MaxIterations, TileSize and Threshold must be positive.
type Options struct {
	// Width and Height are the raster dimensions in pixels.
	Width  int
	Height int

	// MaxIterations is the kernel's escape iteration cap.
	MaxIterations int

	// Workers is the worker count for every strategy. 0 means one worker
	// per logical CPU.
	Workers int

	// TileSize is the tile edge length for the fixed and tiles strategies.
	TileSize int

	// Threshold is the region area, in pixels, below which the binary
	// strategy stops splitting and computes directly.
	Threshold int

	// View is the complex-plane window. The zero value means the standard
	// full-set view.
	View fractal.Viewport

	// Instrumented enables the execution tracker and queue monitor. When
	// false both are created disabled and add no overhead to the render.
	Instrumented bool

	// Metrics, when non-nil, receives per-unit and per-render
	// observations.
	Metrics *telemetry.Metrics
}

// shutdownGrace bounds how long a fixed-pool render waits for stragglers
// after its results are drained.
const shutdownGrace = 5 * time.Second

// Job is a configured render with its instrumentation state. A Job is
// reusable; the tracker and monitor accumulate across renders.
type Job struct {
	opts Options

	// Tracker records per-unit execution times when instrumentation is
	// enabled.
	Tracker *telemetry.Tracker

	// Monitor records per-worker backlog samples for the work-stealing
	// strategies when instrumentation is enabled.
	Monitor *telemetry.QueueMonitor
}

// New validates the options and creates a render job. All configuration
// errors surface here, before any worker is started.
func New(opts Options) (*Job, error) {
	if err := validation.ValidatePositive("render", "width", opts.Width); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("render", "height", opts.Height); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("render", "maxIterations", opts.MaxIterations); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("render", "tileSize", opts.TileSize); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("render", "threshold", opts.Threshold); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("render", "workers", opts.Workers); err != nil {
		return nil, err
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.View == (fractal.Viewport{}) {
		opts.View = fractal.DefaultViewport
	}

	return &Job{
		opts:    opts,
		Tracker: telemetry.NewTracker(opts.Instrumented),
		Monitor: telemetry.NewQueueMonitor(opts.Instrumented),
	}, nil
}

// Options returns the job's effective options, with defaults applied.
func (j *Job) Options() Options {
	return j.opts
}

// Render computes the full raster under the given strategy. It returns
// the finished buffer and the wall-clock computation time. The buffer is
// complete only when the error is nil.
func (j *Job) Render(ctx context.Context, strategy Strategy) (*raster.Buffer, time.Duration, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	buf := raster.NewBuffer(j.opts.Width, j.opts.Height)
	start := time.Now()

	var err error
	switch strategy {
	case StrategyFixed:
		err = j.renderFixed(ctx, buf)
	case StrategyBinary:
		err = j.renderBinary(ctx, buf)
	case StrategyTiles:
		err = j.renderTiles(ctx, buf)
	default:
		return nil, 0, errors.NewValidationError("render", "strategy", string(strategy), "unknown strategy")
	}

	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, fmt.Errorf("render %s: %w", strategy, err)
	}

	j.opts.Metrics.ObserveRender(string(strategy), elapsed.Seconds(), j.opts.Workers)
	return buf, elapsed, nil
}

// computePixels renders one region into a freshly allocated pixel slice,
// in scan order. This is the single code path every strategy maps pixels
// through.
func (j *Job) computePixels(r raster.Region) []uint32 {
	pixels := make([]uint32, r.Area())
	i := 0
	for y := r.StartY; y < r.EndY; y++ {
		for x := r.StartX; x < r.EndX; x++ {
			cx, cy := j.opts.View.Point(x, y, j.opts.Width, j.opts.Height)
			iterations := fractal.Iterations(cx, cy, j.opts.MaxIterations)
			pixels[i] = fractal.ColorFor(iterations, j.opts.MaxIterations)
			i++
		}
	}
	return pixels
}

// TileLabel renders tile metadata for report output.
func TileLabel(meta interface{}) string {
	t, ok := meta.(raster.Tile)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("Tile %d %s", t.ID, t.Region)
}

// TilePosition extracts a tile's top-left corner from record metadata,
// for the spatial heatmap.
func TilePosition(meta interface{}) (x, y int, ok bool) {
	t, ok := meta.(raster.Tile)
	if !ok {
		return 0, 0, false
	}
	return t.StartX, t.StartY, true
}
