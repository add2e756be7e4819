package render

import (
	"context"
	"time"

	"github.com/vnykmshr/fractile/pkg/raster"
	"github.com/vnykmshr/fractile/pkg/scheduling/fixedpool"
	"github.com/vnykmshr/fractile/pkg/telemetry"
)

// tileTask computes one tile into a private pixel slice. The buffer is
// only touched by the drain loop, when the task's result arrives.
type tileTask struct {
	job  *Job
	tile raster.Tile

	pixels     []uint32
	start, end time.Time
}

func (t *tileTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.start = time.Now()
	t.pixels = t.job.computePixels(t.tile.Region)
	t.end = time.Now()
	return nil
}

// renderFixed partitions the raster into tiles and dispatches them to a
// fixed-size worker pool. The result channel delivers tiles in completion
// order; each is committed to the buffer as it lands, so a slow tile
// never delays the commit of fast ones. A tile failure is remembered but
// the drain continues, keeping the pool's accounting intact.
func (j *Job) renderFixed(ctx context.Context, buf *raster.Buffer) error {
	tiles, err := raster.Partition(j.opts.Width, j.opts.Height, j.opts.TileSize)
	if err != nil {
		return err
	}

	pool, err := fixedpool.NewWithConfig(fixedpool.Config{
		WorkerCount:  j.opts.Workers,
		QueueSize:    len(tiles),
		ResultBuffer: len(tiles),
	})
	if err != nil {
		return err
	}
	defer func() {
		<-pool.ShutdownWithTimeout(shutdownGrace)
	}()

	submitted := 0
	var firstErr error
	for _, tile := range tiles {
		task := &tileTask{job: j, tile: tile}
		if err := pool.SubmitWithContext(ctx, task); err != nil {
			firstErr = err
			break
		}
		submitted++
	}

	results := pool.Results()
	for i := 0; i < submitted; i++ {
		r := <-results

		task := r.Task.(*tileTask)
		j.opts.Metrics.ObserveUnit(string(StrategyFixed), r.Duration.Seconds(), r.Error != nil)
		if r.Error != nil {
			if firstErr == nil {
				firstErr = r.Error
			}
			continue
		}

		j.Tracker.Record(task.start, task.end, telemetry.WorkerName(r.WorkerID), task.tile)
		if err := buf.SetRegion(task.tile.Region, task.pixels); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
