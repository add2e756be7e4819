package render

import (
	"context"
	"time"

	"github.com/vnykmshr/fractile/pkg/raster"
	"github.com/vnykmshr/fractile/pkg/scheduling/stealing"
	"github.com/vnykmshr/fractile/pkg/telemetry"
)

// tileStealTask renders one pre-partitioned tile on the work-stealing
// executor and writes it straight to the shared buffer.
type tileStealTask struct {
	job  *Job
	tile raster.Tile
	buf  *raster.Buffer
}

func (t *tileStealTask) Compute(w *stealing.Worker) error {
	name := telemetry.WorkerName(w.ID())
	t.job.Monitor.Sample(name, w.Pending())

	start := time.Now()
	pixels := t.job.computePixels(t.tile.Region)
	err := t.buf.SetRegion(t.tile.Region, pixels)
	end := time.Now()

	t.job.Tracker.Record(start, end, name, t.tile)
	t.job.opts.Metrics.ObserveUnit(string(StrategyTiles), end.Sub(start).Seconds(), err != nil)
	return err
}

// renderTiles partitions the raster into tiles and submits the whole
// batch to the work-stealing executor as a join-all. Unlike the binary
// strategy no task forks, so the local queues only drain from the initial
// round-robin spread; stealing handles the imbalance that remains.
func (j *Job) renderTiles(ctx context.Context, buf *raster.Buffer) error {
	tiles, err := raster.Partition(j.opts.Width, j.opts.Height, j.opts.TileSize)
	if err != nil {
		return err
	}

	exec, err := stealing.NewWithConfig(stealing.Config{
		WorkerCount: j.opts.Workers,
		OnSteal:     func() { j.opts.Metrics.ObserveSteal(string(StrategyTiles)) },
	})
	if err != nil {
		return err
	}

	tasks := make([]stealing.Task, len(tiles))
	for i, tile := range tiles {
		tasks[i] = &tileStealTask{job: j, tile: tile, buf: buf}
	}
	return exec.InvokeAll(ctx, tasks)
}
