package render

import (
	"context"
	"time"

	"github.com/vnykmshr/fractile/pkg/raster"
	"github.com/vnykmshr/fractile/pkg/scheduling/stealing"
	"github.com/vnykmshr/fractile/pkg/telemetry"
)

// splitTask renders a region by recursive bisection. Above the threshold
// it splits along the longer axis, forks the first half and computes the
// second locally; at or below the threshold it renders the region and
// writes it to the shared buffer. Regions are disjoint, so concurrent
// writes never overlap.
type splitTask struct {
	job    *Job
	region raster.Region
	buf    *raster.Buffer
}

func (t *splitTask) Compute(w *stealing.Worker) error {
	name := telemetry.WorkerName(w.ID())
	t.job.Monitor.Sample(name, w.Pending())

	if t.region.Area() <= t.job.opts.Threshold {
		start := time.Now()
		pixels := t.job.computePixels(t.region)
		err := t.buf.SetRegion(t.region, pixels)
		end := time.Now()

		t.job.Tracker.Record(start, end, name, nil)
		t.job.opts.Metrics.ObserveUnit(string(StrategyBinary), end.Sub(start).Seconds(), err != nil)
		t.job.Monitor.Sample(name, w.Pending())
		return err
	}

	first, second := t.region.Split()
	f := w.Fork(&splitTask{job: t.job, region: first, buf: t.buf})
	t.job.Monitor.Sample(name, w.Pending())

	if err := (&splitTask{job: t.job, region: second, buf: t.buf}).Compute(w); err != nil {
		// The forked half must still be joined so the run's accounting
		// converges; its error is subsumed by ours.
		w.Join(f)
		return err
	}
	return w.Join(f)
}

// renderBinary runs one root task covering the whole raster on the
// work-stealing executor. Idle workers steal forked halves, so the split
// tree spreads across all workers without any up-front partitioning.
func (j *Job) renderBinary(ctx context.Context, buf *raster.Buffer) error {
	exec, err := stealing.NewWithConfig(stealing.Config{
		WorkerCount: j.opts.Workers,
		OnSteal:     func() { j.opts.Metrics.ObserveSteal(string(StrategyBinary)) },
	})
	if err != nil {
		return err
	}

	full, err := raster.NewRegion(0, 0, j.opts.Width, j.opts.Height, j.opts.Width, j.opts.Height)
	if err != nil {
		return err
	}
	return exec.Invoke(ctx, &splitTask{job: j, region: full, buf: buf})
}
