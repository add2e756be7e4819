/*
Package stealing provides a work-stealing executor for divide-and-conquer
and pre-partitioned parallel workloads.

Each worker owns a local double-ended queue: it pushes and pops at the
back (LIFO, cache-friendly), while idle workers steal from the front of a
busy worker's queue (FIFO, preferring the oldest and typically largest
remaining chunk of work). Tasks run on a fixed set of worker goroutines
started per invocation.

A task may fork children and join them. Join is not a blocking wait: the
joining worker keeps popping local work and stealing from peers until the
joined child has completed, so the physical worker stays busy while the
logical task is suspended.

Recursive usage (fork one child, compute the other locally):

	type splitTask struct{ region raster.Region }

	func (t *splitTask) Compute(w *stealing.Worker) error {
		if t.region.Area() <= threshold {
			return computeLeaf(t.region)
		}
		first, second := t.region.Split()
		forked := w.Fork(&splitTask{region: first})
		if err := (&splitTask{region: second}).Compute(w); err != nil {
			return err
		}
		return w.Join(forked)
	}

	exec, err := stealing.NewExecutor(runtime.NumCPU())
	...
	err = exec.Invoke(ctx, &splitTask{region: root})

Pre-partitioned usage submits every task up front and waits for all of
them (join-all): InvokeAll returns after the last task finishes, with the
first task error observed. On error the run's context is canceled and
not-yet-started tasks are skipped.
*/
package stealing
