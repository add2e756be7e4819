/*
Package telemetry collects and reports per-unit execution telemetry for the
scheduling strategies: a Tracker of (start, end, worker) records with
derived statistics, and a QueueMonitor of per-worker local backlog samples.

Both are constructed with an explicit enabled flag. A disabled instance
allocates no backing storage and every method returns immediately, so the
uninstrumented path pays nothing:

	tracker := telemetry.NewTracker(enabled)
	monitor := telemetry.NewQueueMonitor(enabled)

	// In a worker:
	start := time.Now()
	doWork()
	tracker.Record(start, time.Now(), telemetry.WorkerName(id), tile)

	// After the run:
	tracker.Report(os.Stdout)
	monitor.Report(os.Stdout)

Reports are plain text aimed at a terminal. Summary exposes the same
statistics as a struct, and SummaryJSON serializes it for
machine-readable output. For long-running consumers, Metrics exports
Prometheus counters and histograms in the fractile namespace.
*/
package telemetry
