package telemetry

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// WorkerName returns the stable identity string for a worker index.
// Goroutines have no names, so worker identities are derived from the
// scheduler's worker indices.
func WorkerName(id int) string {
	return fmt.Sprintf("worker-%d", id)
}

// Record is one completed unit of work.
type Record struct {
	Start  time.Time
	End    time.Time
	Worker string
	Meta   interface{}
}

// DurationMs returns the execution time in milliseconds.
func (r Record) DurationMs() float64 {
	return float64(r.End.Sub(r.Start).Nanoseconds()) / 1e6
}

// Tracker is a concurrency-safe append-only log of execution records.
// A disabled Tracker allocates no storage and records nothing.
type Tracker struct {
	enabled bool

	mu      sync.Mutex
	records []Record
}

// NewTracker creates a tracker. With enabled=false every method is a no-op.
func NewTracker(enabled bool) *Tracker {
	return &Tracker{enabled: enabled}
}

// Enabled reports whether the tracker is collecting records.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Record appends one execution record. Safe for concurrent use; no-op when
// disabled.
func (t *Tracker) Record(start, end time.Time, worker string, meta interface{}) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	t.records = append(t.records, Record{Start: start, End: end, Worker: worker, Meta: meta})
	t.mu.Unlock()
}

// Count returns the number of records collected so far.
func (t *Tracker) Count() int {
	if !t.enabled {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// snapshot copies the record log so reporting never races with appends.
func (t *Tracker) snapshot() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// WorkerStats summarizes one worker's share of the records.
type WorkerStats struct {
	Worker  string  `json:"worker"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	TotalMs float64 `json:"total_ms"`
}

// Summary holds the derived statistics of a record set.
type Summary struct {
	Count         int           `json:"count"`
	MinMs         float64       `json:"min_ms"`
	MaxMs         float64       `json:"max_ms"`
	AvgMs         float64       `json:"avg_ms"`
	MedianMs      float64       `json:"median_ms"`
	StdDevMs      float64       `json:"std_dev_ms"`
	P95Ms         float64       `json:"p95_ms"`
	P99Ms         float64       `json:"p99_ms"`
	Variability   float64       `json:"variability"`
	CoeffVarPct   float64       `json:"coeff_var_pct"`
	Workers       []WorkerStats `json:"workers"`
	EfficiencyPct float64       `json:"efficiency_pct"`
	Balance       string        `json:"balance"`
}

// Summary computes statistics over all records. The second return value is
// false when the tracker is disabled or has no records.
func (t *Tracker) Summary() (Summary, bool) {
	if !t.enabled {
		return Summary{}, false
	}
	records := t.snapshot()
	if len(records) == 0 {
		return Summary{}, false
	}
	return summarize(records), true
}

func summarize(records []Record) Summary {
	times := sortedDurations(records)
	n := len(times)

	var sum float64
	for _, d := range times {
		sum += d
	}
	avg := sum / float64(n)

	var variance float64
	for _, d := range times {
		variance += (d - avg) * (d - avg)
	}
	variance /= float64(n)
	stdDev := math.Sqrt(variance)

	s := Summary{
		Count:    n,
		MinMs:    times[0],
		MaxMs:    times[n-1],
		AvgMs:    avg,
		MedianMs: times[n/2],
		StdDevMs: stdDev,
		P95Ms:    nearestRank(times, 0.95),
		P99Ms:    nearestRank(times, 0.99),
	}
	if times[0] > 0 {
		s.Variability = times[n-1] / times[0]
	}
	if avg > 0 {
		s.CoeffVarPct = stdDev / avg * 100
	}

	s.Workers = workerStats(records)
	s.EfficiencyPct, s.Balance = loadBalance(s.Workers)
	return s
}

// nearestRank picks the duration at index floor(n*p) of the sorted array.
// Exact nearest-rank semantics, never interpolated.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func sortedDurations(records []Record) []float64 {
	times := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.DurationMs()
	}
	sort.Float64s(times)
	return times
}

// workerStats groups records by worker identity, sorted by worker name.
func workerStats(records []Record) []WorkerStats {
	byWorker := make(map[string][]Record)
	for _, r := range records {
		byWorker[r.Worker] = append(byWorker[r.Worker], r)
	}

	names := make([]string, 0, len(byWorker))
	for name := range byWorker {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := make([]WorkerStats, 0, len(names))
	for _, name := range names {
		var total float64
		for _, r := range byWorker[name] {
			total += r.DurationMs()
		}
		stats = append(stats, WorkerStats{
			Worker:  name,
			Count:   len(byWorker[name]),
			AvgMs:   total / float64(len(byWorker[name])),
			TotalMs: total,
		})
	}
	return stats
}

// loadBalance computes (min per-worker total / max per-worker total) * 100
// and classifies it. The zero guard covers the degenerate case where the
// most loaded worker recorded no measurable time.
func loadBalance(workers []WorkerStats) (float64, string) {
	if len(workers) == 0 {
		return 0, "no data"
	}
	minTotal, maxTotal := workers[0].TotalMs, workers[0].TotalMs
	for _, ws := range workers[1:] {
		if ws.TotalMs < minTotal {
			minTotal = ws.TotalMs
		}
		if ws.TotalMs > maxTotal {
			maxTotal = ws.TotalMs
		}
	}
	if maxTotal == 0 {
		return 0, "no data"
	}

	efficiency := minTotal / maxTotal * 100
	switch {
	case efficiency < 70:
		return efficiency, "poor"
	case efficiency > 95:
		return efficiency, "excellent"
	default:
		return efficiency, "good"
	}
}

const reportRule = "======================================================================"

// Report writes the complete statistics report. No-op when disabled;
// reports "No tasks recorded." on an empty record set.
func (t *Tracker) Report(w io.Writer) {
	if !t.enabled {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, "TASK EXECUTION TIME STATISTICS")
	fmt.Fprintln(w, reportRule)

	records := t.snapshot()
	if len(records) == 0 {
		fmt.Fprintln(w, "No tasks recorded.")
		return
	}

	s := summarize(records)

	fmt.Fprintf(w, "Total tasks:     %d\n", s.Count)
	fmt.Fprintf(w, "Min time:        %.3f ms\n", s.MinMs)
	fmt.Fprintf(w, "Max time:        %.3f ms\n", s.MaxMs)
	fmt.Fprintf(w, "Average time:    %.3f ms\n", s.AvgMs)
	fmt.Fprintf(w, "Median time:     %.3f ms\n", s.MedianMs)
	fmt.Fprintf(w, "Std deviation:   %.3f ms\n", s.StdDevMs)
	fmt.Fprintf(w, "95th percentile: %.3f ms\n", s.P95Ms)
	fmt.Fprintf(w, "99th percentile: %.3f ms\n", s.P99Ms)
	fmt.Fprintf(w, "Variability:     %.1fx (max/min ratio)\n", s.Variability)
	fmt.Fprintf(w, "Coefficient of variation: %.1f%%\n", s.CoeffVarPct)

	t.reportDistribution(w, records)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "PER-WORKER STATISTICS:")
	for _, ws := range s.Workers {
		fmt.Fprintf(w, "  %s: %d tasks, avg %.3f ms, total %.3f ms\n",
			ws.Worker, ws.Count, ws.AvgMs, ws.TotalMs)
	}

	t.reportLoadBalance(w, s)
}

// reportDistribution renders a 20-bin histogram of execution times.
func (t *Tracker) reportDistribution(w io.Writer, records []Record) {
	times := sortedDurations(records)
	minTime, maxTime := times[0], times[len(times)-1]

	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXECUTION TIME DISTRIBUTION:")

	const numBins = 20
	const barWidth = 40
	binWidth := (maxTime - minTime) / numBins
	bins := make([]int, numBins)

	for _, d := range times {
		idx := 0
		if binWidth > 0 {
			idx = int((d - minTime) / binWidth)
			if idx >= numBins {
				idx = numBins - 1
			}
		}
		bins[idx]++
	}

	maxBin := 1
	for _, c := range bins {
		if c > maxBin {
			maxBin = c
		}
	}

	for i, c := range bins {
		rangeStart := minTime + float64(i)*binWidth
		rangeEnd := minTime + float64(i+1)*binWidth
		barLen := c * barWidth / maxBin
		fmt.Fprintf(w, "%7.1f-%5.1fms [%4d]: %s\n",
			rangeStart, rangeEnd, c, strings.Repeat("█", barLen))
	}
}

func (t *Tracker) reportLoadBalance(w io.Writer, s Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, "LOAD BALANCE ANALYSIS")
	fmt.Fprintln(w, reportRule)

	if s.Balance == "no data" {
		fmt.Fprintln(w, "No worker data to analyze.")
		return
	}

	var minTotal, maxTotal, sum float64
	minTotal = s.Workers[0].TotalMs
	for _, ws := range s.Workers {
		if ws.TotalMs < minTotal {
			minTotal = ws.TotalMs
		}
		if ws.TotalMs > maxTotal {
			maxTotal = ws.TotalMs
		}
		sum += ws.TotalMs
	}
	avgTotal := sum / float64(len(s.Workers))

	fmt.Fprintln(w, "Total work per worker (sum of all task durations):")
	fmt.Fprintf(w, "  Min: %.3f ms (least loaded worker)\n", minTotal)
	fmt.Fprintf(w, "  Max: %.3f ms (most loaded worker)\n", maxTotal)
	fmt.Fprintf(w, "  Avg: %.3f ms\n", avgTotal)

	imbalance := maxTotal - minTotal
	fmt.Fprintf(w, "Time imbalance: %.3f ms (%.1f%% of max)\n",
		imbalance, imbalance/maxTotal*100)
	fmt.Fprintf(w, "Load balance efficiency: %.1f%%\n", s.EfficiencyPct)

	fmt.Fprintln(w)
	switch s.Balance {
	case "poor":
		fmt.Fprintln(w, "Poor load balancing detected!")
		fmt.Fprintln(w, "  Consider adjusting task granularity for better work distribution.")
	case "excellent":
		fmt.Fprintln(w, "Excellent load balancing!")
	default:
		fmt.Fprintln(w, "Good load balance!")
	}
}

// Extremes writes the n slowest and n fastest records by duration, with
// ties broken by insertion order. format renders a record's metadata;
// nil metadata is rendered as "-".
func (t *Tracker) Extremes(w io.Writer, n int, format func(meta interface{}) string) {
	if !t.enabled {
		return
	}
	records := t.snapshot()
	if len(records) == 0 {
		return
	}
	if format == nil {
		format = func(interface{}) string { return "-" }
	}

	slowest := make([]Record, len(records))
	copy(slowest, records)
	sort.SliceStable(slowest, func(i, j int) bool {
		return slowest[i].DurationMs() > slowest[j].DurationMs()
	})

	fastest := make([]Record, len(records))
	copy(fastest, records)
	sort.SliceStable(fastest, func(i, j int) bool {
		return fastest[i].DurationMs() < fastest[j].DurationMs()
	})

	if n > len(records) {
		n = len(records)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "SLOWEST %d TASKS:\n", n)
	for _, r := range slowest[:n] {
		fmt.Fprintf(w, "  %s: %.3f ms (worker: %s)\n", format(r.Meta), r.DurationMs(), r.Worker)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "FASTEST %d TASKS:\n", n)
	for _, r := range fastest[:n] {
		fmt.Fprintf(w, "  %s: %.3f ms (worker: %s)\n", format(r.Meta), r.DurationMs(), r.Worker)
	}
}

// SpatialHeatmap renders a 5-level intensity grid of execution times,
// bucketed by the originating cell's top-left corner. position extracts a
// cell position from a record's metadata; records without a position are
// skipped. Only meaningful when metadata carries 2D positions (tile runs).
func (t *Tracker) SpatialHeatmap(w io.Writer, rasterWidth, rasterHeight, cellSize int, position func(meta interface{}) (x, y int, ok bool)) {
	if !t.enabled || position == nil || cellSize <= 0 {
		return
	}
	records := t.snapshot()
	if len(records) == 0 {
		return
	}

	type cell struct{ x, y int }
	timeByCell := make(map[cell]float64)
	minTime := math.MaxFloat64
	maxTime := 0.0

	for _, r := range records {
		x, y, ok := position(r.Meta)
		if !ok {
			continue
		}
		d := r.DurationMs()
		timeByCell[cell{x, y}] = d
		if d < minTime {
			minTime = d
		}
		if d > maxTime {
			maxTime = d
		}
	}
	if len(timeByCell) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "SPATIAL DISTRIBUTION OF EXECUTION TIMES:")
	fmt.Fprintln(w, "  (Heatmap: darker = longer execution time)")
	fmt.Fprintln(w)

	intensity := []rune{' ', '░', '▒', '▓', '█'}
	for y := 0; y < rasterHeight; y += cellSize {
		var line strings.Builder
		line.WriteString("  ")
		for x := 0; x < rasterWidth; x += cellSize {
			d, ok := timeByCell[cell{x, y}]
			if !ok {
				line.WriteRune(' ')
				continue
			}
			// Epsilon keeps the division defined when all durations match.
			normalized := (d - minTime) / (maxTime - minTime + 0.001)
			line.WriteRune(intensity[int(normalized*float64(len(intensity)-1))])
		}
		fmt.Fprintln(w, line.String())
	}

	fmt.Fprintf(w, "  Legend: '%c' = %.2fms (min), '%c' = %.2fms (max)\n",
		intensity[0], minTime, intensity[len(intensity)-1], maxTime)
}
