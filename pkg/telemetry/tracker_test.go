package telemetry

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/fractile/internal/testutil"
)

// recordWithDuration appends a synthetic record of the given duration.
func recordWithDuration(tr *Tracker, ms float64, worker string, meta interface{}) {
	base := time.Unix(0, 0)
	tr.Record(base, base.Add(time.Duration(ms*float64(time.Millisecond))), worker, meta)
}

func TestTrackerDisabled(t *testing.T) {
	tr := NewTracker(false)
	testutil.AssertEqual(t, tr.Enabled(), false)

	recordWithDuration(tr, 5, "worker-0", nil)
	testutil.AssertEqual(t, tr.Count(), 0)

	var buf bytes.Buffer
	tr.Report(&buf)
	tr.Extremes(&buf, 3, nil)
	tr.SpatialHeatmap(&buf, 64, 64, 16, func(interface{}) (int, int, bool) { return 0, 0, true })
	testutil.AssertEqual(t, buf.Len(), 0)

	if _, ok := tr.Summary(); ok {
		t.Error("disabled tracker should have no summary")
	}
}

func TestTrackerDisabledRecordAllocs(t *testing.T) {
	tr := NewTracker(false)
	start := time.Unix(0, 0)
	end := start.Add(time.Millisecond)

	allocs := testing.AllocsPerRun(100, func() {
		tr.Record(start, end, "worker-0", nil)
	})
	testutil.AssertEqual(t, allocs, 0.0)
}

func TestTrackerEmptyReport(t *testing.T) {
	tr := NewTracker(true)

	var buf bytes.Buffer
	tr.Report(&buf)
	if !strings.Contains(buf.String(), "No tasks recorded.") {
		t.Errorf("empty report should say no tasks, got:\n%s", buf.String())
	}
}

func TestTrackerConcurrentRecord(t *testing.T) {
	tr := NewTracker(true)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				recordWithDuration(tr, 1, WorkerName(g), nil)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	testutil.AssertEqual(t, tr.Count(), 800)
}

func TestSummaryPercentiles(t *testing.T) {
	tr := NewTracker(true)
	// 100 durations: 1..100 ms, inserted out of order to prove sorting.
	for i := 100; i >= 1; i-- {
		recordWithDuration(tr, float64(i), "worker-0", nil)
	}

	s, ok := tr.Summary()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, s.Count, 100)
	testutil.AssertEqual(t, s.MinMs, 1.0)
	testutil.AssertEqual(t, s.MaxMs, 100.0)

	// Nearest rank: index floor(100 * 0.95) = 95 of the 0-indexed sorted
	// array, which holds the value 96.
	testutil.AssertEqual(t, s.P95Ms, 96.0)
	testutil.AssertEqual(t, s.P99Ms, 100.0)

	// Median is the element at n/2.
	testutil.AssertEqual(t, s.MedianMs, 51.0)

	testutil.AssertEqual(t, s.AvgMs, 50.5)
	testutil.AssertEqual(t, s.Variability, 100.0)
}

func TestSummaryLoadBalance(t *testing.T) {
	t.Run("equal totals are excellent", func(t *testing.T) {
		tr := NewTracker(true)
		recordWithDuration(tr, 10, "worker-0", nil)
		recordWithDuration(tr, 10, "worker-1", nil)

		s, ok := tr.Summary()
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, s.EfficiencyPct, 100.0)
		testutil.AssertEqual(t, s.Balance, "excellent")
	})

	t.Run("skewed totals are poor", func(t *testing.T) {
		tr := NewTracker(true)
		recordWithDuration(tr, 100, "worker-0", nil)
		recordWithDuration(tr, 10, "worker-1", nil)

		s, _ := tr.Summary()
		testutil.AssertEqual(t, s.EfficiencyPct, 10.0)
		testutil.AssertEqual(t, s.Balance, "poor")
	})

	t.Run("zero totals use the guard", func(t *testing.T) {
		tr := NewTracker(true)
		recordWithDuration(tr, 0, "worker-0", nil)
		recordWithDuration(tr, 0, "worker-1", nil)

		s, ok := tr.Summary()
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, s.EfficiencyPct, 0.0)
		testutil.AssertEqual(t, s.Balance, "no data")
	})
}

func TestSummaryPerWorker(t *testing.T) {
	tr := NewTracker(true)
	recordWithDuration(tr, 10, "worker-1", nil)
	recordWithDuration(tr, 20, "worker-0", nil)
	recordWithDuration(tr, 30, "worker-1", nil)

	s, _ := tr.Summary()
	testutil.AssertEqual(t, len(s.Workers), 2)

	// Sorted by worker name.
	testutil.AssertEqual(t, s.Workers[0].Worker, "worker-0")
	testutil.AssertEqual(t, s.Workers[0].Count, 1)
	testutil.AssertEqual(t, s.Workers[0].TotalMs, 20.0)

	testutil.AssertEqual(t, s.Workers[1].Worker, "worker-1")
	testutil.AssertEqual(t, s.Workers[1].Count, 2)
	testutil.AssertEqual(t, s.Workers[1].TotalMs, 40.0)
	testutil.AssertEqual(t, s.Workers[1].AvgMs, 20.0)
}

func TestReportSections(t *testing.T) {
	tr := NewTracker(true)
	for i := 1; i <= 10; i++ {
		recordWithDuration(tr, float64(i), WorkerName(i%2), nil)
	}

	var buf bytes.Buffer
	tr.Report(&buf)
	out := buf.String()

	for _, want := range []string{
		"TASK EXECUTION TIME STATISTICS",
		"Total tasks:     10",
		"EXECUTION TIME DISTRIBUTION:",
		"PER-WORKER STATISTICS:",
		"LOAD BALANCE ANALYSIS",
		"Load balance efficiency:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportIdenticalDurations(t *testing.T) {
	// All-equal durations collapse the histogram bins to zero width; the
	// report must not divide by zero.
	tr := NewTracker(true)
	for i := 0; i < 5; i++ {
		recordWithDuration(tr, 7, "worker-0", nil)
	}

	var buf bytes.Buffer
	tr.Report(&buf)
	if !strings.Contains(buf.String(), "Total tasks:     5") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
}

func TestExtremes(t *testing.T) {
	tr := NewTracker(true)
	recordWithDuration(tr, 30, "worker-0", "tile-a")
	recordWithDuration(tr, 10, "worker-1", "tile-b")
	recordWithDuration(tr, 20, "worker-0", "tile-c")
	recordWithDuration(tr, 10, "worker-1", "tile-d") // tie with tile-b

	var buf bytes.Buffer
	tr.Extremes(&buf, 2, func(meta interface{}) string {
		return fmt.Sprintf("%v", meta)
	})
	out := buf.String()

	slowIdx := strings.Index(out, "SLOWEST 2 TASKS:")
	fastIdx := strings.Index(out, "FASTEST 2 TASKS:")
	if slowIdx < 0 || fastIdx < 0 {
		t.Fatalf("missing sections:\n%s", out)
	}

	slow := out[slowIdx:fastIdx]
	if !strings.Contains(slow, "tile-a") || !strings.Contains(slow, "tile-c") {
		t.Errorf("slowest section wrong:\n%s", slow)
	}

	// Ties keep insertion order: tile-b before tile-d.
	fast := out[fastIdx:]
	bIdx := strings.Index(fast, "tile-b")
	dIdx := strings.Index(fast, "tile-d")
	if bIdx < 0 || dIdx < 0 || bIdx > dIdx {
		t.Errorf("fastest section should list tile-b before tile-d:\n%s", fast)
	}
}

func TestExtremesCountLargerThanRecords(t *testing.T) {
	tr := NewTracker(true)
	recordWithDuration(tr, 1, "worker-0", nil)

	var buf bytes.Buffer
	tr.Extremes(&buf, 10, nil)
	if !strings.Contains(buf.String(), "SLOWEST 1 TASKS:") {
		t.Errorf("count should clamp to record count:\n%s", buf.String())
	}
}

type testPos struct{ x, y int }

func TestSpatialHeatmap(t *testing.T) {
	tr := NewTracker(true)
	recordWithDuration(tr, 1, "worker-0", testPos{0, 0})
	recordWithDuration(tr, 50, "worker-0", testPos{16, 0})
	recordWithDuration(tr, 100, "worker-1", testPos{0, 16})
	recordWithDuration(tr, 100, "worker-1", testPos{16, 16})

	var buf bytes.Buffer
	tr.SpatialHeatmap(&buf, 32, 32, 16, func(meta interface{}) (int, int, bool) {
		p, ok := meta.(testPos)
		return p.x, p.y, ok
	})
	out := buf.String()

	if !strings.Contains(out, "SPATIAL DISTRIBUTION OF EXECUTION TIMES:") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") {
		t.Errorf("missing legend:\n%s", out)
	}
}

func TestSpatialHeatmapEqualDurations(t *testing.T) {
	// The epsilon in the normalization denominator keeps this defined.
	tr := NewTracker(true)
	recordWithDuration(tr, 5, "worker-0", testPos{0, 0})
	recordWithDuration(tr, 5, "worker-0", testPos{16, 0})

	var buf bytes.Buffer
	tr.SpatialHeatmap(&buf, 32, 16, 16, func(meta interface{}) (int, int, bool) {
		p, ok := meta.(testPos)
		return p.x, p.y, ok
	})
	if buf.Len() == 0 {
		t.Error("expected heatmap output")
	}
}

func TestSummaryJSON(t *testing.T) {
	tr := NewTracker(true)
	recordWithDuration(tr, 10, "worker-0", nil)
	recordWithDuration(tr, 20, "worker-1", nil)

	data, err := tr.SummaryJSON()
	testutil.AssertNoError(t, err)

	for _, want := range []string{`"count":2`, `"workers":[`, `"efficiency_pct":`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %q: %s", want, data)
		}
	}
}

func TestSummaryJSONNoData(t *testing.T) {
	_, err := NewTracker(true).SummaryJSON()
	testutil.AssertError(t, err)

	_, err = NewTracker(false).SummaryJSON()
	testutil.AssertError(t, err)
}
