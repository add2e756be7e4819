package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vnykmshr/fractile/internal/testutil"
)

func TestQueueMonitorDisabled(t *testing.T) {
	m := NewQueueMonitor(false)
	testutil.AssertEqual(t, m.Enabled(), false)

	m.Sample("worker-0", 3)
	testutil.AssertEqual(t, m.Count(), 0)

	var buf bytes.Buffer
	m.Report(&buf)
	testutil.AssertEqual(t, buf.Len(), 0)
}

func TestQueueMonitorNoSamples(t *testing.T) {
	m := NewQueueMonitor(true)

	var buf bytes.Buffer
	m.Report(&buf)
	if !strings.Contains(buf.String(), "No samples collected") {
		t.Errorf("empty report should degrade explicitly, got:\n%s", buf.String())
	}
}

func TestQueueMonitorReport(t *testing.T) {
	m := NewQueueMonitor(true)
	for i := 0; i < 10; i++ {
		m.Sample("worker-0", i)
	}
	m.Sample("worker-1", 0)
	m.Sample("worker-1", 2)

	var buf bytes.Buffer
	m.Report(&buf)
	out := buf.String()

	for _, want := range []string{
		"LOCAL QUEUE STATISTICS",
		"Collected 12 samples from 2 workers",
		"worker-0:",
		"Samples: 10, Queue: min=0, max=9, avg=4.5",
		"worker-1:",
		"Samples: 2, Queue: min=0, max=2, avg=1.0",
		"Interpretation:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestQueueMonitorConcurrentSample(t *testing.T) {
	m := NewQueueMonitor(true)

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 250; i++ {
				m.Sample(WorkerName(g), i)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	testutil.AssertEqual(t, m.Count(), 1000)
}

func TestTimelineQuantization(t *testing.T) {
	samples := []Sample{
		{Pending: 0},
		{Pending: 1},
		{Pending: 4},
		{Pending: 6},
		{Pending: 10},
	}
	got := timeline(samples, 10)
	testutil.AssertEqual(t, got, "·░▒▓█")

	// All-zero backlog renders blanks.
	zero := []Sample{{Pending: 0}, {Pending: 0}}
	testutil.AssertEqual(t, timeline(zero, 0), "  ")
}

func TestTimelineDownsampling(t *testing.T) {
	samples := make([]Sample, 500)
	for i := range samples {
		samples[i] = Sample{Pending: 1}
	}
	got := timeline(samples, 1)
	testutil.AssertEqual(t, len([]rune(got)), timelineWidth)
}
