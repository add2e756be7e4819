package fractal

import (
	"testing"

	"github.com/vnykmshr/fractile/internal/testutil"
)

func TestIterationsInterior(t *testing.T) {
	// The origin and points near it never escape.
	for _, p := range []struct{ x, y float64 }{{0, 0}, {-1, 0}, {-0.1, 0.1}} {
		got := Iterations(p.x, p.y, 500)
		testutil.AssertEqual(t, got, float64(500))
	}
}

func TestIterationsEscaping(t *testing.T) {
	// Far-out points escape immediately with a small fractional count.
	got := Iterations(2.0, 2.0, 500)
	if got >= 500 {
		t.Fatalf("point should escape, got %v", got)
	}
	if got < 0 {
		t.Fatalf("iteration count cannot be negative, got %v", got)
	}
}

func TestIterationsDeterministic(t *testing.T) {
	a := Iterations(-0.743, 0.131, 1000)
	b := Iterations(-0.743, 0.131, 1000)
	testutil.AssertEqual(t, a, b)
}

func TestColorFor(t *testing.T) {
	testutil.AssertEqual(t, ColorFor(1000, 1000), uint32(0x000000))

	c := ColorFor(10.5, 1000)
	if c > 0xffffff {
		t.Fatalf("color %#x exceeds 24-bit range", c)
	}

	// Same count, same color.
	testutil.AssertEqual(t, ColorFor(10.5, 1000), c)
}

func TestViewportPoint(t *testing.T) {
	v := Viewport{XMin: -2.0, XMax: 2.0, YMin: -1.0, YMax: 1.0}

	cx, cy := v.Point(0, 0, 100, 50)
	testutil.AssertEqual(t, cx, -2.0)
	testutil.AssertEqual(t, cy, -1.0)

	cx, cy = v.Point(50, 25, 100, 50)
	testutil.AssertEqual(t, cx, 0.0)
	testutil.AssertEqual(t, cy, 0.0)
}
