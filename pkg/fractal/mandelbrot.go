package fractal

import "math"

// Iterations returns the smoothed escape count of the Mandelbrot iteration
// for the complex point (cx, cy), bounded by maxIterations. Interior points
// return exactly float64(maxIterations); escaping points return a
// fractional count for smooth coloring.
func Iterations(cx, cy float64, maxIterations int) float64 {
	var x, y float64
	iter := 0
	for x*x+y*y <= 4.0 && iter < maxIterations {
		x, y = x*x-y*y+cx, 2*x*y+cy
		iter++
	}
	if iter >= maxIterations {
		return float64(maxIterations)
	}

	// Normalized iteration count: |z| > 2 here, so the logs are defined.
	zn := math.Sqrt(x*x + y*y)
	return float64(iter) + 1 - math.Log2(math.Log(zn))
}

// ColorFor maps a (possibly fractional) iteration count to a packed
// 0xRRGGBB color. Interior points are black.
func ColorFor(iterations float64, maxIterations int) uint32 {
	if iterations >= float64(maxIterations) {
		return 0x000000
	}

	t := iterations / float64(maxIterations)
	if t < 0 {
		t = 0
	}

	r := uint32(9 * (1 - t) * t * t * t * 255)
	g := uint32(15 * (1 - t) * (1 - t) * t * t * 255)
	b := uint32(8.5 * (1 - t) * (1 - t) * (1 - t) * t * 255)
	return r<<16 | g<<8 | b
}
