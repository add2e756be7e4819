package fractal

// Viewport is the complex-plane window a raster is mapped onto.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultViewport frames the full Mandelbrot set.
var DefaultViewport = Viewport{XMin: -2.5, XMax: 1.0, YMin: -1.0, YMax: 1.0}

// Point maps pixel (px, py) of a width x height raster to plane
// coordinates. All scheduling strategies share this mapping, which is what
// makes their outputs pixel-for-pixel identical.
func (v Viewport) Point(px, py, width, height int) (cx, cy float64) {
	cx = v.XMin + (v.XMax-v.XMin)*float64(px)/float64(width)
	cy = v.YMin + (v.YMax-v.YMin)*float64(py)/float64(height)
	return cx, cy
}
