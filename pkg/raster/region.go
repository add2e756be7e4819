package raster

import (
	"fmt"

	fterrors "github.com/vnykmshr/fractile/pkg/common/errors"
)

// Region is an immutable axis-aligned rectangular slice of a raster with
// half-open bounds [StartX, EndX) x [StartY, EndY). A valid Region always
// has positive area.
type Region struct {
	StartX, StartY int
	EndX, EndY     int
}

// NewRegion constructs a Region and validates its bounds against the given
// raster dimensions. It returns ErrInvalidRegion if end <= start on either
// axis or if the bounds exceed the raster.
func NewRegion(startX, startY, endX, endY, rasterWidth, rasterHeight int) (Region, error) {
	r := Region{StartX: startX, StartY: startY, EndX: endX, EndY: endY}
	if startX < 0 || startY < 0 || endX <= startX || endY <= startY ||
		endX > rasterWidth || endY > rasterHeight {
		return Region{}, fmt.Errorf("%w: [%d,%d)x[%d,%d) within %dx%d raster",
			fterrors.ErrInvalidRegion, startX, endX, startY, endY, rasterWidth, rasterHeight)
	}
	return r, nil
}

// Width returns EndX - StartX.
func (r Region) Width() int { return r.EndX - r.StartX }

// Height returns EndY - StartY.
func (r Region) Height() int { return r.EndY - r.StartY }

// Area returns Width * Height.
func (r Region) Area() int { return r.Width() * r.Height() }

// Split halves the region along its longer axis at the midpoint and returns
// the two halves in raster-scan order (left/right for a vertical split,
// top/bottom for a horizontal one). On a width/height tie the split is
// vertical. The parent is not modified; the halves cover it exactly.
//
// Split requires Area() >= 2, which holds for any region a splitter reaches
// with a positive area threshold: area strictly decreases and a region of
// area 1 is always at or below any positive threshold.
func (r Region) Split() (Region, Region) {
	if r.Width() >= r.Height() {
		midX := (r.StartX + r.EndX) / 2
		return Region{StartX: r.StartX, StartY: r.StartY, EndX: midX, EndY: r.EndY},
			Region{StartX: midX, StartY: r.StartY, EndX: r.EndX, EndY: r.EndY}
	}
	midY := (r.StartY + r.EndY) / 2
	return Region{StartX: r.StartX, StartY: r.StartY, EndX: r.EndX, EndY: midY},
		Region{StartX: r.StartX, StartY: midY, EndX: r.EndX, EndY: r.EndY}
}

// String returns a compact description for reports and errors.
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", r.StartX, r.StartY, r.Width(), r.Height())
}
