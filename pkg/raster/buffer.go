package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Buffer is the shared output raster. Pixels are packed 0xRRGGBB values in
// raster-scan order. Multiple workers may write concurrently via SetRegion
// as long as their regions are disjoint; the partitioner and the recursive
// splitter both guarantee disjointness, so no locking is needed.
type Buffer struct {
	width  int
	height int
	pix    []uint32
}

// NewBuffer creates a zeroed buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Width returns the raster width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the raster height in pixels.
func (b *Buffer) Height() int { return b.height }

// At returns the packed color at (x, y). Out-of-bounds reads return 0.
func (b *Buffer) At(x, y int) uint32 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// SetRegion performs one bulk write of a region's pixels, given in
// raster-scan order relative to the region. len(pixels) must equal
// r.Area() and r must lie within the buffer.
func (b *Buffer) SetRegion(r Region, pixels []uint32) error {
	if len(pixels) != r.Area() {
		return fmt.Errorf("raster: pixel count %d does not match region %s area %d",
			len(pixels), r, r.Area())
	}
	if r.StartX < 0 || r.StartY < 0 || r.EndX > b.width || r.EndY > b.height {
		return fmt.Errorf("raster: region %s outside %dx%d buffer", r, b.width, b.height)
	}

	w := r.Width()
	for row := 0; row < r.Height(); row++ {
		dst := (r.StartY+row)*b.width + r.StartX
		src := row * w
		copy(b.pix[dst:dst+w], pixels[src:src+w])
	}
	return nil
}

// Equal reports whether two buffers have identical dimensions and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// ToImage converts the buffer to an image.RGBA with opaque alpha.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for i, c := range b.pix {
		j := i * 4
		img.Pix[j+0] = uint8(c >> 16)
		img.Pix[j+1] = uint8(c >> 8)
		img.Pix[j+2] = uint8(c)
		img.Pix[j+3] = 0xff
	}
	return img
}

// SavePNG writes the buffer to a PNG file. The in-memory buffer remains
// valid if the write fails.
func (b *Buffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: saving %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := png.Encode(f, b.ToImage()); err != nil {
		return fmt.Errorf("raster: encoding %s: %w", path, err)
	}
	return nil
}
