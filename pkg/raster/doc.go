/*
Package raster models the unit-of-work currency for parallel rendering:
immutable rectangular regions of a raster, static tile partitions of it,
and the shared output buffer the computed pixels land in.

Regions use half-open bounds [start, end) on both axes and are never
mutated after construction; splitting a region produces two new regions
covering the parent exactly, with no overlap. The partitioner guarantees
that any two tiles it produces are disjoint, which is what makes lock-free
concurrent writes to the shared Buffer safe.

Basic usage:

	tiles, err := raster.Partition(1600, 1200, 64)
	if err != nil {
		log.Fatal(err)
	}

	buf := raster.NewBuffer(1600, 1200)
	for _, tile := range tiles {
		pixels := computeSomehow(tile.Region)
		buf.SetRegion(tile.Region, pixels)
	}
	if err := buf.SavePNG("out.png"); err != nil {
		log.Fatal(err)
	}
*/
package raster
