// Package render orchestrates fractal rendering across the scheduling
// strategies. A Job binds rendering options to instrumentation state; its
// Render method executes one full-raster computation under a chosen
// strategy and returns the finished pixel buffer.
//
// Three strategies are provided:
//
//   - StrategyFixed: the raster is partitioned into tiles up front and the
//     tiles are dispatched to a fixed-size worker pool. Results arrive in
//     completion order and are committed to the buffer as they land.
//
//   - StrategyBinary: a single task covering the whole raster splits
//     itself in half recursively on the work-stealing executor, forking
//     one half and computing the other, until regions shrink to the
//     configured threshold.
//
//   - StrategyTiles: the raster is partitioned into tiles up front, but
//     the tiles run on the work-stealing executor as a join-all batch.
//
// All strategies map pixels through the same viewport and kernel, so a
// given Options value produces an identical buffer regardless of the
// strategy that computed it.
package render
