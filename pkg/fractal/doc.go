/*
Package fractal is the computation kernel consumed by the schedulers: pure
functions mapping complex-plane coordinates to iteration counts and
iteration counts to packed colors. Both are stateless and safe to call
concurrently from any number of workers with no coordination.
*/
package fractal
