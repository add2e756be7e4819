// Package scheduling groups the concurrency disciplines units of work can
// be executed under: a bounded fixed-size pool with completion-order
// result draining (fixedpool) and a work-stealing executor with per-worker
// deques and fork/join (stealing).
package scheduling
