package stealing

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/fractile/pkg/common/validation"
)

// Task is a schedulable unit of work. Compute runs on some worker; the
// worker handle lets the task fork children, join them, and inspect its
// own local backlog.
type Task interface {
	Compute(w *Worker) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(w *Worker) error

// Compute implements the Task interface for TaskFunc.
func (f TaskFunc) Compute(w *Worker) error {
	return f(w)
}

// Future is the handle of a forked task. It resolves exactly once, when
// some worker executes (or, after cancellation, skips) the task.
type Future struct {
	task Task
	done chan struct{}
	err  error
}

func newFuture(t Task) *Future {
	return &Future{task: t, done: make(chan struct{})}
}

// Config holds configuration options for creating an executor.
type Config struct {
	// WorkerCount is the number of worker goroutines per invocation.
	// Must be positive.
	WorkerCount int

	// OnSteal, if set, is called once per successful steal. Used for
	// instrumentation; must be safe for concurrent use.
	OnSteal func()
}

// Executor runs tasks under the work-stealing discipline. An Executor is
// reusable; each invocation gets its own set of workers and queues.
type Executor struct {
	config Config
	steals atomic.Uint64
}

// NewExecutor creates an executor with workerCount workers. Zero or
// negative counts fail fast; use runtime.NumCPU() for a sensible default.
func NewExecutor(workerCount int) (*Executor, error) {
	return NewWithConfig(Config{WorkerCount: workerCount})
}

// NewWithConfig creates an executor from an explicit configuration.
func NewWithConfig(config Config) (*Executor, error) {
	if err := validation.ValidatePositive("stealing", "workers", config.WorkerCount); err != nil {
		return nil, err
	}
	return &Executor{config: config}, nil
}

// Workers returns the number of workers per invocation.
func (e *Executor) Workers() int {
	return e.config.WorkerCount
}

// Steals returns the total number of successful steals across all
// invocations of this executor.
func (e *Executor) Steals() uint64 {
	return e.steals.Load()
}

// Invoke submits a single root task and waits for it, and every task it
// transitively forks, to complete. The first error observed is returned.
func (e *Executor) Invoke(ctx context.Context, root Task) error {
	if root == nil {
		return fmt.Errorf("stealing: root task cannot be nil")
	}
	return e.runTasks(ctx, []Task{root})
}

// InvokeAll submits all tasks at once and waits for every one of them
// (join-all). Tasks are spread round-robin across worker queues; stealing
// balances the rest. The first task error observed fails the call; it
// cancels the run's context so not-yet-started tasks are skipped rather
// than computed.
func (e *Executor) InvokeAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, t := range tasks {
		if t == nil {
			return fmt.Errorf("stealing: task cannot be nil")
		}
	}
	return e.runTasks(ctx, tasks)
}

func (e *Executor) runTasks(ctx context.Context, tasks []Task) error {
	if ctx == nil {
		ctx = context.Background()
	}

	n := e.config.WorkerCount
	r := &run{exec: e, deques: make([]*deque, n)}
	for i := range r.deques {
		r.deques[i] = &deque{}
	}

	r.pending.Store(int64(len(tasks)))
	for i, t := range tasks {
		r.deques[i%n].push(newFuture(t))
	}

	g, gctx := errgroup.WithContext(ctx)
	r.ctx = gctx
	for i := 0; i < n; i++ {
		w := &Worker{id: i, run: r}
		g.Go(w.loop)
	}

	werr := g.Wait()

	// A task that fails while a joining worker is helping with it never
	// passes through a worker loop, so the run records the first task
	// error itself. That record wins over the loops' view, which may be
	// the derived cancellation instead of the cause.
	if r.firstErr != nil {
		return r.firstErr
	}
	return werr
}

// run is the per-invocation state shared by that invocation's workers.
type run struct {
	exec    *Executor
	ctx     context.Context
	deques  []*deque
	pending atomic.Int64

	errOnce  sync.Once
	firstErr error
}

func (r *run) record(err error) {
	r.errOnce.Do(func() { r.firstErr = err })
}

// steal scans the other workers' queues starting from the thief's right
// neighbor and takes from the front of the first non-empty one.
func (r *run) steal(thief int) (*Future, bool) {
	n := len(r.deques)
	for i := 1; i < n; i++ {
		if f, ok := r.deques[(thief+i)%n].steal(); ok {
			r.exec.steals.Add(1)
			if r.exec.config.OnSteal != nil {
				r.exec.config.OnSteal()
			}
			return f, true
		}
	}
	return nil, false
}

// resolve executes a future's task on the given worker and settles the
// future exactly once. After cancellation the computation is skipped but
// the future still resolves, so joins and the pending count always
// converge.
func (r *run) resolve(w *Worker, f *Future) (err error) {
	skipped := false

	defer func() {
		if rec := recover(); rec != nil {
			f.err = fmt.Errorf("stealing: task panicked: %v\nStack trace:\n%s", rec, debug.Stack())
		}
		if f.err != nil && !skipped {
			r.record(f.err)
		}
		err = f.err
		close(f.done)
		r.pending.Add(-1)
	}()

	if cerr := r.ctx.Err(); cerr != nil {
		skipped = true
		f.err = cerr
		return
	}

	f.err = f.task.Compute(w)
	return
}

// Worker is a single worker of one invocation.
type Worker struct {
	id  int
	run *run
}

// ID returns the worker's index, stable for the invocation.
func (w *Worker) ID() int {
	return w.id
}

// Pending returns the length of the calling worker's own local queue.
// It is a best-effort snapshot for diagnostics; tasks may be stolen at
// any moment.
func (w *Worker) Pending() int {
	return w.run.deques[w.id].size()
}

// Fork schedules a child task asynchronously on the calling worker's
// local queue and returns its future. The child runs on this worker when
// popped back, or on an idle peer that steals it first.
func (w *Worker) Fork(t Task) *Future {
	f := newFuture(t)
	w.run.pending.Add(1)
	w.run.deques[w.id].push(f)
	return f
}

// Join waits for a forked child to complete and returns its error. While
// waiting the worker keeps executing other work, local first, then
// stolen, so a join never idles the physical worker while work remains.
func (w *Worker) Join(f *Future) error {
	for {
		select {
		case <-f.done:
			return f.err
		default:
		}

		if next, ok := w.run.deques[w.id].pop(); ok {
			_ = w.run.resolve(w, next)
			continue
		}
		if next, ok := w.run.steal(w.id); ok {
			_ = w.run.resolve(w, next)
			continue
		}
		runtime.Gosched()
	}
}

// loop is a worker's main schedule: drain the local queue, then steal,
// and exit when the invocation has no work left. A task error stops this
// worker and cancels the run context; surviving workers drain the
// remaining futures as skips, keeping the join-all accounting intact.
func (w *Worker) loop() error {
	r := w.run
	for {
		if f, ok := r.deques[w.id].pop(); ok {
			if err := r.resolve(w, f); err != nil {
				return err
			}
			continue
		}
		if f, ok := r.steal(w.id); ok {
			if err := r.resolve(w, f); err != nil {
				return err
			}
			continue
		}
		if r.pending.Load() == 0 {
			return nil
		}
		runtime.Gosched()
	}
}
