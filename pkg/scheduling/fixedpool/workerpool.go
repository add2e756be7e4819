package fixedpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	fterrors "github.com/vnykmshr/fractile/pkg/common/errors"
)

// Submit adds a task to the pool for execution with context.Background().
func (p *workerPool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithContext adds a task to the pool for execution with the given
// context. The context is passed through to the task's Execute method, so
// caller-side cancellation propagates into running tasks.
func (p *workerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if task == nil {
		return fmt.Errorf("fixedpool: task cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.RLock()
	isShutdown := p.isShutdown
	p.mu.RUnlock()
	if isShutdown {
		return fmt.Errorf("fixedpool: cannot submit task: %w", fterrors.ErrClosed)
	}

	// A pre-canceled context fails deterministically instead of racing the
	// queue.
	select {
	case <-ctx.Done():
		return fmt.Errorf("fixedpool: cannot submit task: %w", ctx.Err())
	default:
	}

	select {
	case p.taskQueue <- taskWithContext{task: task, ctx: ctx}:
		return nil
	case <-p.shutdownCh:
		return fmt.Errorf("fixedpool: cannot submit task: %w", fterrors.ErrClosed)
	case <-ctx.Done():
		return fmt.Errorf("fixedpool: cannot submit task: %w", ctx.Err())
	}
}

// Results returns the completion-order result channel.
func (p *workerPool) Results() <-chan Result {
	return p.resultQueue
}

// Shutdown initiates a graceful shutdown of the pool.
func (p *workerPool) Shutdown() <-chan struct{} {
	done := make(chan struct{})

	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.isShutdown = true
		p.mu.Unlock()

		close(p.shutdownCh)

		go func() {
			p.workerWg.Wait()
			close(p.resultQueue)
			close(done)
		}()
	})

	return done
}

// ShutdownWithTimeout shuts down gracefully, waits up to grace for
// in-flight tasks, then force-cancels stragglers via their contexts.
func (p *workerPool) ShutdownWithTimeout(grace time.Duration) <-chan struct{} {
	done := p.Shutdown()
	out := make(chan struct{})

	go func() {
		defer close(out)
		select {
		case <-done:
		case <-time.After(grace):
			p.forceOnce.Do(func() { close(p.forceCh) })
			<-done
		}
	}()

	return out
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks.
func (p *workerPool) QueueSize() int {
	return len(p.taskQueue)
}

// run is the main loop for a worker. Queued tasks are drained even after
// shutdown begins; only the force channel abandons them.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	for {
		select {
		case twc := <-w.pool.taskQueue:
			w.executeTask(twc)
		case <-w.pool.shutdownCh:
			// Drain whatever was queued before shutdown, then stop.
			for {
				select {
				case twc := <-w.pool.taskQueue:
					w.executeTask(twc)
				case <-w.pool.forceCh:
					return
				default:
					return
				}
			}
		case <-w.pool.forceCh:
			return
		}
	}
}

// executeTask runs a single task with panic recovery and delivers its
// result to the completion channel.
func (w *worker) executeTask(twc taskWithContext) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fixedpool: task panicked: %v\nStack trace:\n%s", r, debug.Stack())
		}

		result := Result{
			Task:     twc.task,
			Error:    err,
			Duration: time.Since(start),
			WorkerID: w.id,
		}

		select {
		case w.pool.resultQueue <- result:
		case <-w.pool.forceCh:
			// Forced shutdown; the consumer is gone.
		}
	}()

	ctx := twc.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	// Forced shutdown cancels in-flight tasks through their contexts.
	ctx, cancel := context.WithCancel(ctx)
	stop := make(chan struct{})
	go func() {
		select {
		case <-w.pool.forceCh:
			cancel()
		case <-stop:
		}
	}()
	defer func() {
		close(stop)
		cancel()
	}()

	err = twc.task.Execute(ctx)
}
