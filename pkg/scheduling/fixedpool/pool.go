package fixedpool

import (
	"context"
	"sync"
	"time"

	"github.com/vnykmshr/fractile/pkg/common/validation"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the outcome of one task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool is a fixed-size worker pool delivering results in completion order.
type Pool interface {
	// Submit adds a task to the pool for execution.
	// Returns an error if the pool is shut down or the task is nil.
	Submit(task Task) error

	// SubmitWithContext submits a task with a context. The context applies
	// both to the queuing operation and to the task's execution.
	SubmitWithContext(ctx context.Context, task Task) error

	// Results returns the completion-order result channel. The channel is
	// closed when the pool is shut down and all workers have stopped.
	Results() <-chan Result

	// Shutdown initiates a graceful shutdown: no new tasks are accepted
	// and workers finish their in-flight task. Returns a channel that
	// closes when shutdown is complete.
	Shutdown() <-chan struct{}

	// ShutdownWithTimeout shuts down gracefully, then force-cancels any
	// task still running after the grace period.
	ShutdownWithTimeout(grace time.Duration) <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the number of queued tasks waiting for execution.
	QueueSize() int
}

// Config holds configuration options for creating a pool.
type Config struct {
	// WorkerCount is the number of workers. Must be positive.
	WorkerCount int

	// QueueSize is the task queue capacity. 0 means an unbuffered queue
	// (submitters rendezvous with workers).
	QueueSize int

	// ResultBuffer is the result channel capacity. Size it to the number
	// of expected tasks to guarantee workers never block on delivery.
	ResultBuffer int
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config

	taskQueue   chan taskWithContext
	resultQueue chan Result

	shutdownCh   chan struct{}
	forceCh      chan struct{}
	shutdownOnce sync.Once
	forceOnce    sync.Once

	mu         sync.RWMutex
	isShutdown bool

	workerWg sync.WaitGroup
}

type taskWithContext struct {
	task Task
	ctx  context.Context
}

// worker is a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// New creates a pool with the given worker count and task queue capacity.
// The result channel is buffered to queueSize so a full batch can complete
// without a consumer keeping pace.
func New(workerCount, queueSize int) (Pool, error) {
	return NewWithConfig(Config{
		WorkerCount:  workerCount,
		QueueSize:    queueSize,
		ResultBuffer: queueSize,
	})
}

// NewWithConfig creates a pool from an explicit configuration.
// Configuration errors fail fast, before any worker is started.
func NewWithConfig(config Config) (Pool, error) {
	if err := validation.ValidatePositive("fixedpool", "workers", config.WorkerCount); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("fixedpool", "queueSize", config.QueueSize); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("fixedpool", "resultBuffer", config.ResultBuffer); err != nil {
		return nil, err
	}

	pool := &workerPool{
		config:      config,
		taskQueue:   make(chan taskWithContext, config.QueueSize),
		resultQueue: make(chan Result, config.ResultBuffer),
		shutdownCh:  make(chan struct{}),
		forceCh:     make(chan struct{}),
	}

	for i := 0; i < config.WorkerCount; i++ {
		w := worker{id: i, pool: pool}
		pool.workerWg.Add(1)
		go w.run()
	}

	return pool, nil
}
