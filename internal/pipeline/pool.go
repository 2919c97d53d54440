package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Submit when the backlog is at capacity.
// The caller is expected to reject the submission rather than block.
var ErrQueueFull = errors.New("job queue is full")

// Pool runs jobs on a fixed number of workers over a bounded queue.
// Submission never blocks: once the queue is full new jobs are
// rejected until a worker drains the backlog.
type Pool struct {
	queue   chan *Job
	workers int
	runner  *Runner
	logger  *zap.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

// NewPool creates a pool with the given worker count and queue size.
func NewPool(workers, queueSize int, runner *Runner, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		queue:   make(chan *Job, queueSize),
		workers: workers,
		runner:  runner,
		logger:  logger,
	}
}

// Start launches the workers. The context cancels in-flight and future
// job processing on shutdown.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
	p.logger.Info("Pipeline workers started", zap.Int("workers", p.workers))
}

// Submit enqueues a job without blocking. A rejected job is marked
// failed so pollers holding its handle see the rejection.
func (p *Pool) Submit(job *Job) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		err := errors.New("pool is stopped")
		job.fail(err)
		return err
	}
	p.mu.Unlock()

	select {
	case p.queue <- job:
		return nil
	default:
		p.logger.Warn("Job rejected, queue full", zap.String("job_id", job.ID))
		job.fail(ErrQueueFull)
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.queue)
	p.wg.Wait()
	p.logger.Info("Pipeline workers stopped")
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			p.runner.Run(ctx, job)
		}
	}
}
