// Package worker runs a fixed set of classifier workers shared by every
// extraction, bounding calls to the external classifier.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/herocoach/internal/adapters/mq/queue"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Classifier labels a single clause.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Job is one classification request travelling through the queue.
type Job struct {
	Ctx    context.Context //nolint:containedctx // the caller's deadline travels with the job
	Text   string
	Result chan<- Result
}

// Result is the outcome of a Job.
type Result struct {
	Label string
	Err   error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes classification jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	classifier Classifier
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, classifier Classifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		classifier: classifier,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process classifies one job. Result channels are buffered so the send
// never blocks.
func (w *InMemoryWorker) process(job Job) {
	if err := job.Ctx.Err(); err != nil {
		job.Result <- Result{Err: err}
		return
	}
	label, err := w.classifier.Classify(job.Ctx, job.Text)
	if err != nil {
		w.logger.Debug(job.Ctx, "classification failed", logger.String("clause", job.Text), logger.Error(err))
	}
	job.Result <- Result{Label: label, Err: err}
}

// Pool manages multiple workers and implements Classifier itself.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue[Job]

	shutdown     chan struct{}
	shutdownOnce sync.Once

	processed atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers around classifier.
// A workerCount below 1 selects a CPU-based default.
func NewPool(workerCount int, classifier Classifier, opts ...PoolOption) *Pool {
	cfg := poolConfig{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	var qopts []queue.Option
	if cfg.queueSize > 0 {
		qopts = append(qopts, queue.WithCapacity(cfg.queueSize))
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue.NewInMemoryQueue[Job](qopts...),
		shutdown: make(chan struct{}),
		logger:   cfg.logger.Named("worker-pool"),
	}
	for i := range workerCount {
		pool.workers[i] = NewInMemoryWorker(
			pool.queue,
			classifier,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(cfg.logger),
		)
	}

	metrics.UpdatePoolWorkers(workerCount)
	return pool
}

// Start starts all workers in the pool. Workers stop when ctx is done or
// on Shutdown, whichever comes first.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "classifier pool started", logger.Int("workers", len(p.workers)))
}

// Classify queues text and waits for a worker's answer.
func (p *Pool) Classify(ctx context.Context, text string) (string, error) {
	if p.queue.IsClosed() {
		return "", ErrPoolStopped
	}

	result := make(chan Result, 1)
	if err := p.queue.Enqueue(ctx, Job{Ctx: ctx, Text: text, Result: result}); err != nil {
		if errors.Is(err, queue.ErrClosed) {
			return "", ErrPoolStopped
		}
		return "", err
	}

	select {
	case r := <-result:
		p.processed.Add(1)
		return r.Label, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.shutdown:
		return "", ErrPoolStopped
	}
}

// Processed returns the number of answered jobs.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// QueueLen returns the number of waiting jobs.
func (p *Pool) QueueLen() int { return p.queue.Len() }

// QueueCap returns the number of jobs that can wait for a worker.
func (p *Pool) QueueCap() int { return p.queue.Cap() }

// Workers returns the number of workers.
func (p *Pool) Workers() int { return len(p.workers) }

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.shutdownOnce.Do(func() { err = p.stop(ctx) })
	return err
}

func (p *Pool) stop(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	metrics.UpdatePoolWorkers(0)
	return errors.Join(errs...)
}
