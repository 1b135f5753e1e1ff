package research

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// WorkerFactory builds a fresh worker for one subtask invocation
type WorkerFactory func() Worker

// Dispatcher fans one batch of subtasks out to worker agents and collects
// their findings in batch order. It is the single capability exposed to the
// lead coordinator.
type Dispatcher struct {
	newWorker   WorkerFactory
	logger      *slog.Logger
	concurrency int
}

// NewDispatcher returns a dispatcher running workers sequentially by default,
// matching the lead instructions' rate limit intent. Raise the limit with
// WithConcurrency to trade rate safety for throughput.
func NewDispatcher(newWorker WorkerFactory, opts ...DispatcherOption) *Dispatcher {
	ret := &Dispatcher{
		newWorker:   newWorker,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

type DispatcherOption func(*Dispatcher)

// WithConcurrency sets how many workers of one round may run at once
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the dispatcher logger
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Run executes one dispatch round: every subtask gets a fresh worker, all
// invocations are issued under the configured concurrency limit, and the call
// returns only once every one has completed. Findings come back positionally
// aligned to the batch.
//
// Failure policy is fail-fast: the first worker error cancels the round and
// fails the whole batch, no partial findings are returned.
func (d *Dispatcher) Run(ctx context.Context, batch *SubtaskBatch) ([]string, error) {
	if batch == nil || len(batch.Tasks) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	d.logger.Info("dispatching subtasks", "count", len(batch.Tasks), "concurrency", d.concurrency)
	findings := make([]string, len(batch.Tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for idx, task := range batch.Tasks {
		g.Go(func() error {
			finding, err := d.newWorker().Research(gctx, task)
			if err != nil {
				return fmt.Errorf("subtask %d (%s) failed: %w", idx, task.FocusArea, err)
			}
			findings[idx] = finding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.logger.Info("completed subtasks", "count", len(findings))
	return findings, nil
}
