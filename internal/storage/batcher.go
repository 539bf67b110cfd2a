// Package storage implements the accumulate-then-periodic-flush batcher
// (C7) and the analytics-sink HTTP client it flushes to.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
	"github.com/aryorithm/blackbox/internal/model"
)

// Sink is the analytics-store collaborator Batcher flushes to.
type Sink interface {
	Insert(ctx context.Context, rows []model.DBRow) error
}

// Batcher accumulates DBRows and flushes them whenever the batch reaches
// flushBatchSize or flushInterval has elapsed since the oldest record,
// whichever comes first.
type Batcher struct {
	mu            sync.Mutex
	rows          []model.DBRow
	oldest        time.Time
	flushBatchSize int
	flushInterval time.Duration
	sink          Sink
	log           *logging.Logger
	now           func() time.Time

	stopCh  chan struct{}
	stopped chan struct{}
}

// New creates a Batcher and starts its periodic flush ticker.
func New(sink Sink, flushBatchSize int, flushInterval time.Duration, log *logging.Logger) *Batcher {
	b := &Batcher{
		flushBatchSize: flushBatchSize,
		flushInterval:  flushInterval,
		sink:           sink,
		log:            log,
		now:            time.Now,
		stopCh:         make(chan struct{}),
		stopped:        make(chan struct{}),
	}
	go b.flushLoop()
	return b
}

// Enqueue appends a record to the in-memory batch, flushing immediately
// if the size trigger is reached.
func (b *Batcher) Enqueue(ctx context.Context, row model.DBRow) {
	b.mu.Lock()
	if len(b.rows) == 0 {
		b.oldest = b.now()
	}
	b.rows = append(b.rows, row)
	full := len(b.rows) >= b.flushBatchSize
	b.mu.Unlock()

	if full {
		b.Flush(ctx)
	}
}

// Flush forms a single batch-insert call against the sink with a 2-second
// timeout (enforced by the sink itself). On failure the batch is
// discarded and a db-error counter is incremented; retry is not
// attempted.
func (b *Batcher) Flush(ctx context.Context) {
	b.mu.Lock()
	if len(b.rows) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.rows
	b.rows = nil
	b.mu.Unlock()

	if err := b.sink.Insert(ctx, batch); err != nil {
		metrics.DBErrorsTotal.Inc()
		if b.log != nil {
			b.log.ErrorContext(ctx, "storage: flush failed, batch discarded", logging.Error(err), logging.BatchSize(len(batch)))
		}
		return
	}
	metrics.DBRowsWrittenTotal.Add(float64(len(batch)))
}

func (b *Batcher) flushLoop() {
	defer close(b.stopped)

	tick := b.flushInterval / 4
	if tick <= 0 {
		tick = b.flushInterval
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.flushIfStale()
		}
	}
}

func (b *Batcher) flushIfStale() {
	b.mu.Lock()
	stale := len(b.rows) > 0 && b.now().Sub(b.oldest) >= b.flushInterval
	b.mu.Unlock()

	if stale {
		b.Flush(context.Background())
	}
}

// Close stops the periodic flush loop and flushes any remaining in-flight
// batch before returning.
func (b *Batcher) Close() {
	close(b.stopCh)
	<-b.stopped
	b.Flush(context.Background())
}
