package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

type fakeSink struct {
	mu      sync.Mutex
	batches [][]model.DBRow
	failNext bool
}

func (f *fakeSink) Insert(ctx context.Context, rows []model.DBRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errFake
	}
	batch := make([]model.DBRow, len(rows))
	copy(batch, rows)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeSink) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errFake = fakeErr("simulated sink failure")

func TestEnqueueFlushesOnSizeTrigger(t *testing.T) {
	sink := &fakeSink{}
	b := New(sink, 3, time.Hour, nil)
	defer b.Close()

	b.Enqueue(context.Background(), model.DBRow{ID: "1"})
	b.Enqueue(context.Background(), model.DBRow{ID: "2"})
	if sink.batchCount() != 0 {
		t.Fatal("expected no flush before size trigger reached")
	}
	b.Enqueue(context.Background(), model.DBRow{ID: "3"})

	if sink.batchCount() != 1 {
		t.Fatalf("expected 1 flush at size trigger, got %d", sink.batchCount())
	}
	if len(sink.batches[0]) != 3 {
		t.Errorf("expected batch of 3, got %d", len(sink.batches[0]))
	}
}

func TestFlushDiscardsBatchOnFailure(t *testing.T) {
	sink := &fakeSink{failNext: true}
	b := New(sink, 10, time.Hour, nil)
	defer b.Close()

	b.Enqueue(context.Background(), model.DBRow{ID: "1"})
	b.Flush(context.Background())

	if sink.batchCount() != 0 {
		t.Error("expected failed flush not to record a batch")
	}

	// batch was discarded, not retried
	b.Flush(context.Background())
	if sink.batchCount() != 0 {
		t.Error("expected discarded batch not to be retried")
	}
}

func TestFlushEmptyBatchIsNoOp(t *testing.T) {
	sink := &fakeSink{}
	b := New(sink, 10, time.Hour, nil)
	defer b.Close()

	b.Flush(context.Background())
	if sink.batchCount() != 0 {
		t.Error("expected no flush call for empty batch")
	}
}

func TestCloseFlushesRemainingBatch(t *testing.T) {
	sink := &fakeSink{}
	b := New(sink, 100, time.Hour, nil)

	b.Enqueue(context.Background(), model.DBRow{ID: "1"})
	b.Close()

	if sink.batchCount() != 1 {
		t.Errorf("expected Close to flush remaining batch, got %d flushes", sink.batchCount())
	}
}
