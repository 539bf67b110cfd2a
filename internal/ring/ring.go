// Package ring implements the single-producer, single-consumer bounded
// queue that hands raw log events from the network receivers to the
// processing worker.
package ring

import (
	"sync/atomic"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

// Buffer is a fixed-capacity SPSC ring of model.RawLogEvent slots. Capacity
// must be a power of two. Exactly one goroutine may call Push; exactly one
// (possibly different) goroutine may call Pop.
//
// head is owned and mutated only by the producer; tail is owned and
// mutated only by the consumer. Go's sync/atomic Load/Store on these
// cursors provide sequentially-consistent ordering, which is strictly
// stronger than the acquire/release contract the original implementation
// requires — safe, if more conservative than necessary.
type Buffer struct {
	capacity uint64
	mask     uint64
	slots    []model.RawLogEvent
	head     atomic.Uint64
	tail     atomic.Uint64
}

// New creates a ring buffer of the given capacity, which must be a power
// of two. Non-power-of-two capacities are rounded up.
func New(capacity int) *Buffer {
	cap64 := nextPowerOfTwo(uint64(capacity))
	return &Buffer{
		capacity: cap64,
		mask:     cap64 - 1,
		slots:    make([]model.RawLogEvent, cap64),
	}
}

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Push writes payload from source into the slot at head. It returns false
// if the buffer is full. The caller is responsible for incrementing a drop
// counter on failure. Payloads longer than model.PayloadMax are truncated,
// not dropped.
func (b *Buffer) Push(payload []byte, source string) bool {
	currentHead := b.head.Load()
	nextHead := (currentHead + 1) & b.mask

	if nextHead == b.tail.Load() {
		return false
	}

	slot := &b.slots[currentHead&b.mask]
	slot.ReceivedAt = time.Now()
	slot.Source = source

	n := len(payload)
	if n > model.PayloadMax {
		n = model.PayloadMax
	}
	slot.Length = n
	copy(slot.Payload[:n], payload[:n])

	b.head.Store(nextHead)
	return true
}

// Pop copies the slot at tail into out by value and advances tail. It
// returns false if the buffer is empty.
func (b *Buffer) Pop(out *model.RawLogEvent) bool {
	currentTail := b.tail.Load()

	if currentTail == b.head.Load() {
		return false
	}

	*out = b.slots[currentTail&b.mask]

	nextTail := (currentTail + 1) & b.mask
	b.tail.Store(nextTail)
	return true
}

// Len returns a snapshot of the number of events currently queued. It is
// approximate under concurrent access but exact in the quiescent case
// tests rely on.
func (b *Buffer) Len() int {
	h := b.head.Load()
	t := b.tail.Load()
	return int((h - t) & b.mask)
}

// Capacity returns the number of slots in the buffer. One slot is always
// left free to tell a full buffer from an empty one, so at most
// Capacity()-1 events can be queued at once.
func (b *Buffer) Capacity() int {
	return int(b.capacity)
}
