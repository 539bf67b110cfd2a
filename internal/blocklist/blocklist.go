// Package blocklist implements the deduplicated firewall rule lifecycle
// with expiry (C5): a keyed map of active blocks plus a background
// expiration worker, structured on the teacher's ack.Manager TTL-map
// pattern and the original BlockListManager's block/unblock semantics.
package blocklist

import (
	"context"
	"sync"
	"time"

	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
	"github.com/aryorithm/blackbox/internal/model"
)

const expirationTick = 5 * time.Second

// FirewallAdapter is the host firewall collaborator required by Manager.
type FirewallAdapter interface {
	Block(ctx context.Context, source string) error
	Unblock(ctx context.Context, source string) error
}

// Manager maintains active blocks and their expiry.
type Manager struct {
	mu       sync.Mutex
	blocks   map[string]model.BlockEntry
	fw       FirewallAdapter
	log      *logging.Logger
	now      func() time.Time
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a Manager and starts its expiration worker.
func New(fw FirewallAdapter, log *logging.Logger) *Manager {
	m := &Manager{
		blocks:  make(map[string]model.BlockEntry),
		fw:      fw,
		log:     log,
		now:     time.Now,
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go m.expirationWorker()
	return m
}

// Block installs a block for source if one is not already active.
// First-block-wins: a block request for an already-blocked source is a
// no-op — extensions are not honored by design (see DESIGN.md).
func (m *Manager) Block(ctx context.Context, source string, duration time.Duration) {
	m.mu.Lock()
	if _, exists := m.blocks[source]; exists {
		m.mu.Unlock()
		return
	}
	m.blocks[source] = model.BlockEntry{
		Source:    source,
		StartedAt: m.now(),
		Duration:  duration,
	}
	metrics.BlockedSources.Set(float64(len(m.blocks)))
	m.mu.Unlock()

	if err := m.fw.Block(ctx, source); err != nil && m.log != nil {
		m.log.ErrorContext(ctx, "blocklist: firewall block failed", logging.Source(source), logging.Error(err))
	}
}

// Unblock removes an active block for source, if present, and requests
// removal of the underlying firewall rule.
func (m *Manager) Unblock(ctx context.Context, source string) {
	m.mu.Lock()
	if _, exists := m.blocks[source]; !exists {
		m.mu.Unlock()
		return
	}
	delete(m.blocks, source)
	metrics.BlockedSources.Set(float64(len(m.blocks)))
	m.mu.Unlock()

	if err := m.fw.Unblock(ctx, source); err != nil && m.log != nil {
		m.log.ErrorContext(ctx, "blocklist: firewall unblock failed", logging.Source(source), logging.Error(err))
	}
}

// IsBlocked reports whether source currently has an active block.
func (m *Manager) IsBlocked(source string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.blocks[source]
	return exists
}

// Snapshot returns a copy of all currently active blocks, for the admin
// introspection surface.
func (m *Manager) Snapshot() []model.BlockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.BlockEntry, 0, len(m.blocks))
	for _, entry := range m.blocks {
		out = append(out, entry)
	}
	return out
}

// Close stops the expiration worker. Existing firewall rules are
// intentionally not torn down — they persist across restarts.
func (m *Manager) Close() {
	close(m.stopCh)
	<-m.stopped
}

func (m *Manager) expirationWorker() {
	defer close(m.stopped)
	ticker := time.NewTicker(expirationTick)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.expireOnce()
		}
	}
}

func (m *Manager) expireOnce() {
	now := m.now()

	m.mu.Lock()
	var expired []string
	for source, entry := range m.blocks {
		if now.Sub(entry.StartedAt) >= entry.Duration {
			expired = append(expired, source)
		}
	}
	m.mu.Unlock()

	for _, source := range expired {
		if m.log != nil {
			m.log.InfoContext(context.Background(), "blocklist: ban expired, unblocking", logging.Source(source))
		}
		m.Unblock(context.Background(), source)
	}
}
