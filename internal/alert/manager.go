// Package alert implements per-source alert cooldown deduplication and
// action dispatch (C6): publish on the pub/sub channel and, if active
// defense is enabled, block the source via the block-list manager.
package alert

import (
	"context"
	"sync"
	"time"

	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
	"github.com/aryorithm/blackbox/internal/model"
)

// Publisher is the pub/sub collaborator required by Manager.
type Publisher interface {
	Publish(ctx context.Context, payload any) error
}

// Blocker is the active-defense collaborator required by Manager.
type Blocker interface {
	Block(ctx context.Context, source string, duration time.Duration)
}

// Manager evaluates verdicts and conditionally dispatches side effects.
type Manager struct {
	mu                sync.Mutex
	lastAlert         map[string]time.Time
	cooldown          time.Duration
	criticalThreshold float64
	defaultBanSeconds time.Duration
	activeDefense     bool
	publisher         Publisher
	blocker           Blocker
	log               *logging.Logger
	now               func() time.Time
}

// Config holds Manager's tunables.
type Config struct {
	CooldownSeconds   int
	CriticalThreshold float64
	DefaultBanSeconds int
	ActiveDefense     bool
}

// New creates a Manager.
func New(cfg Config, publisher Publisher, blocker Blocker, log *logging.Logger) *Manager {
	return &Manager{
		lastAlert:         make(map[string]time.Time),
		cooldown:          time.Duration(cfg.CooldownSeconds) * time.Second,
		criticalThreshold: cfg.CriticalThreshold,
		defaultBanSeconds: time.Duration(cfg.DefaultBanSeconds) * time.Second,
		activeDefense:     cfg.ActiveDefense,
		publisher:         publisher,
		blocker:           blocker,
		log:               log,
		now:               time.Now,
	}
}

// Trigger evaluates a verdict for source and, if it clears the critical
// threshold and is not within cooldown, dispatches side effects. The
// cooldown map is guarded by a single mutex; dispatch happens outside
// the lock.
func (m *Manager) Trigger(ctx context.Context, source string, score float64, reason string) {
	if score < m.criticalThreshold {
		return
	}

	now := m.now()

	m.mu.Lock()
	if last, ok := m.lastAlert[source]; ok && now.Sub(last) < m.cooldown {
		m.mu.Unlock()
		return
	}
	m.lastAlert[source] = now
	m.mu.Unlock()

	m.dispatch(ctx, source, score, reason, now)
}

func (m *Manager) dispatch(ctx context.Context, source string, score float64, reason string, now time.Time) {
	alertPayload := model.Alert{
		Source:    source,
		Score:     score,
		Reason:    reason,
		Timestamp: now,
	}

	if err := m.publisher.Publish(ctx, alertPayload); err != nil {
		metrics.PublishErrorsTotal.Inc()
		if m.log != nil {
			m.log.ErrorContext(ctx, "alert: publish failed", logging.Source(source), logging.Error(err))
		}
	} else {
		metrics.AlertsPublishedTotal.Inc()
	}

	if m.activeDefense {
		m.blocker.Block(ctx, source, m.defaultBanSeconds)
	}
}
