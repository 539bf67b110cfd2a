// Package pipeline implements the orchestrator (C8) that owns the ring
// buffer, rate limiter, block list, alert manager, storage batcher, rule
// engine, enrichment service, and inference scorer, and drives the two
// data-plane worker loops described in the original ThreadUtils-based
// design: a network ingest loop and a drain/classify/route loop.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aryorithm/blackbox/internal/enrichment"
	"github.com/aryorithm/blackbox/internal/inference"
	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
	"github.com/aryorithm/blackbox/internal/model"
	"github.com/aryorithm/blackbox/internal/parser"
	"github.com/aryorithm/blackbox/internal/rules"
	"github.com/aryorithm/blackbox/internal/threadutil"
)

const (
	ingestCore, ingestPriority     = 0, 90
	processingCore, processingPrio = 1, 80
)

// Ring is the C1 collaborator the processing loop drains.
type Ring interface {
	Pop(out *model.RawLogEvent) bool
	Len() int
}

// AlertTrigger is the C6 collaborator invoked on a critical verdict.
type AlertTrigger interface {
	Trigger(ctx context.Context, source string, score float64, reason string)
}

// RowEnqueuer is the C7 collaborator every classified log is routed to,
// regardless of verdict.
type RowEnqueuer interface {
	Enqueue(ctx context.Context, row model.DBRow)
	Flush(ctx context.Context)
}

// Receiver is satisfied by both the UDP and TCP network producers (C3,
// C4); each runs its own accept/read loop until ctx is cancelled.
type Receiver interface {
	Run(ctx context.Context)
}

// Config holds the orchestrator's per-iteration tunables.
type Config struct {
	BatchSize        int
	AnomalyThreshold float64
}

// Pipeline is the processing-loop orchestrator. The network receivers
// are constructed by the caller (cmd/blackboxd) and passed to New; Start
// runs each one on its own ingest worker, and Stop ends them by
// cancelling the context their Run loops were given.
type Pipeline struct {
	cfg Config

	ring      Ring
	geo       enrichment.GeoIP
	rules     *rules.Engine
	scorer    inference.Scorer
	alerts    AlertTrigger
	storage   RowEnqueuer
	receivers []Receiver

	log *logging.Logger

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an orchestrator over its already-constructed collaborators.
func New(cfg Config, ring Ring, geo enrichment.GeoIP, ruleEngine *rules.Engine, scorer inference.Scorer, alerts AlertTrigger, storage RowEnqueuer, log *logging.Logger, receivers ...Receiver) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	return &Pipeline{
		cfg:       cfg,
		ring:      ring,
		geo:       geo,
		rules:     ruleEngine,
		scorer:    scorer,
		alerts:    alerts,
		storage:   storage,
		receivers: receivers,
		log:       log,
	}
}

// Start spawns the ingest and processing workers. It returns once both
// are running; Stop blocks until both have exited.
func (p *Pipeline) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running.Store(true)

	for _, r := range p.receivers {
		p.wg.Add(1)
		go p.runIngestWorker(runCtx, r)
	}

	p.wg.Add(1)
	go p.runProcessingWorker(runCtx)
}

// Stop flips the running flag, stops the network event loops, joins both
// workers, and flushes any remaining in-flight batch.
func (p *Pipeline) Stop(ctx context.Context) {
	p.running.Store(false)
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.storage.Flush(ctx)
}

// runIngestWorker pins the calling OS thread to CPU 0 and requests
// real-time FIFO priority 90 before entering a receiver's event loop.
// Pinning failure is logged and non-fatal, per spec: best-effort.
func (p *Pipeline) runIngestWorker(ctx context.Context, r Receiver) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := threadutil.PinToCore(ingestCore); err != nil {
		p.log.Warn("pipeline: ingest worker cpu pin failed", logging.Error(err))
	}
	if err := threadutil.SetRealtimePriority(ingestPriority); err != nil {
		p.log.Warn("pipeline: ingest worker realtime priority failed", logging.Error(err))
	}

	r.Run(ctx)
}

// runProcessingWorker pins to CPU 1 at FIFO priority 80 and repeats the
// drain/classify/route loop until Stop is called.
func (p *Pipeline) runProcessingWorker(ctx context.Context) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := threadutil.PinToCore(processingCore); err != nil {
		p.log.Warn("pipeline: processing worker cpu pin failed", logging.Error(err))
	}
	if err := threadutil.SetRealtimePriority(processingPrio); err != nil {
		p.log.Warn("pipeline: processing worker realtime priority failed", logging.Error(err))
	}

	batch := make([]model.RawLogEvent, p.cfg.BatchSize)

	for p.running.Load() {
		n := p.drain(batch)
		if n == 0 {
			runtime.Gosched()
			continue
		}
		for i := 0; i < n; i++ {
			p.classify(ctx, &batch[i])
		}
	}
}

func (p *Pipeline) drain(batch []model.RawLogEvent) int {
	n := 0
	for n < len(batch) && p.ring.Pop(&batch[n]) {
		n++
	}
	metrics.RingDepth.Set(float64(p.ring.Len()))
	return n
}

// classify parses, enriches, detects, and routes one drained event. It
// never returns an error: failures degrade per the spec's error policy
// (parse failure skips the record, inference failure scores zero).
func (p *Pipeline) classify(ctx context.Context, raw *model.RawLogEvent) {
	log, err := parser.Parse(raw.Source, raw.Bytes())
	if err != nil {
		metrics.ParseErrorsTotal.Inc()
		return
	}

	if p.geo != nil {
		enrichment.Enrich(p.geo, log)
	}

	if matched := p.rules.Evaluate(log); matched != nil {
		log.Score = 1.0
		log.Reason = fmt.Sprintf("Rule: %s", matched.Name)
		log.IsCritical = true
	} else {
		log.Score = p.scorer.Score(log.Features)
		metrics.InferencesTotal.Inc()
		if log.Score > p.cfg.AnomalyThreshold {
			log.IsCritical = true
			log.Reason = "AI Anomaly Detection"
		}
	}

	if log.IsCritical {
		metrics.ThreatsDetectedTotal.Inc()
		p.alerts.Trigger(ctx, log.Host, log.Score, log.Reason)
	}

	p.storage.Enqueue(ctx, model.DBRow{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Host:         log.Host,
		Country:      log.CountryISO,
		Service:      log.Service,
		Message:      log.Message,
		AnomalyScore: log.Score,
		IsThreat:     log.IsCritical,
	})
}
