package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryorithm/blackbox/internal/admin"
	"github.com/aryorithm/blackbox/internal/alert"
	"github.com/aryorithm/blackbox/internal/blocklist"
	"github.com/aryorithm/blackbox/internal/config"
	"github.com/aryorithm/blackbox/internal/enrichment"
	"github.com/aryorithm/blackbox/internal/firewall"
	"github.com/aryorithm/blackbox/internal/inference"
	"github.com/aryorithm/blackbox/internal/ingest"
	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/pipeline"
	"github.com/aryorithm/blackbox/internal/pubsub"
	"github.com/aryorithm/blackbox/internal/ratelimit"
	"github.com/aryorithm/blackbox/internal/ring"
	"github.com/aryorithm/blackbox/internal/rules"
	"github.com/aryorithm/blackbox/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("blackboxd"))
	logging.SetDefault(logger)

	slog.Info("starting blackbox pipeline daemon",
		slog.Int("udp_port", cfg.Network.UDPPort),
		slog.Int("tcp_port", cfg.Network.TCPPort),
		slog.Int("admin_port", cfg.Admin.Port),
	)

	ringBuf := ring.New(cfg.Network.RingBufferSize)
	limiter := ratelimit.New(cfg.Network.RefillRate, cfg.Network.MaxBurst)

	fw := firewall.New(cfg.Defense.FirewallCommand, logger)
	blocks := blocklist.New(fw, logger)
	defer blocks.Close()

	publisher := pubsub.New(cfg.Storage.RedisURL, cfg.Storage.AlertChannel)
	defer publisher.Close()

	alertMgr := alert.New(alert.Config{
		CooldownSeconds:   cfg.Defense.CooldownSeconds,
		CriticalThreshold: cfg.Defense.CriticalThreshold,
		DefaultBanSeconds: cfg.Defense.DefaultBanSeconds,
		ActiveDefense:     cfg.Defense.ActiveDefense,
	}, publisher, blocks, logger)

	sink := storage.NewClickHouseSink(cfg.Storage.ClickHouseURL, cfg.Storage.Table)
	batcher := storage.New(sink, cfg.Storage.FlushBatchSize, cfg.Storage.FlushInterval, logger)

	ruleEngine, err := rules.LoadFile(cfg.Model.RulesPath)
	if err != nil {
		slog.Warn("failed to load rules file, continuing with no rules", logging.Error(err))
		ruleEngine, _ = rules.New(nil)
	}

	geo := enrichment.NewCIDRTable()
	var scorer inference.Scorer = inference.MeanMagnitudeScorer{}

	udpRecv, err := ingest.ListenUDP(fmt.Sprintf(":%d", cfg.Network.UDPPort), limiter, ringBuf, logger)
	if err != nil {
		log.Fatalf("failed to bind udp receiver: %v", err)
	}
	tcpRecv, err := ingest.ListenTCP(fmt.Sprintf(":%d", cfg.Network.TCPPort), limiter, ringBuf, logger)
	if err != nil {
		log.Fatalf("failed to bind tcp receiver: %v", err)
	}

	pipe := pipeline.New(
		pipeline.Config{BatchSize: cfg.Model.BatchSize, AnomalyThreshold: cfg.Model.AnomalyThreshold},
		ringBuf, geo, ruleEngine, scorer, alertMgr, batcher, logger,
		udpRecv, tcpRecv,
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	pipe.Start(rootCtx)

	adminHandler := admin.NewHandler(blocks, func() bool { return true })
	adminSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: admin.NewRouter(adminHandler),
	}

	go func() {
		slog.Info("admin http surface listening", slog.Int("port", cfg.Admin.Port))
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("admin server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	adminSrv.Shutdown(shutdownCtx)

	pipe.Stop(context.Background())

	slog.Info("shutdown complete")
}
