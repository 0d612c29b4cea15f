package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/audit"
	"github.com/sheikh-saqib/bank-ledger/internal/config"
	"github.com/sheikh-saqib/bank-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/logging"
	promcollector "github.com/sheikh-saqib/bank-ledger/internal/metrics/prometheus"
	"github.com/sheikh-saqib/bank-ledger/internal/server"
	"github.com/sheikh-saqib/bank-ledger/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logConfig := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		logConfig.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		logConfig.Format = cfg.LogFormat
	}
	logConfig.Development = cfg.LogDev

	logger, err := logging.NewLogger(logConfig)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	collector := promcollector.NewPrometheusCollector("ledger")
	if err := collector.Register(registry); err != nil {
		logger.Fatal("register metrics", zap.Error(err))
	}

	ctx := context.Background()

	// Flagged transfers are archived to postgres when configured
	var archive interfaces.AuditStore
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect audit database", zap.Error(err))
		}
		defer db.Close()

		pgStore := postgres.NewAuditStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("prepare audit schema", zap.Error(err))
		}
		archive = pgStore
		logger.Info("archiving flagged transfers in postgres")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, func(err error) {
			collector.RecordAuditError("publisher")
			logger.Error("kafka delivery failed", zap.Error(err))
		})
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing flagged transfers", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	authority := audit.NewAuthority(archive, publisher, logger, collector, audit.Config{Topic: cfg.KafkaTopic})
	defer authority.Close()
	authority.Configure(cfg.AuditThreshold)
	if err := authority.Preload(ctx); err != nil {
		logger.Fatal("load archived transfers", zap.Error(err))
	}

	bank := ledger.NewBank(cfg.BankName, authority, logger, collector)
	if cfg.SeedDemoAccounts {
		seedDemoAccounts(bank, logger)
	}

	s := server.NewServer(bank, authority, logger, server.Config{
		RequestTimeout: cfg.RequestTimeout,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.ServerAddr), zap.String("bank", cfg.BankName))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// seedDemoAccounts opens the two accounts the demo front end logs in with.
func seedDemoAccounts(bank *ledger.Bank, logger *logging.Logger) {
	demo := []struct {
		holder, identifier, credential string
		balance                        int64
	}{
		{"Sara Mendes", "07810178156", "123", 2000},
		{"Luiz Dias", "08090499104", "123", 1500},
	}
	for _, d := range demo {
		if _, err := bank.OpenAccount(d.holder, d.identifier, d.credential, decimal.NewFromInt(d.balance)); err != nil {
			logger.Warn("seed account", zap.String("account", d.identifier), zap.Error(err))
		}
	}
}
