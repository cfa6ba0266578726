package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/adapter/secondary/database"
	"github.com/rentflow/payment-gateway/internal/adapter/secondary/messaging"
	"github.com/rentflow/payment-gateway/internal/config"
	"github.com/rentflow/payment-gateway/internal/constant/model/db"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	paymentRepo := database.NewGormPaymentRepository(dbConn.DB)

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClientConcrete(cfg.AMQPURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()

	// Consume settlement events: the receipt trail for settled rent.
	err = msgClient.ConsumeSettlements(func(event output.SettlementEvent) error {
		log.WithFields(logrus.Fields{
			"payment_id":  event.PaymentID,
			"tenant_id":   event.TenantID,
			"amount":      event.Amount,
			"status":      event.Status,
			"result_code": event.ResultCode,
		}).Info("settlement recorded")
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to start consuming settlement events: %v", err)
	}

	// Sweep for payments stuck pending past the staleness threshold.
	// They are never auto-expired: a late but legitimate callback must
	// still be able to settle them, so the sweep only surfaces them
	// for operator reconciliation.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweepStalePending(ctx, paymentRepo, cfg, log)

	log.Info("Payment worker started. Press CTRL+C to exit.")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
}

func sweepStalePending(ctx context.Context, repo output.PaymentRepository, cfg *config.Config, log *logrus.Logger) {
	ticker := time.NewTicker(cfg.StaleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-cfg.StalePendingAfter)
			stale, err := repo.ListStalePending(ctx, cutoff)
			if err != nil {
				log.WithError(err).Error("stale pending sweep failed")
				continue
			}
			for _, p := range stale {
				log.WithFields(logrus.Fields{
					"payment_id":          p.ID,
					"tenant_id":           p.TenantID,
					"amount":              p.Amount,
					"checkout_request_id": p.CheckoutRequestID,
					"pending_since":       p.CreatedAt,
				}).Warn("payment pending past staleness threshold, needs manual reconciliation")
			}
		}
	}
}
