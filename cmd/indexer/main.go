package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/kiosk/internal/analytics"
	"github.com/your-org/kiosk/internal/config"
	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/internal/observability"
	"github.com/your-org/kiosk/internal/queue"
	"github.com/your-org/kiosk/internal/storage"
)

// The indexer keeps a plain-text summary document per visitor in the
// object store, refreshed on every visit change. Reception tools read
// these documents instead of querying the ledger directly.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting kiosk indexer")

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStream(context.Background()); err != nil {
		slog.Warn("ensure nats stream", "error", err)
	}

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeVisitChanges(ctx, "indexer", func(ctx context.Context, msg jetstream.Msg) error {
		var change models.VisitChange
		if err := json.Unmarshal(msg.Data(), &change); err != nil {
			slog.Error("unmarshal visit change", "error", err)
			return nil // Don't retry on unmarshal errors
		}

		visitor, err := db.GetVisitorByEmail(ctx, change.Email)
		if err != nil {
			return fmt.Errorf("load visitor %s: %w", change.Email, err)
		}
		if visitor == nil {
			slog.Warn("visit change for unknown visitor", "email", change.Email)
			return nil
		}

		doc := analytics.RenderSummary(*visitor)
		key := "index/visitor-" + visitor.ID.String() + ".txt"
		if err := minioStore.PutObject(ctx, key, []byte(doc), "text/plain; charset=utf-8"); err != nil {
			return fmt.Errorf("store summary %s: %w", key, err)
		}

		observability.SummariesIndexed.Inc()
		slog.Debug("indexed visitor summary", "email", change.Email, "key", key)
		return nil
	})
	if err != nil {
		slog.Error("start visit change consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("indexer metrics listening", "addr", ":8081")
		if err := http.ListenAndServe(":8081", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down indexer...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("indexer stopped")
}
