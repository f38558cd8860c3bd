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

	"github.com/your-org/kiosk/internal/analytics"
	"github.com/your-org/kiosk/internal/api"
	"github.com/your-org/kiosk/internal/api/ws"
	"github.com/your-org/kiosk/internal/config"
	"github.com/your-org/kiosk/internal/directory"
	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/internal/observability"
	"github.com/your-org/kiosk/internal/queue"
	"github.com/your-org/kiosk/internal/storage"
	"github.com/your-org/kiosk/internal/visits"
	"github.com/your-org/kiosk/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting kiosk API service", "port", cfg.Server.Port)

	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		slog.Error("load timezone", "timezone", cfg.Ledger.Timezone, "error", err)
		os.Exit(1)
	}

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}

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

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Start visit change consumer to broadcast events via WebSocket
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create visit change consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeVisitChanges(ctx, "api-events", func(ctx context.Context, msg jetstream.Msg) error {
		var change models.VisitChange
		if err := json.Unmarshal(msg.Data(), &change); err != nil {
			slog.Error("unmarshal visit change", "error", err)
			return nil // Don't retry on unmarshal errors
		}

		entry := change.Entry
		evt := dto.VisitEntryResponse{
			ID:       entry.ID,
			Date:     entry.Date,
			Time:     entry.TimeOfDay,
			Purpose:  entry.Purpose,
			Language: entry.Language,
			Contact:  entry.Contact,
		}
		if entry.CheckInTime != nil {
			evt.CheckInTime = entry.CheckInTime.Format(time.RFC3339)
		}
		if entry.CheckOutTime != nil {
			evt.CheckOutTime = entry.CheckOutTime.Format(time.RFC3339)
		}

		hub.BroadcastEvent(&dto.WSEvent{
			Type:  string(change.Type),
			Email: change.Email,
			Name:  change.FirstName + " " + change.LastName,
			Data:  evt,
		})

		return nil
	})
	if err != nil {
		slog.Warn("start visit change consumer", "error", err)
	}

	// Domain wiring
	ledger := visits.NewLedger(db, producer, loc, cfg.Ledger.DefaultLanguage)
	resolver := directory.NewResolver(db)
	engine := analytics.NewEngine(loc, resolver)

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		DB:       db,
		MinIO:    minioStore,
		Producer: producer,
		Hub:      hub,
		Ledger:   ledger,
		Engine:   engine,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
