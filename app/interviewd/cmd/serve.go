package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/haridaggupatti/sb1-hyd/internal/ai"
	"github.com/haridaggupatti/sb1-hyd/internal/api"
	"github.com/haridaggupatti/sb1-hyd/internal/config"
	"github.com/haridaggupatti/sb1-hyd/internal/docstore"
	"github.com/haridaggupatti/sb1-hyd/internal/interview"
	"github.com/haridaggupatti/sb1-hyd/internal/telemetry"
	"github.com/haridaggupatti/sb1-hyd/internal/users"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview HTTP server",
	Long: `Starts the HTTP server that exposes interview sessions and user records.
Configuration comes from environment variables (or a .env file).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	telemetryProvider, err := telemetry.NewProvider(ctx, telemetry.TelemetryConfig{
		Enabled:      cfg.OTLPEndpoint != "",
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryProvider.Shutdown(context.Background()); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}()

	store, err := createDocumentStore(ctx, cfg)
	if err != nil {
		return err
	}

	completer := ai.NewClient(cfg.AnthropicAPIKey, anthropic.Model(cfg.AnthropicModel), cfg.CompletionTimeout)
	registry := interview.NewRegistry()
	service := interview.NewService(interview.ServiceConfig{
		HistoryCap: cfg.HistoryCap,
		IdleTTL:    cfg.SessionIdleTTL,
	}, registry, completer, store)

	go service.RunIdleSweeper(ctx)

	mux := http.NewServeMux()
	api.New(service, users.NewStore(store)).Register(mux)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Listening on %s (history cap %d)", cfg.ListenAddr, cfg.HistoryCap)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func createDocumentStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	if cfg.RedisAddr == "" {
		log.Printf("No REDIS_ADDR configured, using in-memory document store")
		return docstore.NewMemoryStore(), nil
	}

	store := docstore.NewRedisStore(cfg.RedisAddr)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Printf("Using redis document store at %s", cfg.RedisAddr)
	return store, nil
}

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}
