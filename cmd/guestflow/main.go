// GuestFlow server — collects podcast guest profiles over multi-turn
// conversation, exposing an HTTP API and an interactive console mode.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guestwise/guestflow/pkg/api"
	"github.com/guestwise/guestflow/pkg/buckets"
	"github.com/guestwise/guestflow/pkg/classifier"
	"github.com/guestwise/guestflow/pkg/cleanup"
	"github.com/guestwise/guestflow/pkg/config"
	"github.com/guestwise/guestflow/pkg/database"
	"github.com/guestwise/guestflow/pkg/engine"
	"github.com/guestwise/guestflow/pkg/enrich"
	"github.com/guestwise/guestflow/pkg/events"
	"github.com/guestwise/guestflow/pkg/graph"
	"github.com/guestwise/guestflow/pkg/llm"
	"github.com/guestwise/guestflow/pkg/questions"
	"github.com/guestwise/guestflow/pkg/responder"
	"github.com/guestwise/guestflow/pkg/session"
	"github.com/guestwise/guestflow/pkg/strategy"
	"github.com/guestwise/guestflow/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("GUESTFLOW_CONFIG", "./config/guestflow.yaml"),
		"Path to configuration file")
	console := flag.Bool("console", false,
		"Run an interactive console session instead of the HTTP server")
	flag.Parse()

	// Load .env next to the binary; missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configPath)
	if err != nil {
		slog.Warn("Falling back to built-in configuration", "error", err)
		cfg = config.Default()
	}

	// 2. Create LLM client and classifier
	llmClient, err := llm.NewClient(llm.Config{
		Provider:    llm.Provider(cfg.LLM.Provider),
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLMAPIKey(),
		BaseURL:     cfg.LLM.BaseURL,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		slog.Error("Failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	turnClassifier := classifier.New(llmClient, classifier.WithTimeout(cfg.LLMTimeout()))
	slog.Info("LLM client initialized",
		"provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	// 3. Optional LinkedIn enrichment
	var analyzer enrich.Analyzer
	if cfg.Enrichment.Enabled {
		analyzer = enrich.NewHTTPAnalyzer(
			cfg.Enrichment.Endpoint,
			cfg.EnrichmentToken(),
			cfg.EnrichmentCacheTTL(),
		)
		slog.Info("LinkedIn enrichment enabled", "endpoint", cfg.Enrichment.Endpoint)
	}

	// 4. Assemble the turn pipeline
	seed := cfg.Dialogue.QuestionSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	orchestrator := graph.NewOrchestrator(
		turnClassifier,
		buckets.NewManagerWithFloor(cfg.Dialogue.ConfidenceFloor),
		strategy.NewEngine(),
		responder.NewBuilder(questions.NewGenerator(seed)),
		analyzer,
	)

	registry := session.NewRegistry()
	bus := events.NewBus()
	eng := engine.New(orchestrator, registry, bus)

	if *console || flag.Arg(0) == "console" {
		runConsole(ctx, eng)
		return
	}

	// 5. Optional PostgreSQL persistence
	var dbClient *database.Client
	var store *database.Store
	if cfg.Database.Enabled {
		dbClient, err = database.NewClient(ctx, database.Config{URL: cfg.DatabaseURL()})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				slog.Error("Error closing database client", "error", err)
			}
		}()
		store = database.NewStore(dbClient)
		slog.Info("Connected to PostgreSQL database")
	}

	// 6. Start idle-session cleanup
	var deleter cleanup.BlobDeleter
	if store != nil {
		deleter = store
	}
	cleanupSvc := cleanup.NewService(registry, bus, deleter,
		cfg.SessionIdleEviction(), cfg.SessionCleanupInterval())
	cleanupSvc.Start(ctx)
	defer cleanupSvc.Stop()

	// 7. Start HTTP server (non-blocking)
	httpServer := api.NewServer(eng, bus, dbClient)
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(cfg.Server.Host, cfg.Server.Port); err != nil {
			errCh <- err
		}
	}()

	slog.Info("GuestFlow started",
		"version", version.Full(),
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"database_enabled", cfg.Database.Enabled,
		"enrichment_enabled", cfg.Enrichment.Enabled)

	// 8. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 9. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// runConsole drives a single session from stdin. Useful for trying
// prompts and strategies without a frontend.
func runConsole(ctx context.Context, eng *engine.Engine) {
	sessionID := fmt.Sprintf("console-%d", os.Getpid())
	fmt.Println("GuestFlow console. Type a message, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		result, err := eng.ProcessMessage(ctx, engine.ProcessInput{
			SessionID: sessionID,
			Message:   line,
		})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Println(result.Reply)
		fmt.Printf("[%.0f%% complete, %d/%d buckets]\n",
			result.Summary.CompletionPercentage,
			result.Summary.FilledCount,
			result.Summary.Total)
	}

	summary, err := eng.SessionSummary(sessionID)
	if err == nil {
		fmt.Printf("Session %s finished at %.0f%% completion.\n",
			sessionID, summary.CompletionPercentage)
	}
}
