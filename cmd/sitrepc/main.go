// sitrepc is the process entrypoint: it wires configuration, the
// database, the gazetteer and candidate-scoring services, the worker
// pool, the cleanup sweep, and the HTTP API into one running process.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nuclearfall/sitrepc2-core/pkg/api"
	"github.com/nuclearfall/sitrepc2-core/pkg/cleanup"
	"github.com/nuclearfall/sitrepc2-core/pkg/config"
	"github.com/nuclearfall/sitrepc2-core/pkg/database"
	"github.com/nuclearfall/sitrepc2-core/pkg/lss"
	"github.com/nuclearfall/sitrepc2-core/pkg/queue"
	"github.com/nuclearfall/sitrepc2-core/pkg/services"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// noopAnnotator is the placeholder linguistic annotator wired when no
// real NLP service is configured. The annotator boundary is opaque and
// out of scope for this repository; production deployments replace this
// with a client for whatever annotation service is deployed.
func noopAnnotator(section lss.Section) lss.Annotation {
	return lss.Annotation{
		Doc: &lss.AnnotatorOutput{
			TokenText: func(start, end int) string { return "" },
		},
	}
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
		log.Printf("continuing with existing environment variables")
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing database client", "error", err)
		}
	}()
	slog.Info("connected to postgres, schema migrated")

	gazetteerService, err := services.NewGazetteerService(cfg.Gazetteer)
	if err != nil {
		log.Fatalf("failed to load gazetteer: %v", err)
	}
	slog.Info("gazetteer loaded")

	ingestService := services.NewIngestService(dbClient.Client)
	lssService := services.NewLSSService(dbClient.Client, noopAnnotator, "noop", "0.0.0-stub", cfg.Defaults.MinSimilarity)
	domService := services.NewDomService(dbClient.Client)
	candidatesService := services.NewCandidatesService(dbClient.Client, domService, gazetteerService, cfg.Weights)
	pipelineService := services.NewPipelineService(lssService, domService, candidatesService)

	podID := getEnv("POD_ID", uuid.NewString())
	workerPool := queue.NewWorkerPool(podID, dbClient.Client, cfg.Queue, pipelineService)

	if err := queue.CleanupStartupOrphans(ctx, dbClient.Client, podID); err != nil {
		slog.Error("startup orphan cleanup failed", "error", err)
	}
	if err := workerPool.Start(ctx); err != nil {
		log.Fatalf("failed to start worker pool: %v", err)
	}

	cleanupService := cleanup.NewService(cfg.Retention, ingestService)
	cleanupService.Start(ctx)

	server := api.NewServer(dbClient, ingestService, domService, workerPool)

	addr := cfg.System.ListenAddr
	slog.Info("starting sitrepc HTTP server", "addr", addr, "pod_id", podID)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("http server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Queue.GracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down http server", "error", err)
	}
	cleanupService.Stop()
	workerPool.Stop()

	slog.Info("sitrepc stopped")
}
