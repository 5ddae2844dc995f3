package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/brightpath-learning/brightpath/internal/api/handlers"
	"github.com/brightpath-learning/brightpath/internal/config"
	"github.com/brightpath-learning/brightpath/internal/events"
	"github.com/brightpath-learning/brightpath/internal/jobs"
	"github.com/brightpath-learning/brightpath/internal/openai"
	"github.com/brightpath-learning/brightpath/internal/repository"
	"github.com/brightpath-learning/brightpath/internal/server"
	"github.com/brightpath-learning/brightpath/internal/service"
	"github.com/brightpath-learning/brightpath/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the brightpath API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: cfg.SentryTracesSampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	contentRepo := repository.NewContentRepository(pool)
	indexRepo := repository.NewIndexRepository(pool)
	searchLogRepo := repository.NewSearchLogRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	recommendationRepo := repository.NewRecommendationRepository(pool)
	embeddingJobRepo := repository.NewEmbeddingJobRepository(pool)

	if !cfg.HasOpenAI() {
		return fmt.Errorf("BRIGHTPATH_OPENAI_API_KEY is required to serve search and indexing")
	}
	embeddingClient := openai.NewClient(cfg.OpenAIAPIKey)

	var sink service.InteractionSink
	if cfg.HasKafka() {
		kafkaSink := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Printf("interaction sink publishing to %s", cfg.KafkaTopic)
	}

	indexSvc := service.NewIndexService(embeddingClient, contentRepo, indexRepo, embeddingJobRepo)
	searchSvc := service.NewSearchService(embeddingClient, indexRepo, searchLogRepo, sink).
		WithTimeout(cfg.SearchTimeout)
	recommendSvc := service.NewRecommendationService(contentRepo, interactionRepo, recommendationRepo).
		WithTimeout(cfg.RecommendTimeout)
	catalogSvc := service.NewCatalogService(contentRepo)
	conceptSvc := service.NewConceptService(contentRepo, indexRepo)

	embeddingProcessor := jobs.NewEmbeddingWorker(embeddingJobRepo, indexSvc)
	embeddingWorker := jobs.NewWorker(embeddingProcessor, cfg.WorkerInterval)
	go embeddingWorker.Start(ctx)
	log.Println("embedding worker started")

	routerCfg := server.RouterConfig{
		SearchHandler:    handlers.NewSearchHandler(searchSvc),
		RecommendHandler: handlers.NewRecommendHandler(recommendSvc),
		ContentHandler:   handlers.NewContentHandler(indexSvc, catalogSvc),
		LessonHandler:    handlers.NewLessonHandler(indexSvc),
		ConceptHandler:   handlers.NewConceptHandler(conceptSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	embeddingWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
