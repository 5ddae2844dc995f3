package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/brightpath-learning/brightpath/internal/config"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/openai"
	"github.com/brightpath-learning/brightpath/internal/repository"
	"github.com/brightpath-learning/brightpath/internal/service"
)

// seedItem is one entry in the bulk-index input file.
type seedItem struct {
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Source       string `json:"source,omitempty"`
	Verified     bool   `json:"verified,omitempty"`
}

// IndexCmd returns the index command for bulk content ingestion.
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Bulk-index content from a JSON file",
		Long: `Reads a JSON array of content items, embeds each one, and indexes it.
Items whose embedding fails are skipped and reported; storage errors abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: runIndex,
	}

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("BRIGHTPATH_OPENAI_API_KEY is required for indexing")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var seeds []seedItem
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("input file contains no items")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	contentRepo := repository.NewContentRepository(pool)
	indexRepo := repository.NewIndexRepository(pool)
	embeddingJobRepo := repository.NewEmbeddingJobRepository(pool)
	embeddingClient := openai.NewClient(cfg.OpenAIAPIKey)

	indexSvc := service.NewIndexService(embeddingClient, contentRepo, indexRepo, embeddingJobRepo)

	now := time.Now().UTC()
	items := make([]*domain.ContentItem, 0, len(seeds))
	for _, seed := range seeds {
		class := domain.ContentClass(seed.ContentClass)
		difficulty := domain.Difficulty(seed.Difficulty)
		switch class {
		case domain.ContentClassConcept:
			items = append(items, domain.NewConcept(uuid.NewString(), seed.Title, seed.Body, seed.Category, difficulty, seed.Verified, now))
		default:
			items = append(items, domain.NewArticle(uuid.NewString(), seed.Title, seed.Body, seed.Category, difficulty, seed.Source, seed.Verified, now))
		}
	}

	result, err := indexSvc.IndexBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("bulk index failed after %d items: %w", result.Indexed, err)
	}

	log.Printf("bulk index complete: %d indexed, %d skipped", result.Indexed, result.Skipped)
	return nil
}
