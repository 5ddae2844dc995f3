//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-learning/brightpath/internal/api/handlers"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/jobs"
	"github.com/brightpath-learning/brightpath/internal/repository"
	"github.com/brightpath-learning/brightpath/internal/server"
	"github.com/brightpath-learning/brightpath/internal/service"
	"github.com/brightpath-learning/brightpath/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a database container
// and an in-process server backed by a deterministic embedding stub.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request, optionally as the given user.
func (e *E2ETestEnv) Get(path, userID string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, userID)
}

// Post performs a POST request, optionally as the given user.
func (e *E2ETestEnv) Post(path string, body interface{}, userID string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, userID)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, userID string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// WaitForEmbedding polls until the content item has an embedding or the
// timeout expires.
func (e *E2ETestEnv) WaitForEmbedding(contentID string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var embedded bool
		err := e.Pool.QueryRow(e.Ctx,
			"SELECT embedding IS NOT NULL FROM content_items WHERE id = $1", contentID,
		).Scan(&embedded)
		if err == nil && embedded {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	e.T.Fatalf("content %s was not embedded within %v", contentID, timeout)
}

// SeedInteraction inserts a user interaction row directly.
func (e *E2ETestEnv) SeedInteraction(userID, kind, contentID string) {
	_, err := e.Pool.Exec(e.Ctx,
		`INSERT INTO user_interactions (user_id, interaction_type, content_id, created_at)
		 VALUES ($1, $2, $3, now())`,
		userID, kind, contentID,
	)
	if err != nil {
		e.T.Fatalf("failed to seed interaction: %v", err)
	}
}

// startServer starts the HTTP server with all handlers and a background
// embedding worker polling at a short interval.
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	contentRepo := repository.NewContentRepository(pool)
	indexRepo := repository.NewIndexRepository(pool)
	searchLogRepo := repository.NewSearchLogRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	recommendationRepo := repository.NewRecommendationRepository(pool)
	embeddingJobRepo := repository.NewEmbeddingJobRepository(pool)

	embedder := &stubEmbedder{}

	indexSvc := service.NewIndexService(embedder, contentRepo, indexRepo, embeddingJobRepo)
	searchSvc := service.NewSearchService(embedder, indexRepo, searchLogRepo, nil)
	recommendSvc := service.NewRecommendationService(contentRepo, interactionRepo, recommendationRepo)
	catalogSvc := service.NewCatalogService(contentRepo)
	conceptSvc := service.NewConceptService(contentRepo, indexRepo)

	worker := jobs.NewWorker(jobs.NewEmbeddingWorker(embeddingJobRepo, indexSvc), 100*time.Millisecond)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go worker.Start(workerCtx)

	cfg := server.RouterConfig{
		SearchHandler:    handlers.NewSearchHandler(searchSvc),
		RecommendHandler: handlers.NewRecommendHandler(recommendSvc),
		ContentHandler:   handlers.NewContentHandler(indexSvc, catalogSvc),
		LessonHandler:    handlers.NewLessonHandler(indexSvc),
		ConceptHandler:   handlers.NewConceptHandler(conceptSvc),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		workerCancel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// stubEmbedder produces deterministic embeddings from token histograms so
// that texts sharing words rank close together under cosine similarity.
type stubEmbedder struct{}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, domain.EmbeddingDimensions)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(domain.EmbeddingDimensions)] += 1
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}
