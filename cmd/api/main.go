package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"openrepowiki/internal/config"
	"openrepowiki/internal/github"
	"openrepowiki/internal/http"
	"openrepowiki/internal/indexer"
	"openrepowiki/internal/ingest"
	"openrepowiki/internal/llm"
	"openrepowiki/internal/metrics"
	"openrepowiki/internal/queue"
	"openrepowiki/internal/service"
	"openrepowiki/internal/storage"
	"openrepowiki/internal/summarizer"
	"openrepowiki/internal/tree"
	"openrepowiki/internal/vectorstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	repoStore := storage.NewRepositoryRepo(db)
	branchStore := storage.NewBranchRepo(db)
	folderStore := storage.NewFolderRepo(db)
	fileStore := storage.NewFileRepo(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	gh := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubRawURL, cfg.GitHubToken)

	params := llm.Params{Temperature: cfg.LLMTemperature, TopP: cfg.LLMTopP, MaxTokens: cfg.LLMMaxTokens}
	chat, err := llm.NewChatClient(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, params)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	if cfg.LLMProvider == llm.ProviderLlamaCpp {
		// Not fatal: the first summary request loads the model too.
		if err := llm.NewModelLoader(cfg.LLMBaseURL).EnsureLoaded(ctx, cfg.LLMModelName); err != nil {
			slog.Warn("Failed to preload model", "model", cfg.LLMModelName, "error", err)
		}
	}
	slog.Info("LLM client ready", "provider", cfg.LLMProvider, "model", cfg.LLMModelName)

	policy := tree.DefaultPolicy()
	if cfg.FilterPolicyPath != "" {
		policy, err = tree.LoadPolicy(cfg.FilterPolicyPath)
		if err != nil {
			log.Fatalf("Failed to load filter policy: %v", err)
		}
		slog.Info("Filter policy loaded", "path", cfg.FilterPolicyPath)
	}

	ingestService := ingest.NewService(
		gh,
		repoStore,
		branchStore,
		folderStore,
		fileStore,
		summarizer.NewAgent(chat, m),
		policy,
		ingest.RetryPolicy{
			CharacterLimit: cfg.CharacterLimit,
			ReducePerRetry: cfg.ReducePerRetry,
			MaxRetries:     cfg.MaxRetries,
		},
	).WithMetrics(m)

	// Optional summary search index
	var searcher service.Searcher
	var vectorStore *vectorstore.QdrantStore
	if cfg.SearchEnabled() {
		vectorStore, err = vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = vectorStore.Close()
		}()

		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		// Validate embedding client vector size (fail-fast)
		embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		if _, err := embedder.EmbedTexts(ctx, []string{"test"}); err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

		ingestService.WithIndexer(indexer.NewPipeline(embedder, vectorStore, cfg.QdrantCollection, folderStore, fileStore))
		searcher = indexer.NewSearcher(embedder, vectorStore, cfg.QdrantCollection)
	}

	jobs := queue.New(queue.Config{
		MaxSize:            cfg.QueueMaxSize,
		RateLimitThreshold: cfg.RateLimitThreshold,
		AllowedLanguages:   cfg.AllowedLanguages,
	}, gh, repoStore, ingestService).WithMetrics(m)

	deps := &http.Deps{
		QueueService:      service.NewQueueService(jobs),
		RepositoryService: service.NewRepositoryService(repoStore, branchStore, folderStore, fileStore),
		SearchService:     service.NewSearchService(searcher, repoStore),
		DB:                db,
		Gatherer:          registry,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
	}
	if vectorStore != nil {
		deps.VectorStore = vectorStore
	}

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := jobs.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		slog.Info("Starting API server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
	slog.Info("Server stopped")
}
