package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thecodingmage/smartsift/internal/api"
	"github.com/thecodingmage/smartsift/internal/config"
	"github.com/thecodingmage/smartsift/internal/embedding"
	"github.com/thecodingmage/smartsift/internal/judge"
	"github.com/thecodingmage/smartsift/internal/llm"
	"github.com/thecodingmage/smartsift/internal/pipeline"
	"github.com/thecodingmage/smartsift/internal/queue"
	"github.com/thecodingmage/smartsift/internal/report"
	"github.com/thecodingmage/smartsift/internal/router"
	"github.com/thecodingmage/smartsift/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	q, err := queue.NewRedisQueue(&cfg.Redis, &cfg.Worker)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer q.Close()

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	// Anchor vectors are computed here, once; an unreachable embedding
	// service fails startup rather than every request.
	triageRouter, err := router.New(ctx, embedder, router.DefaultConfig(cfg.Router.SimilarityThreshold))
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	complaintRepo := storage.NewComplaintRepo(db)
	analysisRepo := storage.NewAnalysisRepo(db)
	reviewQueueRepo := storage.NewReviewQueueRepo(db)

	pl := pipeline.New(triageRouter, judge.New(llmClient), reviewQueueRepo)

	statsRepo := storage.NewStatsRepo(complaintRepo, analysisRepo)
	reportGen := report.NewGenerator(statsRepo, llmClient, cfg.Report.Period, cfg.Report.TopIssues)

	apiRouter := api.NewRouter(db, q, pl, reportGen)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      apiRouter.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
