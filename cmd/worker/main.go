package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/thecodingmage/smartsift/internal/config"
	"github.com/thecodingmage/smartsift/internal/embedding"
	"github.com/thecodingmage/smartsift/internal/judge"
	"github.com/thecodingmage/smartsift/internal/llm"
	"github.com/thecodingmage/smartsift/internal/pipeline"
	"github.com/thecodingmage/smartsift/internal/queue"
	"github.com/thecodingmage/smartsift/internal/router"
	"github.com/thecodingmage/smartsift/internal/storage"
	"github.com/thecodingmage/smartsift/internal/worker"
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

	w := worker.New(
		q,
		complaintRepo,
		analysisRepo,
		pl,
		cfg.Worker.Concurrency,
		cfg.Worker.BatchSize,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down worker...")
		cancel()
	}()

	log.Println("Worker starting...")
	if err := w.Start(ctx); err != nil {
		log.Fatalf("Worker error: %v", err)
	}

	log.Println("Worker stopped")
}
