package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/thecodingmage/smartsift/internal/pipeline"
	"github.com/thecodingmage/smartsift/internal/queue"
	"github.com/thecodingmage/smartsift/internal/storage"
)

// Worker drains the complaint stream through the triage pipeline with a
// bounded goroutine pool. Complaints are independent, so the pool imposes no
// ordering between them.
type Worker struct {
	queue         *queue.RedisQueue
	complaintRepo *storage.ComplaintRepo
	analysisRepo  *storage.AnalysisRepo
	pipeline      *pipeline.Pipeline
	concurrency   int
	batchSize     int
}

func New(
	q *queue.RedisQueue,
	complaintRepo *storage.ComplaintRepo,
	analysisRepo *storage.AnalysisRepo,
	pl *pipeline.Pipeline,
	concurrency int,
	batchSize int,
) *Worker {
	return &Worker{
		queue:         q,
		complaintRepo: complaintRepo,
		analysisRepo:  analysisRepo,
		pipeline:      pl,
		concurrency:   concurrency,
		batchSize:     batchSize,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	log.Printf("Starting worker with concurrency=%d, batchSize=%d", w.concurrency, w.batchSize)

	jobs := make(chan queue.Message, w.concurrency*2)
	var wg sync.WaitGroup

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processJobs(ctx, workerID, jobs)
		}(i)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
				messages, err := w.queue.Consume(ctx, int64(w.batchSize), 5*time.Second)
				if err != nil {
					log.Printf("Error consuming messages: %v", err)
					time.Sleep(time.Second)
					continue
				}

				for _, msg := range messages {
					select {
					case jobs <- msg:
					case <-ctx.Done():
						close(jobs)
						return
					}
				}
			}
		}
	}()

	wg.Wait()
	return nil
}

func (w *Worker) processJobs(ctx context.Context, workerID int, jobs <-chan queue.Message) {
	for msg := range jobs {
		if err := w.processComplaint(ctx, msg); err != nil {
			// No ack: the message stays pending for redelivery.
			log.Printf("Worker %d: error processing %s: %v", workerID, msg.Complaint.ID, err)
			continue
		}

		if err := w.queue.Ack(ctx, msg.ID); err != nil {
			log.Printf("Worker %d: error acking %s: %v", workerID, msg.ID, err)
		}
	}
}

func (w *Worker) processComplaint(ctx context.Context, msg queue.Message) error {
	in := msg.Complaint
	log.Printf("Processing complaint: %s", in.ID)

	record, err := w.pipeline.Process(ctx, *in)
	if err != nil {
		return err
	}

	if err := w.complaintRepo.SaveResult(ctx, record); err != nil {
		return err
	}

	if record.Analysis != nil {
		if err := w.analysisRepo.Save(ctx, record.Analysis); err != nil {
			return err
		}
	}

	log.Printf("Completed triage for %s: decision=%s, status=%s",
		in.ID, record.Routing.Decision, record.Status)

	return nil
}
