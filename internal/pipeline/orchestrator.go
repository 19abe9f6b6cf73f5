package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/auditflow/sectioner/internal/config"
	"github.com/auditflow/sectioner/internal/indexer"
	"github.com/auditflow/sectioner/internal/partition"
	"github.com/auditflow/sectioner/internal/segment"
)

// Orchestrator manages the document ingestion pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	segmenter *segment.Segmenter
	index     *indexer.Client
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(cfg config.Config, seg *segment.Segmenter, idx *indexer.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		segmenter: seg,
		index:     idx,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	partOpts := partition.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext}

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.segmenter, o.index, o.log, partOpts, o.cfg.SolutionsCollection, o.cfg.MaxConcurrentIndex)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submissions arriving after Stop
// fail instead of racing the queue close.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing. The lock is held across the send
// so the queue cannot close between the stopped check and the enqueue.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutdown")
		return fmt.Errorf("pipeline is shutting down")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// IndexClient returns the index client for direct use by API handlers.
func (o *Orchestrator) IndexClient() *indexer.Client {
	return o.index
}
