package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/auditflow/sectioner/internal/indexer"
	"github.com/auditflow/sectioner/internal/partition"
	"github.com/auditflow/sectioner/internal/segment"
)

// batchSize bounds how many records travel in one index request.
const batchSize = 32

// Worker processes a single document job.
type Worker struct {
	segmenter *segment.Segmenter
	index     *indexer.Client
	log       *slog.Logger
	partOpts  partition.Options

	solutionsCollection string
	maxConcurrentIndex  int
}

func NewWorker(seg *segment.Segmenter, idx *indexer.Client, log *slog.Logger, partOpts partition.Options, solutionsCollection string, maxIndex int) *Worker {
	return &Worker{
		segmenter:           seg,
		index:               idx,
		log:                 log,
		partOpts:            partOpts,
		solutionsCollection: solutionsCollection,
		maxConcurrentIndex:  maxIndex,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "collection", job.Collection)

	// Phase 1: Partition
	job.SetStatus(StatusPartitioning, "partitioning")
	p, err := partition.ForFile(job.Filename, w.partOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "partitioning")
		return
	}

	data := job.FileData()
	els, err := p.Partition(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("partition failed", "error", err)
		job.AddError(fmt.Sprintf("partition: %s", err))
		job.SetStatus(StatusFailed, "partitioning")
		return
	}

	// The hash covers the raw upload, so a re-upload of identical bytes is a
	// duplicate regardless of how partitioning evolves.
	job.ContentHash = ContentHashHex(data)

	// Phase 1.5: Dedup check
	if !job.Force {
		count, err := w.index.CountByDocumentHash(ctx, job.Collection, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if count > 0 {
			log.Info("duplicate document, skipping", "existing_records", count)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	chunks, err := w.segmenter.Segment(ctx, els)
	if err != nil {
		log.Error("segmentation failed", "error", err)
		job.AddError(fmt.Sprintf("segment: %s", err))
		job.SetStatus(StatusFailed, "segmenting")
		return
	}
	job.SetTotalChunks(len(chunks))

	images := 0
	for _, c := range chunks {
		images += c.Meta.ImageCount
	}
	job.SetImagesSeen(images)
	log.Info("segmented document", "elements", len(els), "chunks", len(chunks), "images", images)

	if len(chunks) == 0 {
		// A document without recognizable section headings yields nothing;
		// that is a valid outcome, not a failure.
		log.Warn("no sectioned content produced")
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Index in batches with bounded concurrency.
	job.SetStatus(StatusIndexing, "indexing")
	doc := indexer.DocumentRef{
		Responsible: job.Responsible,
		Defect:      job.Defect,
		ReportID:    job.ReportID,
		SourceFile:  job.Filename,
	}

	records := make([]indexer.Record, 0, len(chunks))
	for i, c := range chunks {
		var meta map[string]any
		if job.Collection == w.solutionsCollection {
			meta = indexer.PrepareSolutionMetadata(doc, c, job.ContentHash)
		} else {
			meta = indexer.PrepareMetadata(doc, c, i, job.ContentHash)
		}
		records = append(records, indexer.Record{
			ID:       indexer.NewRecordID(),
			Content:  c.Content,
			Metadata: meta,
		})
	}

	sem := make(chan struct{}, w.maxConcurrentIndex)
	type batchResult struct {
		n     int
		start int
		err   error
	}
	numBatches := (len(records) + batchSize - 1) / batchSize
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		batch := records[start:end]
		sem <- struct{}{}
		go func(start int, batch []indexer.Record) {
			defer func() { <-sem }()
			if err := w.index.AddRecords(ctx, job.Collection, batch); err != nil {
				results <- batchResult{start: start, err: err}
				return
			}
			results <- batchResult{n: len(batch), start: start}
		}(start, batch)
	}

	indexed := 0
	hadErrors := false
	for i := 0; i < numBatches; i++ {
		r := <-results
		if r.err != nil {
			log.Error("index batch failed", "offset", r.start, "error", r.err)
			job.AddError(fmt.Sprintf("index batch at %d: %s", r.start, r.err))
			hadErrors = true
			continue
		}
		indexed += r.n
		job.AddChunksIndexed(r.n)
	}
	log.Info("indexing complete", "indexed", indexed, "total", len(records))

	switch {
	case hadErrors && indexed > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "indexing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
