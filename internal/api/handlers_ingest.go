package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auditflow/sectioner/internal/indexer"
	"github.com/auditflow/sectioner/internal/partition"
	"github.com/auditflow/sectioner/internal/pipeline"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	responsible := r.FormValue("responsible")
	if responsible == "" {
		jsonError(w, "responsible is required", http.StatusBadRequest)
		return
	}
	defect := r.FormValue("defect")
	if defect == "" {
		jsonError(w, "defect is required", http.StatusBadRequest)
		return
	}
	reportID := r.FormValue("report_id")

	collection, ok := s.resolveCollection(r.FormValue("collection"))
	if !ok {
		jsonError(w, "unknown collection: "+r.FormValue("collection"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !partition.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	force := r.FormValue("force") == "true"

	doc := indexer.DocumentRef{
		Responsible: responsible,
		Defect:      defect,
		ReportID:    reportID,
		SourceFile:  filename,
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:          pipeline.NewJobID(),
		DocID:       doc.DocumentID(),
		Responsible: responsible,
		Defect:      defect,
		ReportID:    reportID,
		Collection:  collection,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Force:       force,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/ingest/%s/status", job.ID),
	})
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// handleBatchIngest queues several files sharing one document identity, e.g.
// a defect report uploaded alongside its annexes.
func (s *Server) handleBatchIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	responsible := r.FormValue("responsible")
	if responsible == "" {
		jsonError(w, "responsible is required", http.StatusBadRequest)
		return
	}
	defect := r.FormValue("defect")
	if defect == "" {
		jsonError(w, "defect is required", http.StatusBadRequest)
		return
	}
	reportID := r.FormValue("report_id")

	collection, ok := s.resolveCollection(r.FormValue("collection"))
	if !ok {
		jsonError(w, "unknown collection: "+r.FormValue("collection"), http.StatusBadRequest)
		return
	}
	force := r.FormValue("force") == "true"

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !partition.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		doc := indexer.DocumentRef{
			Responsible: responsible,
			Defect:      defect,
			ReportID:    reportID,
			SourceFile:  filename,
		}

		now := time.Now()
		job := &pipeline.Job{
			ID:          pipeline.NewJobID(),
			DocID:       doc.DocumentID(),
			Responsible: responsible,
			Defect:      defect,
			ReportID:    reportID,
			Collection:  collection,
			Status:      pipeline.StatusQueued,
			Phase:       "queued",
			Filename:    filename,
			Force:       force,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		job.SetFileData(data)

		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"doc_id":   job.DocID,
			"status":   job.Status,
			"poll_url": fmt.Sprintf("/api/ingest/%s/status", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
