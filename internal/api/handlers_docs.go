package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auditflow/sectioner/internal/indexer"
)

// handleListDocuments lists the documents indexed in a collection.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.resolveCollection(r.URL.Query().Get("collection"))
	if !ok {
		jsonError(w, "unknown collection: "+r.URL.Query().Get("collection"), http.StatusBadRequest)
		return
	}

	docs, err := s.orchestrator.IndexClient().ListDocuments(r.Context(), collection)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []indexer.DocumentSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"collection": collection,
		"documents":  docs,
	})
}

// handleDeleteDocument removes every indexed record of one document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	collection, ok := s.resolveCollection(r.URL.Query().Get("collection"))
	if !ok {
		jsonError(w, "unknown collection: "+r.URL.Query().Get("collection"), http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.IndexClient().DeleteByDocument(r.Context(), collection, docID); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"collection":  collection,
		"document_id": docID,
		"deleted":     true,
	})
}
