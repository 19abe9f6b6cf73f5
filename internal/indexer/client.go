package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the vector index HTTP API. The index owns
// embedding; this service only ships content plus metadata.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Record is one indexable unit: chunk content plus its flattened metadata.
type Record struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// AddRecords uploads a batch of records into a collection.
func (c *Client) AddRecords(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	body, err := json.Marshal(struct {
		Records []Record `json:"records"`
	}{Records: records})
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	u := c.baseURL + "/collections/" + url.PathEscape(collection) + "/records"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("add records: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("add records to %s: status %d: %s", collection, resp.StatusCode, string(respBody))
	}
	return nil
}

// CountByDocumentHash returns how many records in the collection carry the
// given document-level content hash. A nonzero count means the exact bytes
// were already ingested.
func (c *Client) CountByDocumentHash(ctx context.Context, collection, documentSHA string) (int, error) {
	u := c.baseURL + "/collections/" + url.PathEscape(collection) + "/count?document_sha=" + url.QueryEscape(documentSHA)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("count by document hash: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return 0, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("count in %s: status %d: %s", collection, resp.StatusCode, string(respBody))
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return result.Count, nil
}

// DocumentSummary is one indexed document in a collection listing.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	SourceFile string `json:"source_file"`
	Chunks     int    `json:"chunks"`
}

// ListDocuments enumerates the documents indexed in a collection.
func (c *Client) ListDocuments(ctx context.Context, collection string) ([]DocumentSummary, error) {
	u := c.baseURL + "/collections/" + url.PathEscape(collection) + "/documents"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list documents in %s: status %d: %s", collection, resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []DocumentSummary `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return result.Documents, nil
}

// DeleteByDocument removes every record belonging to a document.
func (c *Client) DeleteByDocument(ctx context.Context, collection, documentID string) error {
	u := c.baseURL + "/collections/" + url.PathEscape(collection) + "/documents/" + url.PathEscape(documentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete document %s: status %d: %s", documentID, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
