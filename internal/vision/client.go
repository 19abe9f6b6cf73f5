package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// OllamaClient describes images through an Ollama vision model. It implements
// the Describer interface the segmentation engine consumes.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	stats      *Stats
}

func NewOllamaClient(baseURL, model string, stats *Stats) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: stats,
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

const maxAttempts = 3

// Describe sends one image with the prompt and concatenates the streamed
// response. Transient failures (5xx, 429, transport errors) are retried with
// backoff up to maxAttempts; the context bounds the whole exchange.
func (c *OllamaClient) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt - 1)):
			}
		}

		start := time.Now()
		text, err := c.generate(ctx, encoded, prompt)
		if c.stats != nil {
			c.stats.Record(time.Since(start).Milliseconds(), err == nil)
		}
		if err == nil {
			return text, nil
		}
		lastErr = err

		var retryErr *RetryableError
		if !errors.As(err, &retryErr) {
			return "", err
		}
	}
	return "", fmt.Errorf("vision describe after %d attempts: %w", maxAttempts, lastErr)
}

func (c *OllamaClient) generate(ctx context.Context, encodedImage, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []string{encodedImage},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	// Ollama streams one JSON object per generated fragment.
	decoder := json.NewDecoder(resp.Body)
	var b strings.Builder
	for {
		var chunk generateResponse
		if err := decoder.Decode(&chunk); err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama error: %s", chunk.Error)
		}
		b.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Close releases resources.
func (c *OllamaClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
