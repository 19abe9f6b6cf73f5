package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Vector index connection
	IndexerURL    string
	IndexerAPIKey string

	// Auth
	SectionerAPIKey string

	// Target collections
	EvidenceCollection  string
	SolutionsCollection string

	// Vision backend
	OllamaVisionURL   string
	OllamaVisionModel string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentIndex int

	// Upload limits
	MaxUploadBytes int64

	// Segmentation
	MarkerWordLimit int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	// A local .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		IndexerURL:    envOr("INDEXER_URL", "http://localhost:8080"),
		IndexerAPIKey: os.Getenv("INDEXER_API_KEY"),

		SectionerAPIKey: os.Getenv("SECTIONER_API_KEY"),

		EvidenceCollection:  envOr("EVIDENCE_COLLECTION", "multimodal_evidence"),
		SolutionsCollection: envOr("SOLUTIONS_COLLECTION", "historical_solutions"),

		OllamaVisionURL:   envOr("OLLAMA_VISION_URL", "http://localhost:11434"),
		OllamaVisionModel: envOr("OLLAMA_VISION_MODEL", "llava"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentIndex: envInt("MAX_CONCURRENT_INDEX", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MarkerWordLimit: envInt("MARKER_WORD_LIMIT", 10),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentIndex <= 0 {
		cfg.MaxConcurrentIndex = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MarkerWordLimit <= 0 {
		cfg.MarkerWordLimit = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.IndexerAPIKey == "" {
		return fmt.Errorf("INDEXER_API_KEY is required")
	}
	if c.SectionerAPIKey == "" {
		return fmt.Errorf("SECTIONER_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
