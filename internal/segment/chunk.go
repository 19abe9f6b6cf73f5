package segment

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ImageMarker prefixes every image description in chunk content. It doubles
// as the structural marker counted into ImageCount.
const ImageMarker = "[IMAGEN]"

// Chunk is one final, indexable unit of content produced for a section (or
// for one step within the stepped section).
type Chunk struct {
	Content string
	Meta    Metadata
}

// Metadata is the engine-owned part of a chunk's metadata. Caller-supplied
// identifiers (case, responsible party, filename) are merged in downstream.
type Metadata struct {
	SectionPath      string `json:"section_path"`
	SectionTitle     string `json:"section_title"`
	SectionTitleNorm string `json:"section_title_norm"`
	ChunkType        string `json:"chunk_type"` // "text" or "mixed"
	GroupID          string `json:"group_id"`
	OrderInGroup     int    `json:"order_in_group"`
	PageRange        []int  `json:"page_range,omitempty"` // [min, max]
	ImageCount       int    `json:"image_count"`
	TableCount       int    `json:"table_count"`
	ContentSHA       string `json:"content_sha"`
}

// ContentSHA computes the hex SHA-256 of chunk content. It is a pure
// function of the text, so re-running segmentation on unchanged input yields
// identical hashes.
func ContentSHA(content string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", h[:])
}

func countImages(content string) int {
	return strings.Count(content, ImageMarker)
}

// countTables counts markdown separator rows, one per rendered table.
func countTables(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "| ---") {
			n++
		}
	}
	return n
}
