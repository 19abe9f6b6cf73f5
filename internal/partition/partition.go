package partition

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/auditflow/sectioner/internal/element"
)

// Partitioner converts raw document bytes into the flat, ordered element
// sequence the segmentation engine consumes. Order must follow reading order;
// the engine's section assignment depends on it.
type Partitioner interface {
	Partition(r io.Reader, filename string) ([]element.Element, error)
}

// Options tunes format-specific behavior.
type Options struct {
	// PDFFallbackPdftotext enables shelling out to pdftotext when the native
	// PDF extractor fails on a file.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate partitioner for a filename.
func ForFile(filename string, opts Options) (Partitioner, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextPartitioner{}, nil
	case ".md", ".markdown":
		return &MarkdownPartitioner{}, nil
	case ".html", ".htm":
		return &HTMLPartitioner{}, nil
	case ".pdf":
		return &PDFPartitioner{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXPartitioner{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// flattenRows renders table rows as plain text, one line per row with cells
// joined by " | ". The engine classifies tables by this text.
func flattenRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	return strings.Join(lines, "\n")
}
