package partition

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/auditflow/sectioner/internal/element"
)

// PDFPartitioner handles PDF files. It tries the Go library first, then
// falls back to pdftotext if enabled. Each page yields one text element with
// its page number, with a page break element between pages.
type PDFPartitioner struct {
	FallbackPdftotext bool
}

func (p *PDFPartitioner) Partition(r io.Reader, filename string) ([]element.Element, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "sectioner-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotextPages(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var els []element.Element
	for i, page := range pages {
		pageNo := i + 1
		if len(els) > 0 {
			els = append(els, element.Element{Kind: element.KindPageBreak, Page: pageNo})
		}
		// Blank-line paragraphs within a page become separate elements so
		// headings land on their own element.
		for _, para := range strings.Split(page, "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				els = append(els, element.Text(para, pageNo))
			}
		}
	}
	return els, nil
}

func extractPDFPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotextPages(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
