package partition

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/auditflow/sectioner/internal/element"
)

// DOCXPartitioner handles .docx files. Paragraphs and tables come from the
// document body in order; embedded pictures are recovered from the archive's
// word/media/ entries and appended after the body, in entry-name order.
type DOCXPartitioner struct{}

func (p *DOCXPartitioner) Partition(r io.Reader, filename string) ([]element.Element, error) {
	// go-docx needs a ReadSeeker+size, and the media scan needs the raw
	// archive, so buffer the whole file.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var els []element.Element
	for _, item := range doc.Document.Body.Items {
		switch node := item.(type) {
		case *docx.Paragraph:
			if text := docxParagraphText(node); text != "" {
				els = append(els, element.Text(text, 0))
			}
		case *docx.Table:
			if rows := docxTableRows(node); len(rows) > 0 {
				els = append(els, element.Table(rows, flattenRows(rows), 0))
			}
		}
	}

	imgs, err := docxMediaImages(data)
	if err != nil {
		return nil, fmt.Errorf("scan docx media: %w", err)
	}
	els = append(els, imgs...)

	return els, nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxTableRows(tbl *docx.Table) [][]string {
	var rows [][]string
	for _, tr := range tbl.TableRows {
		var cells []string
		nonEmpty := false
		for _, tc := range tr.TableCells {
			var cell strings.Builder
			for _, para := range tc.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
					cell.WriteString(t)
				}
			}
			text := cell.String()
			if text != "" {
				nonEmpty = true
			}
			cells = append(cells, text)
		}
		if nonEmpty {
			rows = append(rows, cells)
		}
	}
	return rows
}

// docxMediaImages lists picture entries under word/media/ and returns one
// image element per entry. Bytes are decompressed lazily, on first access.
func docxMediaImages(data []byte) ([]element.Element, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var names []string
	files := make(map[string]*zip.File)
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "word/media/") {
			continue
		}
		if !isImageEntry(f.Name) {
			continue
		}
		names = append(names, f.Name)
		files[f.Name] = f
	}
	sort.Strings(names)

	var els []element.Element
	for _, name := range names {
		f := files[name]
		els = append(els, element.Image(func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", f.Name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}, 0))
	}
	return els, nil
}

func isImageEntry(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp":
		return true
	}
	return false
}
