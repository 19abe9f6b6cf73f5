package partition

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/auditflow/sectioner/internal/element"
)

// MarkdownPartitioner handles Markdown files using goldmark with the table
// extension. Pipe tables become table elements; inline images with base64
// data URIs become image elements.
type MarkdownPartitioner struct{}

func (p *MarkdownPartitioner) Partition(r io.Reader, filename string) ([]element.Element, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var els []element.Element
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *east.Table:
			if rows := mdTableRows(node, src); len(rows) > 0 {
				els = append(els, element.Table(rows, flattenRows(rows), 0))
			}
		case *ast.Heading:
			if t := strings.TrimSpace(string(node.Text(src))); t != "" {
				els = append(els, element.Text(t, 0))
			}
		default:
			if t := mdBlockText(n, src); t != "" {
				els = append(els, element.Text(t, 0))
			}
			els = append(els, mdInlineImages(n)...)
		}
	}
	return els, nil
}

func mdTableRows(tbl *east.Table, src []byte) [][]string {
	var rows [][]string
	for tr := tbl.FirstChild(); tr != nil; tr = tr.NextSibling() {
		switch tr.(type) {
		case *east.TableHeader, *east.TableRow:
		default:
			continue
		}
		var cells []string
		for tc := tr.FirstChild(); tc != nil; tc = tc.NextSibling() {
			cells = append(cells, strings.TrimSpace(string(tc.Text(src))))
		}
		rows = append(rows, cells)
	}
	return rows
}

// mdBlockText gets the text content of a goldmark block node, excluding
// image alt text.
func mdBlockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Image:
				continue
			case *ast.Text:
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			default:
				walk(c)
			}
		}
	}
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// mdInlineImages collects images embedded as base64 data URIs anywhere under
// the node. Linked (non-embedded) images are ignored; there is nothing to
// send to the vision backend.
func mdInlineImages(n ast.Node) []element.Element {
	var els []element.Element
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if img, ok := c.(*ast.Image); ok {
				if fn, ok := dataURIImage(string(img.Destination)); ok {
					els = append(els, element.Image(fn, 0))
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return els
}

// dataURIImage returns a lazy decoder for a base64 image data URI.
func dataURIImage(dest string) (element.ImageFunc, bool) {
	if !strings.HasPrefix(dest, "data:image/") {
		return nil, false
	}
	_, payload, found := strings.Cut(dest, ";base64,")
	if !found {
		return nil, false
	}
	return func() ([]byte, error) {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode image data uri: %w", err)
		}
		return data, nil
	}, true
}
