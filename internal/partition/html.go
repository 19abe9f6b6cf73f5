package partition

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/auditflow/sectioner/internal/element"
)

// HTMLPartitioner handles HTML files. Headings and paragraphs become text
// elements, <table> becomes a table element, <header>/<footer> subtrees are
// marked so the noise filter can drop them, and <img> tags with base64 data
// URIs become image elements.
type HTMLPartitioner struct{}

func (p *HTMLPartitioner) Partition(r io.Reader, filename string) ([]element.Element, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var els []element.Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav":
				return
			case "header":
				if t := htmlTextContent(n); t != "" {
					els = append(els, element.Element{Kind: element.KindHeader, Text: t})
				}
				return
			case "footer":
				if t := htmlTextContent(n); t != "" {
					els = append(els, element.Element{Kind: element.KindFooter, Text: t})
				}
				return
			case "table":
				if rows := htmlTableRows(n); len(rows) > 0 {
					els = append(els, element.Table(rows, flattenRows(rows), 0))
				}
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "blockquote", "pre":
				if t := htmlTextContent(n); t != "" {
					els = append(els, element.Text(t, 0))
				}
				els = append(els, htmlImages(n)...)
				return
			case "img":
				els = append(els, htmlImages(n)...)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return els, nil
}

func htmlTextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func htmlTableRows(tbl *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, htmlTextContent(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tbl)
	return rows
}

// htmlImages collects <img> elements with embedded base64 sources under n.
func htmlImages(n *html.Node) []element.Element {
	var els []element.Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key != "src" {
					continue
				}
				if fn, ok := dataURIImage(attr.Val); ok {
					els = append(els, element.Image(fn, 0))
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return els
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
