package element

// Kind discriminates the closed set of element variants produced by the
// partitioner. Dispatch is always on Kind, never on dynamic types.
type Kind int

const (
	KindText Kind = iota
	KindTable
	KindImage
	KindHeader
	KindFooter
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindTable:
		return "Table"
	case KindImage:
		return "Image"
	case KindHeader:
		return "Header"
	case KindFooter:
		return "Footer"
	case KindPageBreak:
		return "PageBreak"
	default:
		return "Unknown"
	}
}

// ImageFunc lazily materializes the raw bytes of an image element.
// It may fail; the consumer substitutes a placeholder description.
type ImageFunc func() ([]byte, error)

// Element is one unit of extracted document content, in document order.
// Elements are immutable after the partitioner produces them.
type Element struct {
	Kind Kind

	// Text holds the plain text for Text/Header/Footer elements and the
	// flattened cell text for Table elements.
	Text string

	// Rows holds table cells, row-major. Empty for non-table elements or
	// when only a flat text rendering of the table was recoverable.
	Rows [][]string

	// Page is the 1-based source page number, 0 if unknown.
	Page int

	// Image materializes raw image bytes. Nil for non-image elements.
	Image ImageFunc
}

// Text builds a text element.
func Text(s string, page int) Element {
	return Element{Kind: KindText, Text: s, Page: page}
}

// Table builds a table element from cells plus their flattened text.
func Table(rows [][]string, flat string, page int) Element {
	return Element{Kind: KindTable, Rows: rows, Text: flat, Page: page}
}

// Image builds an image element with a lazy byte accessor.
func Image(fn ImageFunc, page int) Element {
	return Element{Kind: KindImage, Image: fn, Page: page}
}
