package partition

import (
	"bufio"
	"io"
	"strings"

	"github.com/auditflow/sectioner/internal/element"
)

// TextPartitioner handles plain text files. Blank lines delimit paragraphs;
// each paragraph becomes one text element.
type TextPartitioner struct{}

func (p *TextPartitioner) Partition(r io.Reader, filename string) ([]element.Element, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var els []element.Element
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			els = append(els, element.Text(current.String(), 0))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return els, nil
}
