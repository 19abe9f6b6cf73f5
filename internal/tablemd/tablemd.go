package tablemd

import (
	"strings"

	"github.com/auditflow/sectioner/internal/element"
	"github.com/auditflow/sectioner/internal/textnorm"
)

// Render converts a table element to a markdown pipe table. The first row is
// treated as the header. When no structured rows are available it falls back
// to the element's flat text with cells joined by " | ".
func Render(el element.Element) string {
	if el.Kind != element.KindTable {
		return ""
	}
	if len(el.Rows) == 0 {
		return plainFallback(el.Text)
	}

	width := 0
	for _, row := range el.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return plainFallback(el.Text)
	}

	var sb strings.Builder
	writeRow(&sb, el.Rows[0], width)
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range el.Rows[1:] {
		writeRow(&sb, row, width)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeRow(sb *strings.Builder, row []string, width int) {
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(row) {
			cell = textnorm.CollapseSpace(row[i])
		}
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func plainFallback(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = textnorm.CollapseSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " | ")
}
