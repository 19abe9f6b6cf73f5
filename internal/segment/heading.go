package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/auditflow/sectioner/internal/textnorm"
)

// headingRe matches numbered headings like "2. Descripción y Evidencia" or
// "2.1) Detalle", with an optional trailing page number that is discarded.
var headingRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)\s]+(.+?)(?:\s+\d+)?$`)

// detectHeading matches a line against the numbered-heading grammar and
// returns its dotted path and title. Lines longer than maxLen runes are
// rejected so ordinary prose starting with a digit is not taken for a
// heading.
func detectHeading(line string, maxLen int) (path, title string, ok bool) {
	clean := textnorm.CollapseSpace(line)
	if clean == "" || utf8.RuneCountInString(clean) > maxLen {
		return "", "", false
	}
	m := headingRe.FindStringSubmatch(clean)
	if m == nil {
		return "", "", false
	}
	title = strings.TrimSpace(m[2])
	if title == "" {
		return "", "", false
	}
	return m[1], title, true
}

// sectionParent reduces a dotted path to its top-level section ("2.1" -> "2").
func sectionParent(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
