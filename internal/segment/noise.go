package segment

import (
	"strings"

	"github.com/auditflow/sectioner/internal/element"
	"github.com/auditflow/sectioner/internal/textnorm"
)

// NoiseFilter recognizes page headers/footers, page breaks, page-number
// markers and boilerplate disclaimer lines. Noise elements are excluded from
// both passes entirely.
type NoiseFilter struct {
	skipTokens   []string
	pagePrefixes []string
}

func NewNoiseFilter(skipTokens, pagePrefixes []string) *NoiseFilter {
	f := &NoiseFilter{}
	for _, tok := range skipTokens {
		f.skipTokens = append(f.skipTokens, strings.ToLower(tok))
	}
	for _, p := range pagePrefixes {
		f.pagePrefixes = append(f.pagePrefixes, strings.ToLower(p)+" ")
	}
	return f
}

func (f *NoiseFilter) IsNoise(el element.Element) bool {
	switch el.Kind {
	case element.KindHeader, element.KindFooter, element.KindPageBreak:
		return true
	case element.KindImage:
		// Images carry bytes, not text; the text rules below do not apply.
		return false
	}

	s := strings.ToLower(textnorm.CollapseSpace(el.Text))
	if s == "" {
		return true
	}
	for _, p := range f.pagePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	for _, tok := range f.skipTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
