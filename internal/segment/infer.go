package segment

import (
	"sort"
	"strings"

	"github.com/auditflow/sectioner/internal/textnorm"
)

// Inferencer guesses which known section a piece of free text belongs to,
// by per-section keyword dictionaries. Matching is case- and
// accent-insensitive.
type Inferencer struct {
	keywords        map[string][]string // folded keyword lists, keyed by path
	paths           []string            // sorted for a deterministic tie-break
	markerWordLimit int
}

func NewInferencer(keywords map[string][]string, markerWordLimit int) *Inferencer {
	in := &Inferencer{
		keywords:        make(map[string][]string, len(keywords)),
		markerWordLimit: markerWordLimit,
	}
	for path, kws := range keywords {
		folded := make([]string, 0, len(kws))
		for _, kw := range kws {
			folded = append(folded, textnorm.Fold(kw))
		}
		in.keywords[path] = folded
		in.paths = append(in.paths, path)
	}
	sort.Strings(in.paths)
	return in
}

// Infer returns the section the text belongs to. When keywords of several
// sections match, the lowest section path wins.
func (in *Inferencer) Infer(text string) (string, bool) {
	matches := in.match(text)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// InferMarker only returns a section when the match is unambiguous and the
// text is short: a boundary-signaling caption rather than narrative content
// that happens to mention a keyword.
func (in *Inferencer) InferMarker(text string) (string, bool) {
	if len(strings.Fields(text)) >= in.markerWordLimit {
		return "", false
	}
	matches := in.match(text)
	if len(matches) != 1 {
		return "", false
	}
	return matches[0], true
}

func (in *Inferencer) match(text string) []string {
	folded := textnorm.Fold(text)
	var matches []string
	for _, path := range in.paths {
		for _, kw := range in.keywords[path] {
			if strings.Contains(folded, kw) {
				matches = append(matches, path)
				break
			}
		}
	}
	return matches
}
