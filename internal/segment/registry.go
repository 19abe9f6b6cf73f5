package segment

import (
	"sort"

	"github.com/auditflow/sectioner/internal/element"
)

// Section is a logical region of the document, keyed by its top-level path.
// Sections are created in pass 1 and filled append-only in pass 2; they live
// for a single segmentation run.
type Section struct {
	Path     string
	Title    string
	Elements []element.Element
	Pages    map[int]struct{}
}

func newSection(path, title string) *Section {
	return &Section{Path: path, Title: title, Pages: make(map[int]struct{})}
}

func (s *Section) add(el element.Element) {
	s.Elements = append(s.Elements, el)
	if el.Page > 0 {
		s.Pages[el.Page] = struct{}{}
	}
}

// pageRange returns [min, max] of the pages touched, or nil.
func (s *Section) pageRange() []int {
	if len(s.Pages) == 0 {
		return nil
	}
	pages := make([]int, 0, len(s.Pages))
	for p := range s.Pages {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return []int{pages[0], pages[len(pages)-1]}
}

// buildRegistry is pass 1: it walks all non-noise elements, detects numbered
// headings, and registers each top-level section under its first-seen title.
// A sub-heading never overwrites the title a top-level heading established.
// The returned set holds the indices of heading elements, so pass 2 skips
// them as content.
func (s *Segmenter) buildRegistry(els []element.Element) (map[string]*Section, map[int]struct{}) {
	sections := make(map[string]*Section)
	tocMarks := make(map[int]struct{})

	for idx, el := range els {
		if s.noise.IsNoise(el) {
			continue
		}
		path, title, ok := detectHeading(el.Text, s.cfg.MaxHeadingLen)
		if !ok {
			continue
		}
		parent := sectionParent(path)
		if sec, seen := sections[parent]; !seen {
			sections[parent] = newSection(parent, title)
		} else if path == parent {
			sec.Title = title
		}
		tocMarks[idx] = struct{}{}
	}

	return sections, tocMarks
}

func sortedPaths(sections map[string]*Section) []string {
	paths := make([]string, 0, len(sections))
	for p := range sections {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
