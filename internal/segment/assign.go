package segment

import (
	"github.com/auditflow/sectioner/internal/element"
)

// assignSections is pass 2: a forward-only walk that buckets every content
// element into a section. Boundaries are discovered as they are seen; the
// only lookahead is pass 1 over headings.
func (s *Segmenter) assignSections(els []element.Element, sections map[string]*Section, tocMarks map[int]struct{}) {
	var currentSection, lastContentSection string

	for idx, el := range els {
		if _, isTOC := tocMarks[idx]; isTOC {
			continue
		}
		if s.noise.IsNoise(el) {
			continue
		}

		if el.Kind == element.KindImage {
			// Images attach to the section that last received content: a
			// screenshot is evidence for the narrative above it, even when a
			// boundary marker already switched the current section.
			target := lastContentSection
			if target == "" {
				target = currentSection
			}
			if target == "" {
				s.log.Debug("dropping image, no content section yet", "index", idx)
				continue
			}
			sections[target].add(el)
			continue
		}

		potential, matched := s.infer.Infer(el.Text)
		isPureMarker := false
		if el.Kind == element.KindTable {
			_, isPureMarker = s.infer.InferMarker(el.Text)
		}

		if matched && potential != currentSection {
			if _, known := sections[potential]; known {
				s.log.Debug("section switch", "index", idx, "from", currentSection, "to", potential)
				currentSection = potential
			}
		}

		if isPureMarker {
			// The element only signaled the boundary; it contributes no
			// content.
			continue
		}
		if currentSection == "" {
			s.log.Debug("dropping element, no active section", "index", idx, "kind", el.Kind.String())
			continue
		}

		sections[currentSection].add(el)
		lastContentSection = currentSection
	}
}
