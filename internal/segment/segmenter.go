package segment

import (
	"context"
	"log/slog"

	"github.com/auditflow/sectioner/internal/element"
)

// Describer turns an image into a literal textual description. Failures are
// recovered locally with placeholder text; they never abort a section.
type Describer interface {
	Describe(ctx context.Context, image []byte, prompt string) (string, error)
}

// Segmenter runs section-aware segmentation over an ordered element
// sequence: pass 1 builds the section registry from detected headings,
// pass 2 buckets content elements into sections, then each section is
// assembled into chunks by its path rule. A Segmenter is stateless across
// calls and safe to reuse; all per-run state is local to Segment.
type Segmenter struct {
	cfg    Config
	noise  *NoiseFilter
	infer  *Inferencer
	vision Describer
	log    *slog.Logger
}

func New(cfg Config, vision Describer, log *slog.Logger) *Segmenter {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Segmenter{
		cfg:    cfg,
		noise:  NewNoiseFilter(cfg.SkipTokens, cfg.PageMarkerPrefixes),
		infer:  NewInferencer(cfg.Keywords, cfg.MarkerWordLimit),
		vision: vision,
		log:    log,
	}
}

// Segment produces the ordered chunk list for one document. An empty element
// sequence and a document without detectable headings both yield zero chunks
// without error.
func (s *Segmenter) Segment(ctx context.Context, els []element.Element) ([]Chunk, error) {
	if len(els) == 0 {
		return nil, nil
	}

	sections, tocMarks := s.buildRegistry(els)
	if len(sections) == 0 {
		s.log.Warn("no headings detected, all content dropped", "elements", len(els))
		return nil, nil
	}

	s.assignSections(els, sections, tocMarks)

	var chunks []Chunk
	for _, path := range sortedPaths(sections) {
		sec := sections[path]
		if len(sec.Elements) == 0 {
			continue
		}
		secChunks, err := s.assembleSection(ctx, sec)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, secChunks...)
	}

	s.log.Info("segmentation complete", "sections", len(sections), "chunks", len(chunks))
	return chunks, nil
}
