package segment

import (
	"context"
	"errors"
	"strings"

	"github.com/auditflow/sectioner/internal/element"
	"github.com/auditflow/sectioner/internal/tablemd"
	"github.com/auditflow/sectioner/internal/textnorm"
)

// Placeholder descriptions. One bad image must not lose a section's text and
// table content, so failures degrade to these instead of aborting.
const (
	descUnavailable = ImageMarker + " Descripción no disponible."
	descError       = ImageMarker + " Error de procesamiento"
)

// assembleSection turns a section's bucketed elements into chunks, selecting
// the assembly rule by path.
func (s *Segmenter) assembleSection(ctx context.Context, sec *Section) ([]Chunk, error) {
	switch sec.Path {
	case s.cfg.BulkPath:
		return s.assembleBulk(ctx, sec)
	case s.cfg.SteppedPath:
		return s.assembleStepped(ctx, sec)
	default:
		return s.assembleStandard(ctx, sec)
	}
}

// assembleBulk merges everything into at most one chunk. Tables carrying the
// version-control boilerplate phrase are dropped so the literal control
// table is not re-indexed.
func (s *Segmenter) assembleBulk(ctx context.Context, sec *Section) ([]Chunk, error) {
	var texts, tables []string
	var images []element.Element

	for _, e := range sec.Elements {
		switch e.Kind {
		case element.KindImage:
			images = append(images, e)
		case element.KindTable:
			md := tablemd.Render(e)
			if md != "" && !strings.Contains(strings.ToLower(md), s.cfg.BulkExcludePhrase) {
				tables = append(tables, md)
			}
		default:
			if tx := strings.TrimSpace(e.Text); tx != "" {
				texts = append(texts, tx)
			}
		}
	}

	descs, err := s.describeImages(ctx, images)
	if err != nil {
		return nil, err
	}
	content := buildContent(texts, tables, descs)
	if content == "" {
		return nil, nil
	}
	return []Chunk{s.makeChunk(sec, 1, content, len(descs) > 0)}, nil
}

type stepBuffer struct {
	texts  []string
	tables []string
	images []element.Element
}

func (b *stepBuffer) empty() bool {
	return len(b.texts) == 0 && len(b.tables) == 0 && len(b.images) == 0
}

// assembleStepped models repeated finding -> evidence sequences: a step is
// flushed when new narrative text arrives after evidence was attached to the
// narrative already buffered. Each flush becomes its own chunk.
func (s *Segmenter) assembleStepped(ctx context.Context, sec *Section) ([]Chunk, error) {
	var chunks []Chunk
	var buf stepBuffer
	hasEvidence := false
	order := 1

	flush := func() error {
		if buf.empty() {
			return nil
		}
		descs, err := s.describeImages(ctx, buf.images)
		if err != nil {
			return err
		}
		if content := buildContent(buf.texts, buf.tables, descs); content != "" {
			chunks = append(chunks, s.makeChunk(sec, order, content, len(descs) > 0))
			order++
		}
		buf = stepBuffer{}
		hasEvidence = false
		return nil
	}

	for _, e := range sec.Elements {
		switch e.Kind {
		case element.KindImage:
			buf.images = append(buf.images, e)
			hasEvidence = true
		case element.KindTable:
			if md := tablemd.Render(e); md != "" {
				buf.tables = append(buf.tables, md)
				hasEvidence = true
			}
		default:
			tx := strings.TrimSpace(e.Text)
			if tx == "" {
				continue
			}
			if hasEvidence && len(buf.texts) > 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			buf.texts = append(buf.texts, tx)
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// assembleStandard emits a single chunk like the bulk rule, but a table is
// included only when it does not classify into a different section — a
// boundary-marker table missed by pass 2 must not bleed into this section's
// content.
func (s *Segmenter) assembleStandard(ctx context.Context, sec *Section) ([]Chunk, error) {
	var texts, tables []string
	var images []element.Element

	for _, e := range sec.Elements {
		switch e.Kind {
		case element.KindImage:
			images = append(images, e)
		case element.KindTable:
			md := tablemd.Render(e)
			if md == "" {
				continue
			}
			if inferred, ok := s.infer.Infer(md); ok && inferred != sec.Path {
				continue
			}
			tables = append(tables, md)
		default:
			if tx := strings.TrimSpace(e.Text); tx != "" {
				texts = append(texts, tx)
			}
		}
	}

	descs, err := s.describeImages(ctx, images)
	if err != nil {
		return nil, err
	}
	content := buildContent(texts, tables, descs)
	if content == "" {
		return nil, nil
	}
	return []Chunk{s.makeChunk(sec, 1, content, len(descs) > 0)}, nil
}

// describeImages requests one description per image, sequentially and in
// element order, so output is deterministic and the vision backend is never
// hit concurrently. A zero-image batch short-circuits without any call.
func (s *Segmenter) describeImages(ctx context.Context, images []element.Element) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	descs := make([]string, 0, len(images))
	for _, el := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := materializeImage(el)
		if err != nil {
			s.log.Warn("image bytes unavailable", "error", err)
			descs = append(descs, descError)
			continue
		}
		text, err := s.vision.Describe(ctx, data, s.cfg.ImagePrompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Error("vision describe failed", "error", err)
			descs = append(descs, descError)
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			descs = append(descs, descUnavailable)
		} else {
			descs = append(descs, ImageMarker+" "+text)
		}
	}
	return descs, nil
}

func materializeImage(el element.Element) ([]byte, error) {
	if el.Image == nil {
		return nil, errors.New("image element has no byte accessor")
	}
	data, err := el.Image()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	return data, nil
}

// buildContent joins the text, table and image-description blocks with blank
// lines, omitting empty blocks.
func buildContent(texts, tables, descs []string) string {
	var blocks []string
	if len(texts) > 0 {
		blocks = append(blocks, strings.Join(texts, "\n\n"))
	}
	if len(tables) > 0 {
		blocks = append(blocks, strings.Join(tables, "\n\n"))
	}
	if len(descs) > 0 {
		blocks = append(blocks, strings.Join(descs, "\n\n"))
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

func (s *Segmenter) makeChunk(sec *Section, order int, content string, mixed bool) Chunk {
	ctype := "text"
	if mixed {
		ctype = "mixed"
	}
	return Chunk{
		Content: content,
		Meta: Metadata{
			SectionPath:      sec.Path,
			SectionTitle:     sec.Title,
			SectionTitleNorm: textnorm.Norm(sec.Title),
			ChunkType:        ctype,
			GroupID:          "sec:" + sec.Path,
			OrderInGroup:     order,
			PageRange:        sec.pageRange(),
			ImageCount:       countImages(content),
			TableCount:       countTables(content),
			ContentSHA:       ContentSHA(content),
		},
	}
}
