package indexer

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/auditflow/sectioner/internal/segment"
	"github.com/auditflow/sectioner/internal/textnorm"
)

// DocumentRef carries the caller-supplied identity of one ingested document.
// Field names stay close to the report vocabulary the index is queried with.
type DocumentRef struct {
	Responsible string // party that owns the defect ("responsable")
	Defect      string // free-form defect label, usually containing the numeric ID
	ReportID    string // optional report identifier ("id_reporte")
	SourceFile  string // original filename as uploaded
}

func (d DocumentRef) ResponsibleNorm() string {
	return textnorm.Norm(d.Responsible)
}

// DocumentID builds the stable per-document identifier used for listing and
// deletion. It is derived, not random, so re-ingesting the same file under
// the same identity addresses the same records.
func (d DocumentRef) DocumentID() string {
	report := d.ReportID
	if report == "" {
		report = "na"
	}
	return fmt.Sprintf("%s::%s::%s", d.ResponsibleNorm(), report, fileStem(d.SourceFile))
}

func fileStem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// NewRecordID returns a fresh random record identifier.
func NewRecordID() string {
	return uuid.NewString()
}

// PrepareMetadata flattens a chunk and its document identity into the
// metadata map shipped to the evidence collection.
func PrepareMetadata(doc DocumentRef, chunk segment.Chunk, chunkIndex int, documentSHA string) map[string]any {
	m := map[string]any{
		"element_type":     chunk.Meta.ChunkType,
		"responsable":      doc.Responsible,
		"responsable_norm": doc.ResponsibleNorm(),
		"defecto":          doc.Defect,
		"defect_id_digits": textnorm.Digits(doc.Defect),
		"source_file":      doc.SourceFile,
		"chunk_index":      chunkIndex,
		"id_reporte":       doc.ReportID,
		"document_id":      doc.DocumentID(),
		"document_sha":     documentSHA,
	}
	mergeChunkMeta(m, chunk)
	return m
}

// PrepareSolutionMetadata is the variant for the historical solutions
// collection: a solved defect's solution steps, queryable by the defect they
// resolve.
func PrepareSolutionMetadata(doc DocumentRef, chunk segment.Chunk, documentSHA string) map[string]any {
	m := map[string]any{
		"parent_defect_id": textnorm.Digits(doc.Defect),
		"status":           "solved",
		"responsable_norm": doc.ResponsibleNorm(),
		"defect_text_norm": textnorm.Norm(doc.Defect),
		"solution_section": chunk.Meta.SectionTitleNorm,
		"step_number":      chunk.Meta.OrderInGroup,
		"source_file":      doc.SourceFile,
		"id_reporte":       doc.ReportID,
		"document_id":      doc.DocumentID(),
		"document_sha":     documentSHA,
	}
	mergeChunkMeta(m, chunk)
	return m
}

func mergeChunkMeta(m map[string]any, chunk segment.Chunk) {
	cm := chunk.Meta
	m["section_path"] = cm.SectionPath
	m["section_title"] = cm.SectionTitle
	m["section_title_norm"] = cm.SectionTitleNorm
	m["chunk_type"] = cm.ChunkType
	m["group_id"] = cm.GroupID
	m["order_in_group"] = cm.OrderInGroup
	if len(cm.PageRange) == 2 {
		m["page_start"] = cm.PageRange[0]
		m["page_end"] = cm.PageRange[1]
	}
	m["image_count"] = cm.ImageCount
	m["table_count"] = cm.TableCount
	m["content_sha"] = cm.ContentSHA
}
