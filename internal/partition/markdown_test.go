package partition

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/auditflow/sectioner/internal/element"
)

func TestMarkdownPartitioner_HeadingsAndParagraphs(t *testing.T) {
	input := `# 1. Control de la Plantilla

Control de versiones del informe.

## 2. Descripción y Evidencia del Hallazgo

El proceso de carga falla en el paso 4.
`
	p := &MarkdownPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "report.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(els))
	}
	want := []string{
		"1. Control de la Plantilla",
		"Control de versiones del informe.",
		"2. Descripción y Evidencia del Hallazgo",
		"El proceso de carga falla en el paso 4.",
	}
	for i, w := range want {
		if els[i].Kind != element.KindText || els[i].Text != w {
			t.Errorf("element %d = (%s, %q), want (Text, %q)", i, els[i].Kind, els[i].Text, w)
		}
	}
}

func TestMarkdownPartitioner_CodeBlock(t *testing.T) {
	// Fenced code blocks have no inline children; their text comes straight
	// from the source segments.
	input := "El error registrado:\n\n```\nERROR: conexión rechazada\ntimeout=30s\n```\n"
	p := &MarkdownPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "log.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(els))
	}
	if els[1].Kind != element.KindText {
		t.Fatalf("expected text element, got %s", els[1].Kind)
	}
	if els[1].Text != "ERROR: conexión rechazada\ntimeout=30s" {
		t.Errorf("unexpected code block text: %q", els[1].Text)
	}
}

func TestMarkdownPartitioner_Table(t *testing.T) {
	input := `| Campo | Valor |
| --- | --- |
| Versión | 1.2 |
| Autor | QA |
`
	p := &MarkdownPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "table.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 1 {
		t.Fatalf("expected 1 element, got %d", len(els))
	}
	el := els[0]
	if el.Kind != element.KindTable {
		t.Fatalf("expected table element, got %s", el.Kind)
	}
	if len(el.Rows) != 3 {
		t.Fatalf("expected 3 rows (header + 2), got %d", len(el.Rows))
	}
	if el.Rows[0][0] != "Campo" || el.Rows[2][1] != "QA" {
		t.Errorf("unexpected rows: %v", el.Rows)
	}
	if !strings.Contains(el.Text, "Versión | 1.2") {
		t.Errorf("flat text missing row content: %q", el.Text)
	}
}

func TestMarkdownPartitioner_DataURIImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})
	input := "Evidencia del error:\n\n![captura](data:image/png;base64," + payload + ")\n"

	p := &MarkdownPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "evidence.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var img *element.Element
	for i := range els {
		if els[i].Kind == element.KindImage {
			img = &els[i]
		}
	}
	if img == nil {
		t.Fatal("expected an image element")
	}
	data, err := img.Image()
	if err != nil {
		t.Fatalf("image accessor failed: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Errorf("decoded bytes = %q", data)
	}

	// The paragraph text survives without the alt text.
	if els[0].Kind != element.KindText || !strings.Contains(els[0].Text, "Evidencia del error") {
		t.Errorf("unexpected first element: %+v", els[0])
	}
	for _, el := range els {
		if el.Kind == element.KindText && strings.Contains(el.Text, "captura") {
			t.Errorf("alt text leaked into text element: %q", el.Text)
		}
	}
}

func TestMarkdownPartitioner_LinkedImageIgnored(t *testing.T) {
	input := "![diagrama](https://example.com/diagrama.png)\n"
	p := &MarkdownPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "linked.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, el := range els {
		if el.Kind == element.KindImage {
			t.Error("linked image must not produce an image element")
		}
	}
}

func TestDataURIImage_Rejects(t *testing.T) {
	if _, ok := dataURIImage("https://example.com/a.png"); ok {
		t.Error("plain URL accepted as data URI")
	}
	if _, ok := dataURIImage("data:image/png,rawpayload"); ok {
		t.Error("non-base64 data URI accepted")
	}
}

func TestDataURIImage_BadBase64(t *testing.T) {
	fn, ok := dataURIImage("data:image/png;base64,!!notbase64!!")
	if !ok {
		t.Fatal("expected accessor for well-formed prefix")
	}
	if _, err := fn(); err == nil {
		t.Error("expected decode error on invalid payload")
	}
}
