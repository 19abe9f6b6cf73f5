package partition

import (
	"strings"
	"testing"

	"github.com/auditflow/sectioner/internal/element"
)

func TestTextPartitioner_Paragraphs(t *testing.T) {
	input := "1. Control de la Plantilla\n\nControl de versiones\ndel informe\n\n\nSegundo párrafo\n"
	p := &TextPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(els))
	}
	if els[0].Text != "1. Control de la Plantilla" {
		t.Errorf("unexpected first element: %q", els[0].Text)
	}
	// Single newlines inside a paragraph are preserved.
	if els[1].Text != "Control de versiones\ndel informe" {
		t.Errorf("unexpected second element: %q", els[1].Text)
	}
	for i, el := range els {
		if el.Kind != element.KindText {
			t.Errorf("element %d has kind %s, want Text", i, el.Kind)
		}
	}
}

func TestTextPartitioner_Empty(t *testing.T) {
	p := &TextPartitioner{}
	els, err := p.Partition(strings.NewReader("\n\n   \n"), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Whitespace-only lines still form one paragraph of spaces; the noise
	// filter downstream drops it. Only fully blank lines split.
	for _, el := range els {
		if strings.TrimSpace(el.Text) != "" {
			t.Errorf("expected only blank content, got %q", el.Text)
		}
	}
}

func TestForFile_Dispatch(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"report.docx", false},
		{"report.PDF", false},
		{"notes.md", false},
		{"notes.markdown", false},
		{"page.html", false},
		{"page.htm", false},
		{"plain.txt", false},
		{"data.xlsx", true},
		{"archive.zip", true},
		{"noextension", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) err = %v, wantErr %v", tt.filename, err, tt.wantErr)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("Informe.DOCX") {
		t.Error("extension check must be case-insensitive")
	}
	if IsSupportedExtension("script.exe") {
		t.Error("unexpected support for .exe")
	}
}

func TestFlattenRows(t *testing.T) {
	got := flattenRows([][]string{
		{"Campo", "Valor"},
		{"", "  "},
		{"Código", "E-500"},
	})
	want := "Campo | Valor\nCódigo | E-500"
	if got != want {
		t.Errorf("flattenRows = %q, want %q", got, want)
	}
}
