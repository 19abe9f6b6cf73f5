package partition

import (
	"strings"
	"testing"

	"github.com/auditflow/sectioner/internal/element"
)

func TestHTMLPartitioner_Structure(t *testing.T) {
	input := `<html><body>
<header>Informe de Auditoría</header>
<h1>1. Control de la Plantilla</h1>
<p>Control de versiones del informe.</p>
<table>
  <tr><th>Campo</th><th>Valor</th></tr>
  <tr><td>Versión</td><td>1.2</td></tr>
</table>
<script>alert("ignorar")</script>
<footer>Página 1 de 10</footer>
</body></html>`

	p := &HTMLPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := make([]element.Kind, len(els))
	for i, el := range els {
		kinds[i] = el.Kind
	}
	want := []element.Kind{
		element.KindHeader,
		element.KindText,
		element.KindText,
		element.KindTable,
		element.KindFooter,
	}
	if len(els) != len(want) {
		t.Fatalf("expected %d elements, got %d (%v)", len(want), len(els), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("element %d kind = %s, want %s", i, kinds[i], k)
		}
	}

	if els[1].Text != "1. Control de la Plantilla" {
		t.Errorf("heading text = %q", els[1].Text)
	}
	tbl := els[3]
	if len(tbl.Rows) != 2 || tbl.Rows[1][0] != "Versión" {
		t.Errorf("unexpected table rows: %v", tbl.Rows)
	}
	for _, el := range els {
		if strings.Contains(el.Text, "alert") {
			t.Errorf("script content leaked: %q", el.Text)
		}
	}
}

func TestHTMLPartitioner_DataURIImage(t *testing.T) {
	input := `<body><p>Captura:</p><img src="data:image/png;base64,aGVsbG8="></body>`
	p := &HTMLPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "img.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(els))
	}
	if els[1].Kind != element.KindImage {
		t.Fatalf("expected image element, got %s", els[1].Kind)
	}
	data, err := els[1].Image()
	if err != nil {
		t.Fatalf("image accessor failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("decoded bytes = %q", data)
	}
}

func TestHTMLPartitioner_RemoteImageIgnored(t *testing.T) {
	input := `<body><img src="https://example.com/a.png"></body>`
	p := &HTMLPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "remote.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 0 {
		t.Errorf("expected no elements, got %d", len(els))
	}
}

func TestHTMLPartitioner_NoBody(t *testing.T) {
	// A bare fragment still parses; html.Parse synthesizes the body.
	input := `<p>Texto suelto</p>`
	p := &HTMLPartitioner{}
	els, err := p.Partition(strings.NewReader(input), "frag.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 1 || els[0].Text != "Texto suelto" {
		t.Errorf("unexpected elements: %+v", els)
	}
}
