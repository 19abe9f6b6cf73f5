package segment

import "testing"

func TestDetectHeading(t *testing.T) {
	tests := []struct {
		line      string
		wantPath  string
		wantTitle string
		wantOK    bool
	}{
		{"1. Control de la Plantilla", "1", "Control de la Plantilla", true},
		{"2. Descripción y Evidencia del Hallazgo", "2", "Descripción y Evidencia del Hallazgo", true},
		{"2.1 Evidencia Hallazgo", "2.1", "Evidencia Hallazgo", true},
		{"3) Respuesta Consultoría", "3", "Respuesta Consultoría", true},
		// A trailing page number, as in a table of contents, is discarded.
		{"3. Respuesta Consultoría 12", "3", "Respuesta Consultoría", true},
		{"10.2.1 Detalle del anexo", "10.2.1", "Detalle del anexo", true},
		// Extra whitespace collapses before matching.
		{"  1.   Control   de Versiones  ", "1", "Control de Versiones", true},
		{"Control de la Plantilla", "", "", false},
		{"El sistema falló", "", "", false},
		{"", "", "", false},
		{"42", "", "", false},
	}

	for _, tt := range tests {
		path, title, ok := detectHeading(tt.line, 120)
		if ok != tt.wantOK {
			t.Errorf("detectHeading(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			continue
		}
		if path != tt.wantPath || title != tt.wantTitle {
			t.Errorf("detectHeading(%q) = (%q, %q), want (%q, %q)", tt.line, path, title, tt.wantPath, tt.wantTitle)
		}
	}
}

func TestDetectHeading_LengthBound(t *testing.T) {
	long := "1. Este párrafo comienza con un número pero es demasiado largo para ser un encabezado de sección real del documento"
	if _, _, ok := detectHeading(long, 40); ok {
		t.Error("expected long line to be rejected as heading")
	}
	if _, _, ok := detectHeading(long, 300); !ok {
		t.Error("expected line within bound to be accepted")
	}
}

func TestSectionParent(t *testing.T) {
	tests := []struct{ path, want string }{
		{"2", "2"},
		{"2.1", "2"},
		{"10.2.1", "10"},
	}
	for _, tt := range tests {
		if got := sectionParent(tt.path); got != tt.want {
			t.Errorf("sectionParent(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
