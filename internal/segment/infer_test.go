package segment

import "testing"

func testInferencer() *Inferencer {
	return NewInferencer(DefaultConfig().Keywords, 10)
}

func TestInfer_KeywordMatch(t *testing.T) {
	in := testInferencer()

	tests := []struct {
		text     string
		wantPath string
		wantOK   bool
	}{
		{"Control de la Plantilla", "1", true},
		{"Tabla con el historial de cambios del documento", "1", true},
		{"Descripción y Evidencia del hallazgo detectado", "2", true},
		{"Respuesta Consultoría", "3", true},
		// Accent-insensitive: "descripcion hallazgo" without tilde.
		{"DESCRIPCION HALLAZGO numero 4", "2", true},
		{"Un párrafo cualquiera sin vocabulario de sección", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		path, ok := in.Infer(tt.text)
		if ok != tt.wantOK || path != tt.wantPath {
			t.Errorf("Infer(%q) = (%q, %v), want (%q, %v)", tt.text, path, ok, tt.wantPath, tt.wantOK)
		}
	}
}

func TestInfer_MultiMatchPrefersLowestPath(t *testing.T) {
	in := testInferencer()
	path, ok := in.Infer("Control de versiones y descripción hallazgo en la misma celda")
	if !ok || path != "1" {
		t.Errorf("expected lowest path 1 on multi-match, got (%q, %v)", path, ok)
	}
}

func TestInferMarker_ShortUnambiguous(t *testing.T) {
	in := testInferencer()
	path, ok := in.InferMarker("Respuesta Consultoría")
	if !ok || path != "3" {
		t.Errorf("expected marker match for short caption, got (%q, %v)", path, ok)
	}
}

func TestInferMarker_TooLong(t *testing.T) {
	in := testInferencer()
	long := "Respuesta Consultoría entregada luego de revisar todos los antecedentes y pruebas disponibles del caso"
	if _, ok := in.InferMarker(long); ok {
		t.Error("expected long text to be rejected as marker")
	}
	// It still infers as regular content.
	if path, ok := in.Infer(long); !ok || path != "3" {
		t.Errorf("expected regular inference to still match, got (%q, %v)", path, ok)
	}
}

func TestInferMarker_AmbiguousRejected(t *testing.T) {
	in := testInferencer()
	if _, ok := in.InferMarker("Control de versiones y solución"); ok {
		t.Error("expected multi-section match to be rejected as marker")
	}
}
