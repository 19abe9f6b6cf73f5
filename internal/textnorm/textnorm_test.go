package textnorm

import "testing"

func TestStripAccents(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Descripción", "Descripcion"},
		{"Consultoría", "Consultoria"},
		{"año señal", "ano senal"},
		{"sin acentos", "sin acentos"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripAccents(tt.in); got != tt.want {
			t.Errorf("StripAccents(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("DESCRIPCIÓN Y Evidencia"); got != "descripcion y evidencia" {
		t.Errorf("Fold = %q", got)
	}
}

func TestNorm(t *testing.T) {
	tests := []struct{ in, want string }{
		{"María José Pérez", "maria_jose_perez"},
		{"  Descripción y Evidencia del Hallazgo  ", "descripcion_y_evidencia_del_hallazgo"},
		{"Informe v1.2 (final)", "informe_v1.2_final"},
		{"E-500 / carga", "e-500__carga"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Norm(tt.in); got != tt.want {
			t.Errorf("Norm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  a \t b\n\nc  "); got != "a b c" {
		t.Errorf("CollapseSpace = %q", got)
	}
}

func TestDigits(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Defecto 4512 - carga", "4512"},
		{"sin numeros", ""},
		{"v1.2", "1"},
	}
	for _, tt := range tests {
		if got := Digits(tt.in); got != tt.want {
			t.Errorf("Digits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
