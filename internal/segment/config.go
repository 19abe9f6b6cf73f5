package segment

// Config controls segmentation behavior. The defaults encode the report
// template this service was built for; deployments tune them without code
// changes.
type Config struct {
	// Keywords maps a top-level section path to the vocabulary that
	// identifies content belonging to it.
	Keywords map[string][]string

	// SkipTokens are boilerplate fragments (letterhead, confidentiality
	// notices) whose presence marks an element as noise.
	SkipTokens []string

	// PageMarkerPrefixes mark page-number footer lines ("página 3").
	PageMarkerPrefixes []string

	// MarkerWordLimit is the word count below which an unambiguous keyword
	// match counts as a section-boundary marker rather than content.
	MarkerWordLimit int

	// MaxHeadingLen rejects heading candidates longer than this many runes,
	// so prose that happens to start with a digit is not misread as a
	// heading.
	MaxHeadingLen int

	// BulkPath is the section merged into a single chunk regardless of size.
	BulkPath string

	// SteppedPath is the section split into finding/evidence step chunks.
	SteppedPath string

	// BulkExcludePhrase drops tables containing this phrase from the bulk
	// section, keeping the literal version-control table out of the index.
	BulkExcludePhrase string

	// ImagePrompt instructs the vision backend to transcribe literally.
	ImagePrompt string
}

// DefaultConfig returns the dictionaries for the audit report template.
func DefaultConfig() Config {
	return Config{
		Keywords: map[string][]string{
			"1": {"control de la plantilla", "control de versiones", "historial de cambios"},
			"2": {"descripción y evidencia", "evidencia hallazgo", "descripción hallazgo"},
			"3": {"respuesta consultoría", "respuesta consultoria", "solución"},
		},
		SkipTokens:         []string{"confidencial", "cb consultores chile.", "grupo epm", "grupo saesa"},
		PageMarkerPrefixes: []string{"página", "pagina"},
		MarkerWordLimit:    10,
		MaxHeadingLen:      120,
		BulkPath:           "1",
		SteppedPath:        "2",
		BulkExcludePhrase:  "control de la plantilla",
		ImagePrompt: "Describe de forma objetiva y estructurada el contenido de esta imagen. " +
			"Tu regla más importante es transcribir todo el texto de forma literal y precisa. " +
			"No hagas suposiciones ni interpretaciones.",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Keywords == nil {
		c.Keywords = def.Keywords
	}
	if c.SkipTokens == nil {
		c.SkipTokens = def.SkipTokens
	}
	if c.PageMarkerPrefixes == nil {
		c.PageMarkerPrefixes = def.PageMarkerPrefixes
	}
	if c.MarkerWordLimit <= 0 {
		c.MarkerWordLimit = def.MarkerWordLimit
	}
	if c.MaxHeadingLen <= 0 {
		c.MaxHeadingLen = def.MaxHeadingLen
	}
	if c.BulkPath == "" {
		c.BulkPath = def.BulkPath
	}
	if c.SteppedPath == "" {
		c.SteppedPath = def.SteppedPath
	}
	if c.BulkExcludePhrase == "" {
		c.BulkExcludePhrase = def.BulkExcludePhrase
	}
	if c.ImagePrompt == "" {
		c.ImagePrompt = def.ImagePrompt
	}
	return c
}
