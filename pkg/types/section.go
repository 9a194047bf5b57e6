// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionGeneral is the reserved fallback section type. It is valid in every
// taxonomy and labels text that no boundary claimed.
const SectionGeneral = "GENERAL"

// BoundarySource records which detector produced a Boundary.
type BoundarySource string

const (
	SourceOrdinal  BoundarySource = "ordinal"
	SourceSemantic BoundarySource = "semantic"
)

// TaxonomyEntry defines one section type and the vocabulary used to
// recognize it.
type TaxonomyEntry struct {
	// Name is the unique section type label (e.g. "GARANTIAS").
	Name string `json:"name" yaml:"name"`

	// Keywords are matched against the candidate header line.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ContextWords are secondary terms matched against the header line.
	ContextWords []string `json:"context_words" yaml:"context_words"`

	// StructureCues are phrases matched against the header line and the
	// lines that follow it.
	StructureCues []string `json:"structure_cues" yaml:"structure_cues"`

	// Priority orders entries on ties; lower values win.
	Priority int `json:"priority" yaml:"priority"`
}

// OrdinalCandidate is one section type an ordinal position may map to,
// chosen when any of its keywords occurs in the header line.
type OrdinalCandidate struct {
	Section  string   `json:"section" yaml:"section"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// OrdinalRule maps an explicit clause position (Primera = 1, II = 2, "3." = 3)
// to a probable section type.
type OrdinalRule struct {
	Position   int                `json:"position" yaml:"position"`
	Candidates []OrdinalCandidate `json:"candidates" yaml:"candidates"`
	Default    string             `json:"default" yaml:"default"`
}

// TaxonomyDefinition is the versioned on-disk form of a taxonomy table.
type TaxonomyDefinition struct {
	// Version identifies the definition (e.g. "tender-ec/1").
	Version string `json:"version" yaml:"version"`

	// HeaderVocabulary lists words that make a line look like a header
	// regardless of section type.
	HeaderVocabulary []string `json:"header_vocabulary" yaml:"header_vocabulary"`

	Sections []TaxonomyEntry `json:"sections" yaml:"sections"`
	Ordinals []OrdinalRule   `json:"ordinals" yaml:"ordinals"`
}

// LineFeatures holds the structural features of one line of text.
type LineFeatures struct {
	IsShort             bool `json:"is_short"`
	IsUppercase         bool `json:"is_uppercase"`
	HasNumbering        bool `json:"has_numbering"`
	EndsWithColon       bool `json:"ends_with_colon"`
	IsStandalone        bool `json:"is_standalone"`
	HasTitleCase        bool `json:"has_title_case"`
	StartsWithNumber    bool `json:"starts_with_number"`
	HasHeaderVocabulary bool `json:"has_header_vocabulary"`
	HasOrdinalPattern   bool `json:"has_ordinal_pattern"`
	HasClauseMarker     bool `json:"has_clause_marker"`
	HasSectionDash      bool `json:"has_section_dash"`
	StartsWithRoman     bool `json:"starts_with_roman"`

	// HeaderScore is the weighted sum of the features above, capped at 3.
	HeaderScore float64 `json:"header_score"`
}

// Boundary marks the start of a section within a document.
type Boundary struct {
	// Position is the byte offset of the header line in the source text.
	Position int `json:"position" yaml:"position"`

	SectionType string  `json:"section_type" yaml:"section_type"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`

	// Source names the detector that produced the boundary.
	Source BoundarySource `json:"source" yaml:"source"`
}

// Chunk is a contiguous, section-labeled slice of a document.
// Content always equals text[StartPos:EndPos] of the source document.
type Chunk struct {
	Content     string  `json:"content" yaml:"content"`
	SectionType string  `json:"section_type" yaml:"section_type"`
	StartPos    int     `json:"start_pos" yaml:"start_pos"`
	EndPos      int     `json:"end_pos" yaml:"end_pos"`
	Index       int     `json:"index" yaml:"index"`
	SourceID    string  `json:"source_id" yaml:"source_id"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// Segmentation is the result of processing one document.
type Segmentation struct {
	SourceID        string     `json:"source_id" yaml:"source_id"`
	TaxonomyVersion string     `json:"taxonomy_version" yaml:"taxonomy_version"`
	Length          int        `json:"length" yaml:"length"`
	Boundaries      []Boundary `json:"boundaries,omitempty" yaml:"boundaries,omitempty"`
	Chunks          []Chunk    `json:"chunks" yaml:"chunks"`
}

// ExternalLabel is an advisory classification for one chunk supplied by a
// collaborator outside the engine (e.g. an LLM classifier).
type ExternalLabel struct {
	Index       int     `json:"index" yaml:"index"`
	SectionType string  `json:"section_type" yaml:"section_type"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}
