// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads and validates the section taxonomy table: the closed
// set of section types, the vocabulary used to recognize each one, and the
// ordinal position table used for explicitly numbered clauses.
//
// A Table is immutable once built and safe for unsynchronized concurrent reads.
package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

//go:embed tender.yaml
var tenderDefinition []byte

// ErrInvalidTaxonomy is wrapped by every validation failure.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// defaultHeaderVocabulary applies when a definition omits header_vocabulary.
var defaultHeaderVocabulary = []string{
	"información", "descripción", "requisitos", "aspectos",
	"garantías", "programación", "documentación",
}

// Entry is a compiled TaxonomyEntry. Term lists are accent-folded and
// lowercased.
type Entry struct {
	Name          string
	Priority      int
	Keywords      []string
	ContextWords  []string
	StructureCues []string
}

// Table is the compiled, read-only taxonomy.
type Table struct {
	def         types.TaxonomyDefinition
	entries     []Entry
	byName      map[string]int
	ordinals    map[int]types.OrdinalRule
	headerVocab []string
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Parse(tenderDefinition)
})

// Default returns the built-in tender taxonomy. It is parsed once per
// process and shared by every caller.
func Default() (*Table, error) {
	return defaultTable()
}

// DefaultDefinition returns the raw YAML of the built-in taxonomy.
func DefaultDefinition() []byte {
	return bytes.Clone(tenderDefinition)
}

// Parse decodes and validates a YAML taxonomy definition. Unknown fields are
// rejected.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def types.TaxonomyDefinition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidTaxonomy, err)
	}
	return New(def)
}

// Load reads and parses the taxonomy file at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return t, nil
}

// New validates def and compiles it into a Table.
func New(def types.TaxonomyDefinition) (*Table, error) {
	if strings.TrimSpace(def.Version) == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidTaxonomy)
	}
	if len(def.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections defined", ErrInvalidTaxonomy)
	}

	t := &Table{
		def:      cloneDefinition(def),
		byName:   make(map[string]int, len(def.Sections)),
		ordinals: make(map[int]types.OrdinalRule, len(def.Ordinals)),
	}

	for i, sec := range def.Sections {
		name := strings.TrimSpace(sec.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: section %d has no name", ErrInvalidTaxonomy, i)
		case name == types.SectionGeneral:
			return nil, fmt.Errorf("%w: section %q is reserved", ErrInvalidTaxonomy, name)
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate section %q", ErrInvalidTaxonomy, name)
		}

		e := Entry{
			Name:          name,
			Priority:      sec.Priority,
			Keywords:      textutil.FoldAll(sec.Keywords),
			ContextWords:  textutil.FoldAll(sec.ContextWords),
			StructureCues: textutil.FoldAll(sec.StructureCues),
		}
		// Every list is a denominator in the semantic score.
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("%w: section %q has no keywords", ErrInvalidTaxonomy, name)
		}
		if len(e.ContextWords) == 0 {
			return nil, fmt.Errorf("%w: section %q has no context_words", ErrInvalidTaxonomy, name)
		}
		if len(e.StructureCues) == 0 {
			return nil, fmt.Errorf("%w: section %q has no structure_cues", ErrInvalidTaxonomy, name)
		}

		t.byName[name] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	for _, rule := range def.Ordinals {
		compiled, err := t.compileOrdinal(rule)
		if err != nil {
			return nil, err
		}
		t.ordinals[rule.Position] = compiled
	}

	t.headerVocab = textutil.FoldAll(def.HeaderVocabulary)
	if len(t.headerVocab) == 0 {
		t.headerVocab = textutil.FoldAll(defaultHeaderVocabulary)
	}

	return t, nil
}

func (t *Table) compileOrdinal(rule types.OrdinalRule) (types.OrdinalRule, error) {
	if rule.Position < 1 {
		return types.OrdinalRule{}, fmt.Errorf("%w: ordinal position %d must be >= 1", ErrInvalidTaxonomy, rule.Position)
	}
	if _, dup := t.ordinals[rule.Position]; dup {
		return types.OrdinalRule{}, fmt.Errorf("%w: duplicate ordinal position %d", ErrInvalidTaxonomy, rule.Position)
	}
	def := strings.TrimSpace(rule.Default)
	if !t.Known(def) {
		return types.OrdinalRule{}, fmt.Errorf("%w: ordinal %d default %q is not a section", ErrInvalidTaxonomy, rule.Position, def)
	}

	out := types.OrdinalRule{Position: rule.Position, Default: def}
	for _, c := range rule.Candidates {
		section := strings.TrimSpace(c.Section)
		if !t.Known(section) {
			return types.OrdinalRule{}, fmt.Errorf("%w: ordinal %d candidate %q is not a section", ErrInvalidTaxonomy, rule.Position, section)
		}
		out.Candidates = append(out.Candidates, types.OrdinalCandidate{
			Section:  section,
			Keywords: textutil.FoldAll(c.Keywords),
		})
	}
	return out, nil
}

// Version returns the definition version string.
func (t *Table) Version() string { return t.def.Version }

// Entries returns the compiled entries in definition order. Callers must not
// modify the returned slice.
func (t *Table) Entries() []Entry { return t.entries }

// Lookup returns the entry named name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Known reports whether name is a valid section type, including GENERAL.
func (t *Table) Known(name string) bool {
	if name == types.SectionGeneral {
		return true
	}
	_, ok := t.byName[name]
	return ok
}

// Ordinal returns the position rule for pos, with folded keywords.
func (t *Table) Ordinal(pos int) (types.OrdinalRule, bool) {
	r, ok := t.ordinals[pos]
	return r, ok
}

// HeaderVocabulary returns the folded header vocabulary.
func (t *Table) HeaderVocabulary() []string { return t.headerVocab }

// Names returns the section names sorted by priority, then name.
func (t *Table) Names() []string {
	sorted := make([]Entry, len(t.entries))
	copy(sorted, t.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})
	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.Name
	}
	return names
}

// Definition returns a copy of the definition the table was built from.
func (t *Table) Definition() types.TaxonomyDefinition { return cloneDefinition(t.def) }

func cloneDefinition(src types.TaxonomyDefinition) types.TaxonomyDefinition {
	def := src
	def.HeaderVocabulary = slices.Clone(src.HeaderVocabulary)
	def.Sections = slices.Clone(src.Sections)
	for i := range def.Sections {
		sec := &def.Sections[i]
		sec.Keywords = slices.Clone(sec.Keywords)
		sec.ContextWords = slices.Clone(sec.ContextWords)
		sec.StructureCues = slices.Clone(sec.StructureCues)
	}
	def.Ordinals = slices.Clone(src.Ordinals)
	for i := range def.Ordinals {
		rule := &def.Ordinals[i]
		rule.Candidates = slices.Clone(rule.Candidates)
		for j := range rule.Candidates {
			rule.Candidates[j].Keywords = slices.Clone(rule.Candidates[j].Keywords)
		}
	}
	return def
}
