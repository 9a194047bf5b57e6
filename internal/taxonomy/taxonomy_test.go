// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/pkg/types"
)

func TestDefaultLoads(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "tender-ec/1", table.Version())
	assert.Len(t, table.Entries(), 10)

	for _, name := range []string{"OBJETO", "CONDICIONES_ECONOMICAS", "PLAZOS", "GARANTIAS", "CONVOCATORIA"} {
		assert.True(t, table.Known(name), "expected %s in default taxonomy", name)
	}
	assert.True(t, table.Known(types.SectionGeneral))
	assert.False(t, table.Known("RIESGOS"))

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, table, again, "default table must be built once")
}

func TestDefaultTermsAreFolded(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	e, ok := table.Lookup("GARANTIAS")
	require.True(t, ok)
	assert.Contains(t, e.Keywords, "garantia")
	assert.Contains(t, e.Keywords, "poliza")
	assert.Contains(t, table.HeaderVocabulary(), "informacion")
}

func TestDefaultOrdinalTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	tests := []struct {
		pos         int
		wantDefault string
		wantFirst   string
	}{
		{1, "OBJETO", "OBJETO"},
		{2, "CONDICIONES_ECONOMICAS", "CONDICIONES_ECONOMICAS"},
		{3, "PLAZOS", "PLAZOS"},
		{4, "GARANTIAS", "GARANTIAS"},
		{9, "CONDICIONES_GENERALES", "CONDICIONES_GENERALES"},
	}
	for _, tt := range tests {
		rule, ok := table.Ordinal(tt.pos)
		require.True(t, ok, "position %d", tt.pos)
		assert.Equal(t, tt.wantDefault, rule.Default)
		require.NotEmpty(t, rule.Candidates)
		assert.Equal(t, tt.wantFirst, rule.Candidates[0].Section)
	}

	_, ok := table.Ordinal(11)
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	names := table.Names()
	require.Len(t, names, 10)
	assert.Equal(t, "CONVOCATORIA", names[0])
	assert.Equal(t, "CONDICIONES_GENERALES", names[len(names)-1])
}

func validDefinition() types.TaxonomyDefinition {
	return types.TaxonomyDefinition{
		Version: "test/1",
		Sections: []types.TaxonomyEntry{
			{Name: "A", Priority: 1, Keywords: []string{"alfa"}, ContextWords: []string{"uno"}, StructureCues: []string{"primero de todo"}},
			{Name: "B", Priority: 2, Keywords: []string{"beta"}, ContextWords: []string{"dos"}, StructureCues: []string{"segundo de todo"}},
		},
		Ordinals: []types.OrdinalRule{
			{Position: 1, Default: "A", Candidates: []types.OrdinalCandidate{{Section: "B", Keywords: []string{"Beta"}}}},
		},
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *types.TaxonomyDefinition)
		errMsg string
	}{
		{"missing version", func(d *types.TaxonomyDefinition) { d.Version = "" }, "version is required"},
		{"no sections", func(d *types.TaxonomyDefinition) { d.Sections = nil }, "no sections"},
		{"empty name", func(d *types.TaxonomyDefinition) { d.Sections[0].Name = " " }, "has no name"},
		{"reserved name", func(d *types.TaxonomyDefinition) { d.Sections[0].Name = "GENERAL" }, "reserved"},
		{"duplicate name", func(d *types.TaxonomyDefinition) { d.Sections[1].Name = "A" }, "duplicate section"},
		{"no keywords", func(d *types.TaxonomyDefinition) { d.Sections[0].Keywords = []string{" "} }, "no keywords"},
		{"no context words", func(d *types.TaxonomyDefinition) { d.Sections[0].ContextWords = nil }, "no context_words"},
		{"no structure cues", func(d *types.TaxonomyDefinition) { d.Sections[1].StructureCues = nil }, "no structure_cues"},
		{"bad position", func(d *types.TaxonomyDefinition) { d.Ordinals[0].Position = 0 }, "must be >= 1"},
		{"unknown default", func(d *types.TaxonomyDefinition) { d.Ordinals[0].Default = "Z" }, "default \"Z\""},
		{"unknown candidate", func(d *types.TaxonomyDefinition) { d.Ordinals[0].Candidates[0].Section = "Z" }, "candidate \"Z\""},
		{"duplicate position", func(d *types.TaxonomyDefinition) {
			d.Ordinals = append(d.Ordinals, types.OrdinalRule{Position: 1, Default: "B"})
		}, "duplicate ordinal position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(&def)
			_, err := New(def)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewCompilesOrdinalKeywords(t *testing.T) {
	table, err := New(validDefinition())
	require.NoError(t, err)

	rule, ok := table.Ordinal(1)
	require.True(t, ok)
	assert.Equal(t, []string{"beta"}, rule.Candidates[0].Keywords)
	assert.NotEmpty(t, table.HeaderVocabulary(), "missing vocabulary falls back to the built-in set")
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := Parse([]byte(`
version: contracts/2
sections:
  - name: PARTES
    priority: 1
    keywords: [partes, comparecientes]
    context_words: [representante]
    structure_cues: [comparecen a la celebración]
`))
		require.NoError(t, err)
		assert.Equal(t, "contracts/2", table.Version())
		assert.True(t, table.Known("PARTES"))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("version: x\nsection: []\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTaxonomy)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := Parse([]byte("{{{"))
		assert.ErrorIs(t, err, ErrInvalidTaxonomy)
	})
}

func TestDefaultDefinitionIsCopy(t *testing.T) {
	a := DefaultDefinition()
	a[0] = 'X'
	b := DefaultDefinition()
	assert.NotEqual(t, a[0], b[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tender.yaml")
	require.NoError(t, os.WriteFile(path, DefaultDefinition(), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tender-ec/1", table.Version())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: x\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidTaxonomy)
}

func TestNewTrimsOrdinalSectionNames(t *testing.T) {
	def := validDefinition()
	def.Ordinals[0].Default = " A "
	def.Ordinals[0].Candidates[0].Section = "B\t"

	table, err := New(def)
	require.NoError(t, err)

	rule, ok := table.Ordinal(1)
	require.True(t, ok)
	assert.Equal(t, "A", rule.Default)
	assert.Equal(t, "B", rule.Candidates[0].Section)
}

func TestDefinitionIsCopy(t *testing.T) {
	def := validDefinition()
	table, err := New(def)
	require.NoError(t, err)

	def.Sections[0].Keywords[0] = "cambiado"

	got := table.Definition()
	assert.Equal(t, "alfa", got.Sections[0].Keywords[0])
	got.Sections[0].Keywords[0] = "otro"
	got.Ordinals[0].Candidates[0].Keywords[0] = "otro"
	got.Version = "otra/9"

	again := table.Definition()
	assert.Equal(t, validDefinition(), again)
	assert.Equal(t, "test/1", table.Version())
}
