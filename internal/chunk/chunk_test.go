// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/pkg/types"
)

func testTable(t *testing.T) *taxonomy.Table {
	t.Helper()
	table, err := taxonomy.Default()
	require.NoError(t, err)
	return table
}

// requireTiling checks that chunks cover text from the first byte to the
// last, in order, with each chunk no larger than the chunk size and
// neighbours overlapping by no more than the configured overlap.
func requireTiling(t *testing.T, text string, chunks []types.Chunk, opts Options) {
	t.Helper()
	require.NotEmpty(t, chunks)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len(text), chunks[len(chunks)-1].EndPos)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, text[c.StartPos:c.EndPos], c.Content)
		assert.Less(t, c.StartPos, c.EndPos)
		assert.Equal(t, opts.SourceID, c.SourceID)
		if opts.ChunkSize > 0 {
			assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), opts.ChunkSize, "chunk %d too large", i)
		}
		if i == 0 {
			continue
		}
		prev := chunks[i-1]
		assert.Greater(t, c.StartPos, prev.StartPos, "chunk %d does not advance", i)
		require.LessOrEqual(t, c.StartPos, prev.EndPos, "gap before chunk %d", i)
		shared := utf8.RuneCountInString(text[c.StartPos:prev.EndPos])
		assert.LessOrEqual(t, shared, opts.ChunkOverlap, "chunk %d overlaps too much", i)
	}
}

func TestCarveBlankText(t *testing.T) {
	table := testTable(t)
	assert.Nil(t, Carve(table, "", nil, Options{ChunkSize: 10}))
	assert.Nil(t, Carve(table, " \n\t\n", []types.Boundary{{Position: 0, SectionType: "OBJETO"}}, Options{ChunkSize: 10}))
}

func TestCarveSections(t *testing.T) {
	table := testTable(t)
	text := "intro\n" + "uno uno\n" + "dos dos\n"
	bounds := []types.Boundary{
		{Position: 6, SectionType: "OBJETO", Confidence: 0.8, Source: types.SourceOrdinal},
		{Position: 14, SectionType: "PLAZOS", Confidence: 0.5, Source: types.SourceSemantic},
	}

	chunks := Carve(table, text, bounds, Options{SourceID: "doc-1"})
	require.Len(t, chunks, 3)

	assert.Equal(t, types.SectionGeneral, chunks[0].SectionType)
	assert.Equal(t, "intro\n", chunks[0].Content)
	assert.Zero(t, chunks[0].Confidence)

	assert.Equal(t, "OBJETO", chunks[1].SectionType)
	assert.Equal(t, 6, chunks[1].StartPos)
	assert.Equal(t, 14, chunks[1].EndPos)
	assert.InDelta(t, 0.8, chunks[1].Confidence, 1e-9)

	assert.Equal(t, "PLAZOS", chunks[2].SectionType)
	assert.Equal(t, "dos dos\n", chunks[2].Content)

	requireTiling(t, text, chunks, Options{SourceID: "doc-1"})
}

func TestCarveBlankPreambleIsAbsorbed(t *testing.T) {
	table := testTable(t)
	text := "\n \n" + "uno uno\n"
	bounds := []types.Boundary{{Position: 3, SectionType: "OBJETO", Confidence: 0.8}}

	chunks := Carve(table, text, bounds, Options{})
	require.Len(t, chunks, 1)
	assert.Equal(t, "OBJETO", chunks[0].SectionType)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len(text), chunks[0].EndPos)
}

func TestCarvePacksParagraphs(t *testing.T) {
	table := testTable(t)
	text := "aaaa\n\nbbbb\n\ncccc"

	chunks := Carve(table, text, nil, Options{ChunkSize: 12})
	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa\n\nbbbb\n\n", chunks[0].Content)
	assert.Equal(t, "cccc", chunks[1].Content)
}

func TestCarveHardSplitCountsRunes(t *testing.T) {
	table := testTable(t)
	text := strings.Repeat("ñ", 25)
	opts := Options{ChunkSize: 10, ChunkOverlap: 2}

	chunks := Carve(table, text, nil, opts)
	require.Len(t, chunks, 3)
	assert.Equal(t, [2]int{0, 20}, [2]int{chunks[0].StartPos, chunks[0].EndPos})
	assert.Equal(t, [2]int{16, 36}, [2]int{chunks[1].StartPos, chunks[1].EndPos})
	assert.Equal(t, [2]int{32, 50}, [2]int{chunks[2].StartPos, chunks[2].EndPos})
	requireTiling(t, text, chunks, opts)
}

func TestCarveWithoutApplicableSeparator(t *testing.T) {
	table := testTable(t)
	text := strings.Repeat("a", 25)

	chunks := Carve(table, text, nil, Options{ChunkSize: 10, Separators: []string{"\n"}})
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
}

func TestCarveTilesLongDocuments(t *testing.T) {
	table := testTable(t)

	para := "El contratista ejecutará la obra según el cronograma aprobado. " +
		"La fiscalización revisará cada planilla antes del pago.\n" +
		"Los trabajos se realizarán en días laborables y en horario diurno."
	text := strings.Repeat(para+"\n\n", 12) + strings.Repeat("x", 90)
	bounds := []types.Boundary{
		{Position: strings.Index(text, "Los trabajos"), SectionType: "PLAZOS", Confidence: 0.5},
		{Position: 700, SectionType: "MULTAS", Confidence: 0.6},
	}

	cases := []struct {
		name          string
		size, overlap int
	}{
		{"large", 400, 100},
		{"medium", 120, 30},
		{"small", 30, 0},
		{"tiny", 7, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{ChunkSize: tc.size, ChunkOverlap: tc.overlap, SourceID: "doc"}
			chunks := Carve(table, text, bounds, opts)
			requireTiling(t, text, chunks, opts)

			for _, c := range chunks {
				switch {
				case c.StartPos < bounds[0].Position:
					assert.Equal(t, types.SectionGeneral, c.SectionType)
				case c.StartPos < bounds[1].Position:
					assert.Equal(t, "PLAZOS", c.SectionType)
				default:
					assert.Equal(t, "MULTAS", c.SectionType)
				}
			}
		})
	}
}

func TestCarveIsDeterministic(t *testing.T) {
	table := testTable(t)
	text := strings.Repeat("Cláusula de prueba con varias palabras. ", 40)
	opts := Options{ChunkSize: 90, ChunkOverlap: 20}

	first := Carve(table, text, nil, opts)
	for range 5 {
		assert.Equal(t, first, Carve(table, text, nil, opts))
	}
}

func TestKeywordVote(t *testing.T) {
	table := testTable(t)

	cases := []struct {
		name    string
		content string
		want    string
		share   float64
		ok      bool
	}{
		{"clear majority", "El contratista entregará una póliza y una fianza como garantía.", "GARANTIAS", 1, true},
		{"single hit", "Se aplicará una multa.", "", 0, false},
		{"tie", "multa sanción póliza fianza", "", 0, false},
		{"half is not a majority", "póliza fianza multa objeto", "", 0, false},
		{"no hits", "texto sin términos relevantes", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, share, ok := KeywordVote(table, tc.content)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, name)
			assert.InDelta(t, tc.share, share, 1e-9)
		})
	}
}

func TestCarveRelabelsOnlyWithoutBoundaries(t *testing.T) {
	table := testTable(t)
	text := "El contratista entregará una póliza y una fianza como garantía."

	chunks := Carve(table, text, nil, Options{ChunkSize: 200})
	require.Len(t, chunks, 1)
	assert.Equal(t, "GARANTIAS", chunks[0].SectionType)
	assert.InDelta(t, 0.5, chunks[0].Confidence, 1e-9)

	bounded := Carve(table, text, []types.Boundary{{Position: 0, SectionType: "OBJETO", Confidence: 0.8}}, Options{ChunkSize: 200})
	require.Len(t, bounded, 1)
	assert.Equal(t, "OBJETO", bounded[0].SectionType)
	assert.InDelta(t, 0.8, bounded[0].Confidence, 1e-9)
}
