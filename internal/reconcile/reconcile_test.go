// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"testing"

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

func TestReconcile(t *testing.T) {
	table := testTable(t)

	cases := []struct {
		name string
		a, b Label
		want Label
	}{
		{
			name: "confident boundary keeps its type",
			a:    Label{"OBJETO", 0.8},
			b:    Label{"PLAZOS", 0.9},
			want: Label{"OBJETO", 0.8},
		},
		{
			name: "external signal raises a confident boundary",
			a:    Label{"OBJETO", 0.7},
			b:    Label{"OBJETO", 1.0},
			want: Label{"OBJETO", 0.8},
		},
		{
			name: "weak boundary yields to external type",
			a:    Label{"GENERAL", 0.3},
			b:    Label{"GARANTIAS", 0.9},
			want: Label{"GARANTIAS", 0.72},
		},
		{
			name: "weak boundary keeps its confidence when higher",
			a:    Label{"MULTAS", 0.6},
			b:    Label{"PLAZOS", 0.5},
			want: Label{"PLAZOS", 0.6},
		},
		{
			name: "unknown external type is ignored",
			a:    Label{"GENERAL", 0.1},
			b:    Label{"RIESGOS", 0.99},
			want: Label{"GENERAL", 0.1},
		},
		{
			name: "external GENERAL is a known type",
			a:    Label{"OBJETO", 0.2},
			b:    Label{"GENERAL", 0.5},
			want: Label{"GENERAL", 0.4},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reconcile(table, tc.a, tc.b)
			assert.Equal(t, tc.want.SectionType, got.SectionType)
			assert.InDelta(t, tc.want.Confidence, got.Confidence, 1e-9)
		})
	}
}

func sampleChunks() []types.Chunk {
	return []types.Chunk{
		{Index: 0, SectionType: "GENERAL", Confidence: 0},
		{Index: 1, SectionType: "OBJETO", Confidence: 0.8},
		{Index: 2, SectionType: "PLAZOS", Confidence: 0.4},
	}
}

func TestApplyLabels(t *testing.T) {
	table := testTable(t)
	chunks := sampleChunks()

	got := ApplyLabels(table, chunks, []types.ExternalLabel{
		{Index: 0, SectionType: "CONVOCATORIA", Confidence: 0.5},
		{Index: 1, SectionType: "MULTAS", Confidence: 0.9},
		{Index: 7, SectionType: "MULTAS", Confidence: 0.9},
	})
	require.Len(t, got, 3)

	assert.Equal(t, "CONVOCATORIA", got[0].SectionType)
	assert.InDelta(t, 0.4, got[0].Confidence, 1e-9)
	assert.Equal(t, "OBJETO", got[1].SectionType)
	assert.InDelta(t, 0.8, got[1].Confidence, 1e-9)
	assert.Equal(t, chunks[2], got[2])

	// The input is not modified.
	assert.Equal(t, sampleChunks(), chunks)
}

func TestApplyLabelsWithoutLabels(t *testing.T) {
	table := testTable(t)
	assert.Equal(t, sampleChunks(), ApplyLabels(table, sampleChunks(), nil))
}

func TestApplyLabelsIsOrderIndependent(t *testing.T) {
	table := testTable(t)
	labels := []types.ExternalLabel{
		{Index: 2, SectionType: "GARANTIAS", Confidence: 0.6},
		{Index: 2, SectionType: "MULTAS", Confidence: 0.6},
		{Index: 2, SectionType: "OBJETO", Confidence: 0.3},
		{Index: 0, SectionType: "PLAZOS", Confidence: 0.9},
	}
	reversed := make([]types.ExternalLabel, len(labels))
	for i, l := range labels {
		reversed[len(labels)-1-i] = l
	}

	forward := ApplyLabels(table, sampleChunks(), labels)
	backward := ApplyLabels(table, sampleChunks(), reversed)
	assert.Equal(t, forward, backward)
	assert.Equal(t, "GARANTIAS", forward[2].SectionType)
	assert.InDelta(t, 0.48, forward[2].Confidence, 1e-9)
	assert.Equal(t, "PLAZOS", forward[0].SectionType)
}
