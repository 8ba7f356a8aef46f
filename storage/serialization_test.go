package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/evisearch/core"
)

func TestMarshalUnmarshalRow(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{
			name: "text evidence",
			row: Row{
				Item: &core.EvidenceItem{
					Id:             core.IDFromContent("finding"),
					Category:       core.CategoryText,
					SourceDocument: "trial-report.pdf",
					PageNumber:     12,
					Label:          "Primary endpoint",
					Content:        core.TextContent{Text: "HbA1c reduced by 1.2% at week 26."},
				},
				Vector: []float32{0.1, -0.5, 0.25},
			},
		},
		{
			name: "table evidence",
			row: Row{
				Item: &core.EvidenceItem{
					Id:             core.IDFromContent("table"),
					Category:       core.CategoryTable,
					SourceDocument: "trial-report.pdf",
					PageNumber:     30,
					Label:          "Table 4",
					Content: core.TableContent{
						Headers: []string{"Arm", "N", "Events"},
						Rows:    [][]string{{"Drug", "120", "4"}, {"Placebo", "118", "11"}},
					},
				},
				Vector: []float32{1, 0, 0, 0},
			},
		},
		{
			name: "image evidence with empty vector",
			row: Row{
				Item: &core.EvidenceItem{
					Id:       core.IDFromContent("figure"),
					Category: core.CategoryExtractedImage,
					Label:    "Figure 2",
					Content:  core.ImageRef{Path: "figures/km-curve.png"},
				},
				Vector: []float32{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRow(tt.row)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRow(data)
			require.NoError(t, err)
			assert.Equal(t, *tt.row.Item, *decoded.Item)
			assert.Equal(t, tt.row.Vector, decoded.Vector)
		})
	}
}

func TestUnmarshalRow_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", MarshalRow(Row{
			Item: &core.EvidenceItem{
				Id:      "ab",
				Content: core.TextContent{Text: "hello"},
			},
			Vector: []float32{1},
		})[:3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRow(tt.data)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshalContent_UnknownTag(t *testing.T) {
	buf := make([]byte, 1)
	buf[0] = 9 << 1 // varint encoding of 9, not a valid tag

	_, _, err := ContentMUS.Unmarshal(buf)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestMarshalUnmarshalMeta(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	meta := &SnapshotMeta{
		Count:     42,
		Dimension: 3072,
		Model:     "text-embedding-3-large",
		Weights:   core.DefaultTypeWeights(),
		CreatedAt: now,
	}

	data := MarshalMeta(meta)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalMeta(data)
	require.NoError(t, err)
	assert.Equal(t, meta.Count, decoded.Count)
	assert.Equal(t, meta.Dimension, decoded.Dimension)
	assert.Equal(t, meta.Model, decoded.Model)
	assert.Equal(t, meta.Weights, decoded.Weights)
	assert.True(t, meta.CreatedAt.Equal(decoded.CreatedAt))
}

func TestMarshalMeta_Deterministic(t *testing.T) {
	now := time.Now().UTC()
	meta := &SnapshotMeta{
		Count:     3,
		Dimension: 8,
		Model:     "m",
		Weights:   core.DefaultTypeWeights(),
		CreatedAt: now,
	}

	first := MarshalMeta(meta)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalMeta(meta))
	}
}
