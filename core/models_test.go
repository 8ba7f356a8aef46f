package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("progression-free survival")
		id2 := IDFromContent("progression-free survival")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("overall survival")
		id2 := IDFromContent("adverse events")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("hex encoded 64 bits", func(t *testing.T) {
		id := IDFromContent("anything")
		assert.Len(t, string(id), 16)
	})
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"text":            CategoryText,
		"table":           CategoryTable,
		"figure":          CategoryFigure,
		"chart":           CategoryChart,
		"image":           CategoryImage,
		"extracted_image": CategoryExtractedImage,
		"general":         CategoryGeneral,
		"  Table ":        CategoryTable,
		"EXTRACTED_IMAGE": CategoryExtractedImage,
		"":                CategoryUnknown,
		"sidebar":         CategoryUnknown,
	}
	for label, want := range cases {
		assert.Equal(t, want, ParseCategory(label), "label %q", label)
	}
}

func TestCategoryString_RoundTrip(t *testing.T) {
	for _, c := range []Category{
		CategoryText, CategoryTable, CategoryFigure, CategoryChart,
		CategoryImage, CategoryExtractedImage, CategoryGeneral,
	} {
		assert.Equal(t, c, ParseCategory(c.String()))
	}
}

func TestEvidenceItem_Type(t *testing.T) {
	t.Run("derived from content variant", func(t *testing.T) {
		assert.Equal(t, ContentTypeText,
			(&EvidenceItem{Content: TextContent{Text: "x"}}).Type())
		assert.Equal(t, ContentTypeTable,
			(&EvidenceItem{Content: TableContent{Headers: []string{"h"}}}).Type())
		assert.Equal(t, ContentTypeImage,
			(&EvidenceItem{Content: ImageRef{Path: "images/fig1.png"}}).Type())
	})

	t.Run("nil content", func(t *testing.T) {
		assert.Equal(t, ContentType(0), (&EvidenceItem{}).Type())
	})
}

func TestEvidenceItem_EmbedText(t *testing.T) {
	t.Run("text item joins all parts", func(t *testing.T) {
		item := &EvidenceItem{
			Id:             "e1",
			Category:       CategoryText,
			SourceDocument: "fresco.pdf",
			Label:          "Efficacy summary",
			Content:        TextContent{Text: "Median OS was 9.3 months."},
		}
		text := item.EmbedText()
		assert.Equal(t,
			"Median OS was 9.3 months. | Label: Efficacy summary | Type: text | Source: fresco.pdf",
			text)
	})

	t.Run("table content is flattened", func(t *testing.T) {
		item := &EvidenceItem{
			Id:       "e2",
			Category: CategoryTable,
			Content: TableContent{
				Headers: []string{"Arm", "OS"},
				Rows:    [][]string{{"fruquintinib", "9.3"}, {"placebo", "6.6"}},
			},
		}
		text := item.EmbedText()
		assert.Contains(t, text, "Table with headers: Arm, OS")
		assert.Contains(t, text, "fruquintinib")
	})

	t.Run("image contributes no payload text", func(t *testing.T) {
		item := &EvidenceItem{
			Id:       "e3",
			Category: CategoryExtractedImage,
			Label:    "Figure: Kaplan-Meier curve",
			Content:  ImageRef{Path: "images/km.png"},
		}
		text := item.EmbedText()
		assert.NotContains(t, text, "images/km.png")
		assert.Contains(t, text, "Label: Figure: Kaplan-Meier curve")
		assert.Contains(t, text, "Type: extracted_image")
	})

	t.Run("long table dump is bounded", func(t *testing.T) {
		rows := make([][]string, 200)
		for i := range rows {
			rows[i] = []string{"some", "fairly", "long", "row", "values"}
		}
		item := &EvidenceItem{
			Id:       "e4",
			Content:  TableContent{Headers: []string{"a"}, Rows: rows},
			Category: CategoryTable,
		}
		require.Less(t, len(item.EmbedText()), 700)
	})
}
