package core

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for an evidence item.
// It is generated using content-based hashing during preprocessing,
// or carried over from the extraction step when already present.
type ID string

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// Category classifies an evidence item by the kind of study content it holds.
type Category int

const (
	// CategoryUnknown is the fallback for category labels that are not recognized.
	CategoryUnknown Category = iota
	// CategoryText is prose content.
	CategoryText
	// CategoryTable is structured tabular content.
	CategoryTable
	// CategoryFigure is a figure reference.
	CategoryFigure
	// CategoryChart is a chart reference.
	CategoryChart
	// CategoryImage is a generic image reference.
	CategoryImage
	// CategoryExtractedImage is an image extracted from a source document.
	CategoryExtractedImage
	// CategoryGeneral is uncategorized content.
	CategoryGeneral
)

var categoryNames = map[Category]string{
	CategoryUnknown:        "unknown",
	CategoryText:           "text",
	CategoryTable:          "table",
	CategoryFigure:         "figure",
	CategoryChart:          "chart",
	CategoryImage:          "image",
	CategoryExtractedImage: "extracted_image",
	CategoryGeneral:        "general",
}

// String returns the category's snapshot label.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory maps a category label to its Category value.
// Unrecognized labels map to CategoryUnknown rather than failing, so that
// evidence produced by a newer extraction step still ranks (at weight 1.0).
func ParseCategory(label string) Category {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "text":
		return CategoryText
	case "table":
		return CategoryTable
	case "figure":
		return CategoryFigure
	case "chart":
		return CategoryChart
	case "image":
		return CategoryImage
	case "extracted_image":
		return CategoryExtractedImage
	case "general":
		return CategoryGeneral
	default:
		return CategoryUnknown
	}
}

// EvidenceItem is one retrievable unit of clinical study content.
// Items are created once by offline preprocessing and never mutated at
// query time. Their position in the corpus's evidence list is the join
// key to the same row of the vector index.
type EvidenceItem struct {
	Id             ID
	Category       Category
	SourceDocument string
	PageNumber     int
	Label          string
	Content        Content
}

// Type returns the item's content type, derived from the content variant.
func (e *EvidenceItem) Type() ContentType {
	if e.Content == nil {
		return 0
	}
	return e.Content.ContentType()
}

// EmbedText returns the canonical text form of the item used for embedding.
// Preprocessing and reembedding must use the same form so that vectors
// stay comparable across index rebuilds.
func (e *EvidenceItem) EmbedText() string {
	parts := make([]string, 0, 4)
	if e.Content != nil {
		if text := e.Content.embedText(); text != "" {
			parts = append(parts, text)
		}
	}
	if e.Label != "" {
		parts = append(parts, "Label: "+e.Label)
	}
	if e.Category != CategoryUnknown {
		parts = append(parts, "Type: "+e.Category.String())
	}
	if e.SourceDocument != "" {
		parts = append(parts, "Source: "+e.SourceDocument)
	}
	return strings.Join(parts, " | ")
}

// RankedEvidence is an evidence item annotated with its final ranking score
// and 1-based position in the result list.
type RankedEvidence struct {
	Item            *EvidenceItem
	SimilarityScore float32
	SearchRank      int
}
