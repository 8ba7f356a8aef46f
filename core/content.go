package core

import (
	"fmt"
	"strings"
)

// maxTableDump bounds the flattened row dump included in embedding text.
const maxTableDump = 500

// ContentType identifies the shape of an evidence item's payload.
type ContentType int

const (
	// ContentTypeText is plain prose.
	ContentTypeText ContentType = iota + 1
	// ContentTypeTable is structured table data.
	ContentTypeTable
	// ContentTypeImage is a reference to an image file.
	ContentTypeImage
)

// String returns the content type's snapshot label.
func (t ContentType) String() string {
	switch t {
	case ContentTypeText:
		return "text"
	case ContentTypeTable:
		return "table"
	case ContentTypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// Content is the payload of an evidence item. Exactly three shapes exist:
// TextContent, TableContent and ImageRef.
type Content interface {
	// ContentType reports which variant this is.
	ContentType() ContentType

	// embedText renders the payload's contribution to the embedding text.
	embedText() string
}

// TextContent is a prose payload.
type TextContent struct {
	Text string
}

// ContentType implements Content.
func (TextContent) ContentType() ContentType { return ContentTypeText }

func (c TextContent) embedText() string { return c.Text }

// TableContent is a structured table payload.
type TableContent struct {
	Headers []string
	Rows    [][]string
}

// ContentType implements Content.
func (TableContent) ContentType() ContentType { return ContentTypeTable }

func (c TableContent) embedText() string {
	var sb strings.Builder
	sb.WriteString("Table with headers: ")
	sb.WriteString(strings.Join(c.Headers, ", "))
	sb.WriteString(". Data: ")
	dump := fmt.Sprintf("%v", c.Rows)
	if len(dump) > maxTableDump {
		dump = dump[:maxTableDump]
	}
	sb.WriteString(dump)
	return sb.String()
}

// ImageRef is a reference to an image file extracted from a source document.
// The image bytes themselves are not held in the corpus.
type ImageRef struct {
	Path string
}

// ContentType implements Content.
func (ImageRef) ContentType() ContentType { return ContentTypeImage }

// Images contribute no payload text; their label, category and source
// carry the embedding signal.
func (ImageRef) embedText() string { return "" }
