package ingestion

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/evisearch/core"
)

// rawEvidence is the wire shape of one evidence entry in an extraction
// document. Content is either a plain string, a table object with
// headers and rows, or an image object with a path.
type rawEvidence struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	SourceDocument string          `json:"source_document"`
	PageNumber     int             `json:"page_number"`
	Label          string          `json:"label"`
	Content        json.RawMessage `json:"content"`
}

type rawDocument struct {
	Evidence []rawEvidence `json:"evidence"`
}

type rawStructuredContent struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Path    string     `json:"path"`
}

// LoadEvidence parses an extraction document from r. Entries without an
// explicit id get a content-derived one, so re-ingesting the same
// document yields the same ids.
func LoadEvidence(r io.Reader) ([]*core.EvidenceItem, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if len(doc.Evidence) == 0 {
		return nil, ErrNoEvidence
	}

	items := make([]*core.EvidenceItem, 0, len(doc.Evidence))
	for i, raw := range doc.Evidence {
		item, err := buildItem(raw)
		if err != nil {
			return nil, fmt.Errorf("evidence %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func buildItem(raw rawEvidence) (*core.EvidenceItem, error) {
	category := core.ParseCategory(raw.Category)

	content, err := buildContent(raw, category)
	if err != nil {
		return nil, err
	}

	item := &core.EvidenceItem{
		Id:             core.ID(raw.ID),
		Category:       category,
		SourceDocument: raw.SourceDocument,
		PageNumber:     raw.PageNumber,
		Label:          raw.Label,
		Content:        content,
	}
	if item.Id == "" {
		item.Id = core.IDFromContent(item.EmbedText())
	}

	if err := core.ValidateEvidenceItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func buildContent(raw rawEvidence, category core.Category) (core.Content, error) {
	if len(raw.Content) == 0 {
		return nil, core.ErrNilContent
	}

	var text string
	if err := json.Unmarshal(raw.Content, &text); err == nil {
		if isImage(raw.Type, category) {
			return core.ImageRef{Path: text}, nil
		}
		return core.TextContent{Text: text}, nil
	}

	var structured rawStructuredContent
	if err := json.Unmarshal(raw.Content, &structured); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if structured.Path != "" {
		return core.ImageRef{Path: structured.Path}, nil
	}
	if len(structured.Headers) > 0 || len(structured.Rows) > 0 {
		return core.TableContent{Headers: structured.Headers, Rows: structured.Rows}, nil
	}
	return nil, fmt.Errorf("%w: unrecognized content shape", ErrMalformedInput)
}

func isImage(rawType string, category core.Category) bool {
	if rawType == "image" {
		return true
	}
	return category == core.CategoryImage || category == core.CategoryExtractedImage
}
