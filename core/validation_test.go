package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEvidenceItem(t *testing.T) {
	valid := func() *EvidenceItem {
		return &EvidenceItem{
			Id:             "e1",
			Category:       CategoryText,
			SourceDocument: "study.pdf",
			PageNumber:     3,
			Content:        TextContent{Text: "some prose"},
		}
	}

	t.Run("valid item", func(t *testing.T) {
		assert.NoError(t, ValidateEvidenceItem(valid()))
	})

	t.Run("nil item", func(t *testing.T) {
		assert.ErrorIs(t, ValidateEvidenceItem(nil), ErrInvalidEvidence)
	})

	t.Run("empty id", func(t *testing.T) {
		item := valid()
		item.Id = ""
		err := ValidateEvidenceItem(item)
		assert.ErrorIs(t, err, ErrInvalidEvidence)
		assert.ErrorIs(t, err, ErrEmptyID)
	})

	t.Run("nil content", func(t *testing.T) {
		item := valid()
		item.Content = nil
		assert.ErrorIs(t, ValidateEvidenceItem(item), ErrNilContent)
	})

	t.Run("negative page", func(t *testing.T) {
		item := valid()
		item.PageNumber = -1
		assert.ErrorIs(t, ValidateEvidenceItem(item), ErrNegativePage)
	})

	t.Run("unknown category is legal", func(t *testing.T) {
		item := valid()
		item.Category = CategoryUnknown
		assert.NoError(t, ValidateEvidenceItem(item))
	})
}

func TestValidateContent(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContent(TextContent{}), ErrEmptyText)
	})

	t.Run("table without headers", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContent(TableContent{Rows: [][]string{{"x"}}}), ErrEmptyTable)
	})

	t.Run("table without rows is legal", func(t *testing.T) {
		assert.NoError(t, ValidateContent(TableContent{Headers: []string{"h"}}))
	})

	t.Run("empty image path", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContent(ImageRef{}), ErrEmptyImagePath)
	})

	t.Run("nil content", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContent(nil), ErrNilContent)
	})
}
