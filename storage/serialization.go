// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/evisearch/core"
)

// Content variants are encoded as a one-byte tag followed by the
// variant payload. Tags are part of the storage format, never reorder.
const (
	tagText  = 1
	tagTable = 2
	tagImage = 3
)

// Row pairs an evidence item with its embedding vector. Rows are the
// unit of snapshot persistence, keyed by corpus position.
type Row struct {
	Item   *core.EvidenceItem
	Vector []float32
}

// Serializers below are hand-written in MUS format. Field order is
// part of the storage format, never reorder.

var (
	ContentMUS      = contentSer{}
	EvidenceItemMUS = evidenceItemSer{}
	VectorMUS       = vectorSer{}
	RowMUS          = rowSer{}
	MetaMUS         = metaSer{}
)

type stringSliceSer struct{}

func (stringSliceSer) Marshal(v []string, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return
}

func (stringSliceSer) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	v = make([]string, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (stringSliceSer) Size(v []string) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return
}

var stringSliceMUS = stringSliceSer{}

type contentSer struct{}

func (contentSer) Marshal(v core.Content, bs []byte) (n int) {
	switch c := v.(type) {
	case core.TextContent:
		n = varint.PositiveInt.Marshal(tagText, bs)
		n += ord.String.Marshal(c.Text, bs[n:])
	case core.TableContent:
		n = varint.PositiveInt.Marshal(tagTable, bs)
		n += stringSliceMUS.Marshal(c.Headers, bs[n:])
		n += varint.PositiveInt.Marshal(len(c.Rows), bs[n:])
		for _, row := range c.Rows {
			n += stringSliceMUS.Marshal(row, bs[n:])
		}
	case core.ImageRef:
		n = varint.PositiveInt.Marshal(tagImage, bs)
		n += ord.String.Marshal(c.Path, bs[n:])
	}
	return
}

func (contentSer) Unmarshal(bs []byte) (v core.Content, n int, err error) {
	tag, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	switch tag {
	case tagText:
		var text string
		var n1 int
		text, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		v = core.TextContent{Text: text}
	case tagTable:
		var table core.TableContent
		var n1 int
		table.Headers, n1, err = stringSliceMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		var count int
		count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		table.Rows = make([][]string, count)
		for i := 0; i < count; i++ {
			table.Rows[i], n1, err = stringSliceMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
		v = table
	case tagImage:
		var path string
		var n1 int
		path, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		v = core.ImageRef{Path: path}
	default:
		err = fmt.Errorf("%w: unknown content tag %d", ErrCorruptSnapshot, tag)
	}
	return
}

func (contentSer) Size(v core.Content) (size int) {
	switch c := v.(type) {
	case core.TextContent:
		size = varint.PositiveInt.Size(tagText)
		size += ord.String.Size(c.Text)
	case core.TableContent:
		size = varint.PositiveInt.Size(tagTable)
		size += stringSliceMUS.Size(c.Headers)
		size += varint.PositiveInt.Size(len(c.Rows))
		for _, row := range c.Rows {
			size += stringSliceMUS.Size(row)
		}
	case core.ImageRef:
		size = varint.PositiveInt.Size(tagImage)
		size += ord.String.Size(c.Path)
	}
	return
}

type evidenceItemSer struct{}

func (evidenceItemSer) Marshal(v core.EvidenceItem, bs []byte) (n int) {
	n = ord.String.Marshal(string(v.Id), bs)
	n += varint.Int.Marshal(int(v.Category), bs[n:])
	n += ord.String.Marshal(v.SourceDocument, bs[n:])
	n += varint.Int.Marshal(v.PageNumber, bs[n:])
	n += ord.String.Marshal(v.Label, bs[n:])
	n += ContentMUS.Marshal(v.Content, bs[n:])
	return
}

func (evidenceItemSer) Unmarshal(bs []byte) (v core.EvidenceItem, n int, err error) {
	var n1 int
	var id string
	id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = core.ID(id)
	var category int
	category, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category = core.Category(category)
	v.SourceDocument, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Label, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ContentMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (evidenceItemSer) Size(v core.EvidenceItem) (size int) {
	size = ord.String.Size(string(v.Id))
	size += varint.Int.Size(int(v.Category))
	size += ord.String.Size(v.SourceDocument)
	size += varint.Int.Size(v.PageNumber)
	size += ord.String.Size(v.Label)
	size += ContentMUS.Size(v.Content)
	return
}

type vectorSer struct{}

func (vectorSer) Marshal(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, x := range v {
		n += raw.Float32.Marshal(x, bs[n:])
	}
	return
}

func (vectorSer) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorSer) Size(v []float32) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, x := range v {
		size += raw.Float32.Size(x)
	}
	return
}

type rowSer struct{}

func (rowSer) Marshal(v Row, bs []byte) (n int) {
	n = EvidenceItemMUS.Marshal(*v.Item, bs)
	n += VectorMUS.Marshal(v.Vector, bs[n:])
	return
}

func (rowSer) Unmarshal(bs []byte) (v Row, n int, err error) {
	var item core.EvidenceItem
	item, n, err = EvidenceItemMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Item = &item
	var n1 int
	v.Vector, n1, err = VectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (rowSer) Size(v Row) (size int) {
	size = EvidenceItemMUS.Size(*v.Item)
	size += VectorMUS.Size(v.Vector)
	return
}

type metaSer struct{}

func (metaSer) Marshal(v SnapshotMeta, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(v.Count, bs)
	n += varint.PositiveInt.Marshal(v.Dimension, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	// Weights are written in ascending category order so equal metadata
	// always encodes to identical bytes.
	categories := make([]int, 0, len(v.Weights))
	for category := range v.Weights {
		categories = append(categories, int(category))
	}
	sort.Ints(categories)
	n += varint.PositiveInt.Marshal(len(categories), bs[n:])
	for _, category := range categories {
		n += varint.Int.Marshal(category, bs[n:])
		n += raw.Float32.Marshal(v.Weights[core.Category(category)], bs[n:])
	}
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	return
}

func (metaSer) Unmarshal(bs []byte) (v SnapshotMeta, n int, err error) {
	var n1 int
	v.Count, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Dimension, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Weights = make(core.TypeWeights, count)
	for i := 0; i < count; i++ {
		var category int
		category, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		var weight float32
		weight, n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Weights[core.Category(category)] = weight
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (metaSer) Size(v SnapshotMeta) (size int) {
	size = varint.PositiveInt.Size(v.Count)
	size += varint.PositiveInt.Size(v.Dimension)
	size += ord.String.Size(v.Model)
	size += varint.PositiveInt.Size(len(v.Weights))
	for category, weight := range v.Weights {
		size += varint.Int.Size(int(category))
		size += raw.Float32.Size(weight)
	}
	size += varint.Int64.Size(v.CreatedAt.UnixMicro())
	return
}

// MarshalRow serializes a row to bytes.
func MarshalRow(row Row) []byte {
	buf := make([]byte, RowMUS.Size(row))
	RowMUS.Marshal(row, buf)
	return buf
}

// UnmarshalRow deserializes a row from bytes.
func UnmarshalRow(data []byte) (Row, error) {
	row, _, err := RowMUS.Unmarshal(data)
	if err != nil {
		return Row{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return row, nil
}

// MarshalMeta serializes snapshot metadata to bytes.
func MarshalMeta(meta *SnapshotMeta) []byte {
	buf := make([]byte, MetaMUS.Size(*meta))
	MetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalMeta deserializes snapshot metadata from bytes.
func UnmarshalMeta(data []byte) (*SnapshotMeta, error) {
	meta, _, err := MetaMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}
