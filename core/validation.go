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


package core

import "fmt"

// ValidateEvidenceItem validates an EvidenceItem according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Content must not be nil and must pass its variant's checks
//   - PageNumber must not be negative
//
// NOT validated:
//   - Category (unknown categories are legal and rank at weight 1.0)
//   - SourceDocument and Label (optional provenance)
func ValidateEvidenceItem(item *EvidenceItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidEvidence)
	}

	if item.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrEmptyID)
	}

	if item.Content == nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrNilContent)
	}

	if err := ValidateContent(item.Content); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, err)
	}

	if item.PageNumber < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrNegativePage)
	}

	return nil
}

// ValidateContent validates a content payload according to its variant.
func ValidateContent(content Content) error {
	switch c := content.(type) {
	case TextContent:
		if c.Text == "" {
			return ErrEmptyText
		}
	case TableContent:
		if len(c.Headers) == 0 {
			return ErrEmptyTable
		}
	case ImageRef:
		if c.Path == "" {
			return ErrEmptyImagePath
		}
	case nil:
		return ErrNilContent
	default:
		return fmt.Errorf("unsupported content type %T", content)
	}
	return nil
}
