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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvidence indicates an EvidenceItem failed validation.
	ErrInvalidEvidence = errors.New("invalid evidence item")

	// ErrEmptyID indicates the Id field is empty.
	ErrEmptyID = errors.New("evidence id cannot be empty")

	// ErrNilContent indicates the Content field is nil.
	ErrNilContent = errors.New("evidence content cannot be nil")

	// ErrEmptyText indicates a text payload with no text.
	ErrEmptyText = errors.New("text content cannot be empty")

	// ErrEmptyTable indicates a table payload with no headers.
	ErrEmptyTable = errors.New("table content must have headers")

	// ErrEmptyImagePath indicates an image payload with no file reference.
	ErrEmptyImagePath = errors.New("image reference cannot be empty")

	// ErrNegativePage indicates a negative page number.
	ErrNegativePage = errors.New("page number cannot be negative")

	// ErrUnknownCategory indicates a category label that is not recognized.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNonPositiveWeight indicates a type weight that is zero or negative.
	ErrNonPositiveWeight = errors.New("type weight must be positive")
)
