package core

import "fmt"

// TypeWeights maps evidence categories to positive ranking multipliers.
// It is process-wide configuration: loaded once and read-only during search.
type TypeWeights map[Category]float32

// DefaultTypeWeights returns the standard weight table, biasing ranking
// toward visual and tabular evidence.
func DefaultTypeWeights() TypeWeights {
	return TypeWeights{
		CategoryExtractedImage: 1.5,
		CategoryImage:          1.5,
		CategoryTable:          1.3,
		CategoryFigure:         1.4,
		CategoryChart:          1.4,
		CategoryText:           1.0,
		CategoryGeneral:        1.0,
	}
}

// For returns the multiplier for an evidence item.
// Image-typed items always use the extracted_image weight regardless of
// their category label; all other items use their category's weight.
// Categories without a registered weight multiply by 1.0.
func (w TypeWeights) For(item *EvidenceItem) float32 {
	if item.Type() == ContentTypeImage {
		return w.weight(CategoryExtractedImage)
	}
	return w.weight(item.Category)
}

func (w TypeWeights) weight(c Category) float32 {
	if v, ok := w[c]; ok {
		return v
	}
	return 1.0
}

// TypeWeightsFromLabels builds a weight table from category labels, as read
// from a configuration file. Unrecognized labels and non-positive weights
// are configuration errors.
func TypeWeightsFromLabels(labels map[string]float32) (TypeWeights, error) {
	weights := make(TypeWeights, len(labels))
	for label, weight := range labels {
		category := ParseCategory(label)
		if category == CategoryUnknown {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("%w: %s = %v", ErrNonPositiveWeight, label, weight)
		}
		weights[category] = weight
	}
	return weights, nil
}
