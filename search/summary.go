package search

import "github.com/poiesic/evisearch/core"

// Summary aggregates a ranked result set for display and logging.
type Summary struct {
	Total      int
	ByCategory map[core.Category]int
	TopSources []string
	BestScore  float32
	WorstScore float32
	MeanScore  float32
}

// Summarize describes a ranked result set. topN bounds how many distinct
// source documents are reported, in rank order.
func Summarize(results []*core.RankedEvidence, topN int) *Summary {
	summary := &Summary{
		ByCategory: make(map[core.Category]int),
	}
	if len(results) == 0 {
		return summary
	}

	summary.Total = len(results)
	summary.BestScore = results[0].SimilarityScore
	summary.WorstScore = results[len(results)-1].SimilarityScore

	seen := make(map[string]bool)
	var sum float32
	for _, result := range results {
		sum += result.SimilarityScore
		summary.ByCategory[result.Item.Category]++
		source := result.Item.SourceDocument
		if source == "" || seen[source] {
			continue
		}
		if len(summary.TopSources) < topN {
			summary.TopSources = append(summary.TopSources, source)
			seen[source] = true
		}
	}
	summary.MeanScore = sum / float32(len(results))
	return summary
}

// FilterByCategory keeps only results in the given category, preserving
// rank order but not rank numbers.
func FilterByCategory(results []*core.RankedEvidence, category core.Category) []*core.RankedEvidence {
	var filtered []*core.RankedEvidence
	for _, result := range results {
		if result.Item.Category == category {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
