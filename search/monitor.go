package search

import (
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/corpus"
)

// SearchMonitor receives callbacks as a multi-query search progresses.
// Implementations must be safe for concurrent use, QuerySearched and
// QueryFailed are called from worker goroutines.
type SearchMonitor interface {
	// Start is called once with the full query batch.
	Start(queries []string)

	// QuerySearched is called after a query variant has been embedded
	// and matched against the corpus.
	QuerySearched(query string, hits []corpus.Hit)

	// QueryFailed is called when a query variant could not be searched.
	// The remaining variants still run.
	QueryFailed(query string, err error)

	// AfterMerge is called with the number of distinct evidence items
	// that survived merging and thresholding.
	AfterMerge(candidates int)

	// Finish is called once with the final ranked results.
	Finish(results []*core.RankedEvidence)
}

type noopMonitor struct{}

func (noopMonitor) Start([]string) {}

func (noopMonitor) QuerySearched(string, []corpus.Hit) {}

func (noopMonitor) QueryFailed(string, error) {}

func (noopMonitor) AfterMerge(int) {}

func (noopMonitor) Finish([]*core.RankedEvidence) {}
