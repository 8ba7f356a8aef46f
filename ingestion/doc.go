// Package ingestion builds evidence snapshots from extraction documents.
package ingestion
