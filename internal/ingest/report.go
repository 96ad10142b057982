package ingest

import (
	"time"

	"github.com/radarlegislativo/ingest/internal/fetch"
	"github.com/radarlegislativo/ingest/internal/source"
)

// SourceReport summarizes the outcome of processing one source.
type SourceReport struct {
	SourceID    string
	Family      source.Family
	FetchStatus fetch.Status
	Strategy    string
	Extracted   int
	New         int
	Duplicates  int
	Failed      int
	Err         error
}

// Run summarizes one full ingestion pass. TotalFailed counts documents whose
// insert failed with a real store error; TotalErrors counts sources that
// could not be processed at all.
type Run struct {
	ID              string
	Tier            string
	StartedAt       time.Time
	FinishedAt      time.Time
	Reports         []SourceReport
	TotalNew        int
	TotalDuplicates int
	TotalFailed     int
	TotalErrors     int
}
