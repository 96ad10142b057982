// Package extract turns fetched HTML into raw records by running a source's
// selector chain. Strategies are tried in order and the first one that
// yields at least one structural match is committed to; later strategies are
// skipped so partial matches from incompatible page layouts never mix.
package extract

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/source"
)

const (
	// minTitleLength filters UI chrome and menu links that are not real
	// documents.
	minTitleLength = 10
	// defaultMaxRecords bounds memory and downstream write volume per
	// source.
	defaultMaxRecords = 30
)

// Result is what extraction produced for one page. Strategy is empty when no
// chain entry matched, which is a valid steady state (no current listings),
// distinct from a fetch failure.
type Result struct {
	Records  []document.RawRecord
	Strategy string
}

// Extract runs src's selector chain over the page body. The returned error
// is only non-nil when the body is not parseable HTML at all.
func Extract(body []byte, src source.Source) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	limit := src.MaxRecords
	if limit <= 0 {
		limit = defaultMaxRecords
	}

	for i, strat := range src.Chain {
		candidates := runStrategy(doc, strat)
		if len(candidates) == 0 {
			continue
		}
		return Result{
			Records:  filterAndCap(candidates, limit),
			Strategy: fmt.Sprintf("%s[%d]", strat.Kind, i),
		}, nil
	}
	return Result{}, nil
}

func runStrategy(doc *goquery.Document, strat source.Strategy) []document.RawRecord {
	switch strat.Kind {
	case source.KindLinkList:
		return extractLinkList(doc, strat)
	case source.KindCalendarRows:
		return extractCalendarRows(doc, strat)
	case source.KindTableRows:
		return extractTableRows(doc, strat)
	case source.KindCommitteeSections:
		return extractCommitteeSections(doc)
	default:
		return nil
	}
}

// filterAndCap drops records without a usable title or link and stops at the
// per-source cap.
func filterAndCap(records []document.RawRecord, limit int) []document.RawRecord {
	out := make([]document.RawRecord, 0, len(records))
	for _, rec := range records {
		if len([]rune(rec.Title)) < minTitleLength || rec.Link == "" {
			continue
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}
