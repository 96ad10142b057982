// Package normalize converts raw extracted records into canonical documents:
// absolute URLs, ISO publication dates, derived summaries and tags.
package normalize

import (
	"strings"
	"time"

	"github.com/radarlegislativo/ingest/internal/clock"
	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/source"
)

const (
	minSummaryLength = 20
	maxSummaryLength = 200
)

// Meta keys a strategy may set on a raw record.
const (
	MetaContentKind = "tipo_conteudo"
	MetaEntities    = "entidades"
	MetaNumber      = "numero"
	MetaAuthors     = "autores"
	MetaStatus      = "estado"
	MetaEventTime   = "hora"
	MetaEventVenue  = "local_evento"
	MetaYear        = "ano"
	MetaDayMonth    = "dia_mes"
)

// Normalizer maps RawRecords to Documents. The clock supplies the ingestion
// date used when a record's date cannot be parsed.
type Normalizer struct {
	clk clock.Clock
}

// New creates a Normalizer.
func New(clk clock.Clock) *Normalizer {
	return &Normalizer{clk: clk}
}

// Normalize builds the canonical Document for one raw record of a source.
func (n *Normalizer) Normalize(rec document.RawRecord, src source.Source) document.Document {
	now := n.clk.Now()

	published, _ := n.publicationDate(rec, now)

	title := strings.TrimSpace(rec.Title)
	summary := deriveSummary(rec.RawSummary, title)

	doc := document.Document{
		Title:       title,
		URL:         ResolveURL(src.Base(), rec.Link),
		ContentKind: contentKind(rec, src),
		Topic:       topic(title, summary, src),
		Source:      src.ID,
		Channel:     src.Channel,
		PublishedAt: published,
		Summary:     summary,
		Entities:    entities(rec, src),
		Number:      rec.Meta[MetaNumber],
		Authors:     rec.Meta[MetaAuthors],
		Status:      rec.Meta[MetaStatus],
		EventTime:   rec.Meta[MetaEventTime],
		EventVenue:  rec.Meta[MetaEventVenue],
		CreatedAt:   now,
	}
	return doc
}

func (n *Normalizer) publicationDate(rec document.RawRecord, now time.Time) (time.Time, bool) {
	if dm, ok := rec.Meta[MetaDayMonth]; ok {
		return CombineSplitDate(dm, rec.Meta[MetaYear], now)
	}
	return ParseDate(rec.RawDate, now)
}

func deriveSummary(rawSummary, title string) string {
	s := strings.TrimSpace(rawSummary)
	if len([]rune(s)) > minSummaryLength {
		return s
	}
	return truncate(title, maxSummaryLength)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func contentKind(rec document.RawRecord, src source.Source) string {
	if hint := rec.Meta[MetaContentKind]; hint != "" {
		return hint
	}
	kind := src.ContentKind
	// The questions/requerimentos listing mixes both kinds; the type label
	// in the title decides.
	if kind == "requerimento" || kind == "pergunta" {
		if strings.Contains(strings.ToLower(rec.Title), "pergunta") {
			return "pergunta"
		}
		return "requerimento"
	}
	if kind == "" {
		kind = "geral"
	}
	return kind
}

func topic(title, summary string, src source.Source) string {
	if src.Topic != "" {
		return src.Topic
	}
	return Categorize(title, summary)
}

func entities(rec document.RawRecord, src source.Source) string {
	if e := rec.Meta[MetaEntities]; e != "" {
		return e
	}
	if src.Family == source.FamilyStakeholders {
		return src.Name
	}
	return ""
}
