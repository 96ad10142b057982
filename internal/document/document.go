// Package document defines the canonical document model shared across the
// ingestion pipeline, plus the store and notifier contracts it depends on.
package document

import (
	"context"
	"errors"
	"time"
)

// Channel identifies which radar a document belongs to.
const (
	ChannelParliament   = "parlamento"
	ChannelStakeholders = "stakeholders"
)

// ErrAlreadyExists is returned by Store.Insert when a document with the same
// URL is already persisted. Callers treat it as a silent no-op, not a failure.
var ErrAlreadyExists = errors.New("document already exists")

// RawRecord is the untyped tuple an extraction strategy produces from a page.
// Link may still be relative; RawDate and RawSummary are free text and may be
// empty. Meta carries per-record hints (content kind, entities, event time).
type RawRecord struct {
	Title      string
	Link       string
	RawDate    string
	RawSummary string
	Meta       map[string]string
}

// Document is the persisted, normalized record. URL is the natural key; the
// store enforces uniqueness on it.
type Document struct {
	Title       string    `json:"titulo"`
	URL         string    `json:"url"`
	ContentKind string    `json:"tipo_conteudo"` // agenda, iniciativa, peticao, noticia, ...
	Topic       string    `json:"categoria"`     // committee id or thematic bucket
	Source      string    `json:"fonte"`         // source registry id
	Channel     string    `json:"tipo_radar"`    // parlamento | stakeholders
	PublishedAt time.Time `json:"data_publicacao"`
	Summary     string    `json:"resumo,omitempty"`
	Entities    string    `json:"entidades,omitempty"`
	Number      string    `json:"numero,omitempty"`
	Authors     string    `json:"autores,omitempty"`
	Status      string    `json:"estado,omitempty"`
	EventTime   string    `json:"hora,omitempty"`
	EventVenue  string    `json:"local_evento,omitempty"`
	Notified    bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// ListFilters narrows Store list and count queries.
type ListFilters struct {
	Channel     string
	Topic       string
	ContentKind string
	Source      string
	Since       time.Time
	Limit       int
}

// Store is the document persistence contract. Insert must return
// ErrAlreadyExists on a URL uniqueness violation and FindByURL must return
// (nil, nil) when no document matches.
type Store interface {
	Insert(ctx context.Context, doc *Document) error
	FindByURL(ctx context.Context, url string) (*Document, error)
	List(ctx context.Context, f ListFilters) ([]Document, error)
	Count(ctx context.Context, f ListFilters) (int, error)
	ListUnnotified(ctx context.Context, limit int) ([]Document, error)
	MarkNotified(ctx context.Context, urls []string) error
	Ping(ctx context.Context) error
	Close()
}

// Notifier delivers batches of newly ingested documents to subscribers.
// A notifier failure must never fail the ingestion run that triggered it.
type Notifier interface {
	NotifyNewDocuments(ctx context.Context, docs []Document) error
}
