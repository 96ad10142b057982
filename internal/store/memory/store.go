// Package memory provides an in-memory document store for dry runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/radarlegislativo/ingest/internal/document"
)

// Store keeps documents in a map keyed by URL.
type Store struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{docs: make(map[string]document.Document)}
}

// Insert stores a document, enforcing URL uniqueness.
func (s *Store) Insert(_ context.Context, doc *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.URL]; ok {
		return document.ErrAlreadyExists
	}
	s.docs[doc.URL] = *doc
	return nil
}

// FindByURL returns the stored document or (nil, nil) when absent.
func (s *Store) FindByURL(_ context.Context, url string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[url]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// List returns documents matching the filters, newest publication first.
func (s *Store) List(_ context.Context, f document.ListFilters) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []document.Document
	for _, doc := range s.docs {
		if matches(doc, f) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].PublishedAt.Equal(docs[j].PublishedAt) {
			return docs[i].PublishedAt.After(docs[j].PublishedAt)
		}
		return docs[i].URL < docs[j].URL
	})
	if f.Limit > 0 && len(docs) > f.Limit {
		docs = docs[:f.Limit]
	}
	return docs, nil
}

// Count returns the number of documents matching the filters.
func (s *Store) Count(_ context.Context, f document.ListFilters) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, doc := range s.docs {
		if matches(doc, f) {
			count++
		}
	}
	return count, nil
}

// ListUnnotified returns up to limit documents pending notification, oldest
// insertion first.
func (s *Store) ListUnnotified(_ context.Context, limit int) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []document.Document
	for _, doc := range s.docs {
		if !doc.Notified {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].URL < docs[j].URL
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// MarkNotified flips the notification flag for the given URLs.
func (s *Store) MarkNotified(_ context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, url := range urls {
		if doc, ok := s.docs[url]; ok {
			doc.Notified = true
			s.docs[url] = doc
		}
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func matches(doc document.Document, f document.ListFilters) bool {
	if f.Channel != "" && doc.Channel != f.Channel {
		return false
	}
	if f.Topic != "" && doc.Topic != f.Topic {
		return false
	}
	if f.ContentKind != "" && doc.ContentKind != f.ContentKind {
		return false
	}
	if f.Source != "" && doc.Source != f.Source {
		return false
	}
	if !f.Since.IsZero() && doc.PublishedAt.Before(f.Since) {
		return false
	}
	return true
}
