// Package archive keeps raw copies of fetched pages so extraction bugs can be
// replayed against the original HTML.
package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// BlobStore writes one artifact and returns its URI.
type BlobStore interface {
	PutObject(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

// Archiver stores raw source pages keyed by source, day and content hash. A
// nil Archiver is valid and archives nothing.
type Archiver struct {
	blobs BlobStore
}

// New creates an Archiver over the given blob store.
func New(blobs BlobStore) *Archiver {
	if blobs == nil {
		return nil
	}
	return &Archiver{blobs: blobs}
}

// ArchivePage stores body and returns the blob URI. Re-archiving identical
// content on the same day overwrites the same object, so repeated runs do not
// pile up copies.
func (a *Archiver) ArchivePage(ctx context.Context, sourceID string, fetchedAt time.Time, body []byte) (string, error) {
	if a == nil || a.blobs == nil {
		return "", nil
	}
	sum := sha256.Sum256(body)
	path := fmt.Sprintf("%s/%s/%s.html",
		sourceID,
		fetchedAt.UTC().Format("2006/01/02"),
		hex.EncodeToString(sum[:])[:16],
	)
	uri, err := a.blobs.PutObject(ctx, path, "text/html; charset=utf-8", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("archive page for %s: %w", sourceID, err)
	}
	return uri, nil
}
