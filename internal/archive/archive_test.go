package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type capturingBlobStore struct {
	path        string
	contentType string
	data        []byte
}

func (c *capturingBlobStore) PutObject(_ context.Context, path, contentType string, r io.Reader) (string, error) {
	c.path = path
	c.contentType = contentType
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	c.data = data
	return "mem://" + path, nil
}

func TestArchivePageKeysBySourceDayAndHash(t *testing.T) {
	t.Parallel()

	blobs := &capturingBlobStore{}
	archiver := New(blobs)
	fetchedAt := time.Date(2026, 2, 14, 11, 30, 0, 0, time.UTC)

	uri, err := archiver.ArchivePage(context.Background(), "comissao_01", fetchedAt, []byte("<html>ok</html>"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "mem://comissao_01/2026/02/14/"))
	require.True(t, strings.HasSuffix(blobs.path, ".html"))
	require.Equal(t, "text/html; charset=utf-8", blobs.contentType)
	require.Equal(t, []byte("<html>ok</html>"), blobs.data)

	// Same body on the same day maps to the same object.
	again, err := archiver.ArchivePage(context.Background(), "comissao_01", fetchedAt.Add(2*time.Hour), []byte("<html>ok</html>"))
	require.NoError(t, err)
	require.Equal(t, uri, again)
}

func TestNilArchiverIsNoOp(t *testing.T) {
	t.Parallel()

	var archiver *Archiver
	uri, err := archiver.ArchivePage(context.Background(), "geral_sumulas", time.Now(), []byte("x"))
	require.NoError(t, err)
	require.Empty(t, uri)
	require.Nil(t, New(nil))
}

func TestLocalBlobStoreWritesUnderBase(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	blobs, err := NewLocal(base)
	require.NoError(t, err)

	uri, err := blobs.PutObject(context.Background(), "src/2026/02/14/abc.html", "text/html", strings.NewReader("body"))
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.Join(base, "src/2026/02/14/abc.html"), uri)

	data, err := os.ReadFile(filepath.Join(base, "src/2026/02/14/abc.html"))
	require.NoError(t, err)
	require.Equal(t, "body", string(data))
}

func TestLocalBlobStoreRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	blobs, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = blobs.PutObject(context.Background(), "../outside.html", "", strings.NewReader("x"))
	require.Error(t, err)
}
