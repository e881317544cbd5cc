package media_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/application/media"
	domain "github.com/rooklite/rook/internal/domain/analysis"
)

func TestEncodeClassifiesByMIME(t *testing.T) {
	enc := media.NewEncoder(0)
	tests := []struct {
		file media.File
		kind domain.MediaKind
		mime string
	}{
		{media.FromBytes("clip.bin", "video/mp4", []byte("v")), domain.MediaVideo, "video/mp4"},
		{media.FromBytes("shot.png", "image/png", []byte("i")), domain.MediaImage, "image/png"},
		{media.FromBytes("doc", "application/pdf", []byte("%PDF")), domain.MediaImage, "application/pdf"},
		{media.FromBytes("sniffed", "", []byte("\x89PNG\r\n\x1a\n0000")), domain.MediaImage, "image/png"},
	}
	for _, tt := range tests {
		item, err := enc.Encode(context.Background(), tt.file)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, item.Kind, tt.file.Name)
		mimeType, _, err := domain.DecodeDataURI(item.Data)
		require.NoError(t, err)
		assert.Equal(t, tt.mime, mimeType)
		assert.NotEmpty(t, item.ID)
	}
}

func TestEncodeFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o600))

	item, err := media.NewEncoder(0).Encode(context.Background(), media.FromPath(path))
	require.NoError(t, err)
	mimeType, data, err := domain.DecodeDataURI(item.Data)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", mimeType)
	assert.Equal(t, []byte("GIF89a"), data)
}

func TestEncodeAllKeepsEveryCompletedItem(t *testing.T) {
	var n atomic.Int64
	enc := &media.Encoder{Concurrency: 3, NewID: func() string { return string(rune('a' + n.Add(1) - 1)) }}

	files := make([]media.File, 0, 10)
	for i := 0; i < 10; i++ {
		files = append(files, media.FromBytes("f.png", "image/png", []byte{byte(i)}))
	}
	var items []domain.MediaItem
	err := enc.EncodeAll(context.Background(), files, func(m domain.MediaItem) {
		items = append(items, m)
	})
	require.NoError(t, err)
	assert.Len(t, items, 10)

	seen := map[string]bool{}
	for _, m := range items {
		seen[m.ID] = true
	}
	assert.Len(t, seen, 10)
}

func TestEncodeAllReportsFailureButKeepsOthers(t *testing.T) {
	broken := media.File{Name: "gone.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("permission denied") }}
	files := []media.File{
		media.FromBytes("a.png", "image/png", []byte("a")),
		broken,
		media.FromBytes("b.mp4", "video/mp4", []byte("b")),
	}
	var items []domain.MediaItem
	err := media.NewEncoder(0).EncodeAll(context.Background(), files, func(m domain.MediaItem) {
		items = append(items, m)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.png")
	assert.Len(t, items, 2)
}

func TestRemove(t *testing.T) {
	items := []domain.MediaItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, []domain.MediaItem{{ID: "1"}, {ID: "3"}}, media.Remove(items, "2"))
	assert.Equal(t, items, media.Remove(items, "missing"))
	assert.Len(t, items, 3)
}
