package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domain "github.com/rooklite/rook/internal/domain/analysis"
)

// File is something the user picked. MIMEType may be empty, in which case it
// is guessed from the extension and then from the content.
type File struct {
	Name     string
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

func FromPath(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func FromBytes(name, mimeType string, data []byte) File {
	return File{
		Name:     name,
		MIMEType: mimeType,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Encoder turns files into data-URI media items. Size and type are not
// checked; whatever the service rejects surfaces as its error.
type Encoder struct {
	// Concurrency bounds parallel reads in EncodeAll. Zero means unbounded.
	Concurrency int
	NewID       func() string
}

func NewEncoder(concurrency int) *Encoder {
	return &Encoder{Concurrency: concurrency, NewID: uuid.NewString}
}

func (e *Encoder) Encode(ctx context.Context, f File) (domain.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.MediaItem{}, err
	}
	rc, err := f.Open()
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	mimeType := detectMIME(f, data)
	return domain.MediaItem{
		ID:   e.newID(),
		Kind: domain.KindForMIME(mimeType),
		Data: domain.EncodeDataURI(mimeType, data),
	}, nil
}

// EncodeAll encodes files concurrently. sink is called once per successful
// item in completion order, never concurrently with itself, so it can append
// to shared state. A failed file does not stop the others; the first error
// is returned after all have finished.
func (e *Encoder) EncodeAll(ctx context.Context, files []File, sink func(domain.MediaItem)) error {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for _, f := range files {
		g.Go(func() error {
			item, err := e.Encode(ctx, f)
			if err != nil {
				return err
			}
			mu.Lock()
			sink(item)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// Remove filters id out of items. Unknown ids leave the sequence unchanged.
func Remove(items []domain.MediaItem, id string) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, m := range items {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func (e *Encoder) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

func detectMIME(f File, data []byte) string {
	if f.MIMEType != "" && f.MIMEType != "application/octet-stream" {
		return f.MIMEType
	}
	if t := mime.TypeByExtension(filepath.Ext(f.Name)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
