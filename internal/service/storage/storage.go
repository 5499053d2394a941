// Package storage provides the object storage client used for video media.
package storage

import (
	"context"
	"io"
)

// ProgressFunc receives the number of bytes transferred so far and the total
// expected size (which may be zero when unknown).
type ProgressFunc func(transferred, total int64)

// ObjectStorage is the narrow surface the upload pipeline and the enrichment
// worker need from a blob store.
type ObjectStorage interface {
	// Upload streams the body to the store under the key for the given video
	// id and returns the durable URL. Progress, when non-nil, is invoked as
	// bytes move.
	Upload(ctx context.Context, videoID, ownerID string, body io.Reader, size int64, progress ProgressFunc) (string, error)

	// Fetch opens the stored object for reading. The caller closes it.
	Fetch(ctx context.Context, videoID string) (io.ReadCloser, error)

	// Key reports the object key used for a video id.
	Key(videoID string) string
}

// progressReader counts bytes as they pass through and reports them.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	progress    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.transferred += int64(n)
		pr.progress(pr.transferred, pr.total)
	}
	return n, err
}
