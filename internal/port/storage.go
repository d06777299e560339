package port

import (
	"context"
	"io"
)

// UploadInput describes one raw result document to store.
type UploadInput struct {
	Bucket    string
	Key       string
	Body      io.Reader
	MediaType string
	Size      int64
	// Fingerprint is stored as object metadata so the blob can be matched to
	// its sheet without the database.
	Fingerprint string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage holds the raw bytes of uploaded result sheets. Download reports
// a missing object with domain.ErrNotFound.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
