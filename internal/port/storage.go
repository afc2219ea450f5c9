package port

import (
	"context"
	"io"
)

// UploadInput describes an uploaded source document to keep in object
// storage.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput is where the source document ended up.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage keeps the original files behind extracted documents so the
// preview can be served again after the upload.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
