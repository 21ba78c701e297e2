package repository

import (
	"context"
	"io"
	"time"
)

// CompletedPart identifies one uploaded part of a multipart transfer. Parts
// are numbered from 1 and must be listed in increasing order on completion.
type CompletedPart struct {
	PartNumber int64
	ETag       string
}

// ObjectStore is the narrow interface over the S3-compatible backing store.
// Once a part is acknowledged it is durable; CompleteMultipart is atomic
// from the caller's perspective.
type ObjectStore interface {
	// PutObject performs a single-shot, all-or-nothing write.
	PutObject(ctx context.Context, key string, body io.ReadSeeker, contentType string) error

	// BeginMultipart starts a multipart session and returns its upload ID.
	BeginMultipart(ctx context.Context, key, contentType string) (string, error)

	// UploadPart sends one part and returns its ETag.
	UploadPart(ctx context.Context, uploadID, key string, partNumber int64, body io.ReadSeeker) (string, error)

	// CompleteMultipart assembles the uploaded parts into the final object.
	CompleteMultipart(ctx context.Context, uploadID, key string, parts []CompletedPart) error

	// AbortMultipart discards an in-progress session. Best effort: callers
	// log failures but never escalate them.
	AbortMultipart(ctx context.Context, uploadID, key string) error

	// PresignGet issues a temporary download URL for a stored object.
	PresignGet(key string, ttl time.Duration) (string, error)

	// Ping verifies the bucket is reachable. Used by health checks.
	Ping(ctx context.Context) error
}
