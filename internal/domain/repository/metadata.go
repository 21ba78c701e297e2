package repository

import (
	"context"
	"errors"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
)

// MetadataRepository is the narrow interface the core depends on for record
// persistence. Implementations own all storage concerns; callers never see
// driver-level errors except wrapped in the sentinels below.
type MetadataRepository interface {
	// Insert stores a new record. Returns ErrDuplicateFingerprint if a
	// record with the same fingerprint already exists.
	Insert(ctx context.Context, record *entities.FileRecord) error

	// GetByFingerprint retrieves a record by exact fingerprint. Returns
	// ErrRecordNotFound if absent.
	GetByFingerprint(ctx context.Context, fingerprint string) (*entities.FileRecord, error)

	// FindByPrefix returns all records whose fingerprint starts with prefix,
	// newest first. An empty slice means no match.
	FindByPrefix(ctx context.Context, prefix string) ([]*entities.FileRecord, error)

	// IncrementDownloadCount bumps the download counter for a fingerprint.
	// The counter is advisory; lost updates under contention are acceptable.
	IncrementDownloadCount(ctx context.Context, fingerprint string) error

	// ListRecent returns the most recently created records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entities.FileRecord, error)

	// Search returns records whose name or fingerprint contains the query,
	// newest first.
	Search(ctx context.Context, query string, limit int) ([]*entities.FileRecord, error)

	// UpdateTags attaches enrichment tags to an existing record.
	UpdateTags(ctx context.Context, fingerprint string, tags []string) error

	// Count returns the total number of records. Used by health checks.
	Count(ctx context.Context) (int64, error)

	// Ping verifies the underlying store is reachable.
	Ping(ctx context.Context) error
}

var (
	// ErrRecordNotFound is returned when no record matches a lookup.
	ErrRecordNotFound = errors.New("file record not found")

	// ErrDuplicateFingerprint is returned by Insert when the fingerprint's
	// unique constraint is violated. The upload pipeline recovers from this
	// by re-reading the winning record.
	ErrDuplicateFingerprint = errors.New("fingerprint already exists")
)
