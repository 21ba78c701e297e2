package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

var prefixRegex = regexp.MustCompile("^[a-f0-9]{8,64}$")

// ResolveUseCase is the read path: short-link resolution, presigned
// downloads, recent listings, and search.
type ResolveUseCase struct {
	metadata    repository.MetadataRepository
	store       repository.ObjectStore
	presignTTL  time.Duration
	recentLimit int
}

// NewResolveUseCase creates the read path with the given presign TTL and
// listing cap.
func NewResolveUseCase(metadata repository.MetadataRepository, store repository.ObjectStore, presignTTL time.Duration, recentLimit int) *ResolveUseCase {
	return &ResolveUseCase{
		metadata:    metadata,
		store:       store,
		presignTTL:  presignTTL,
		recentLimit: recentLimit,
	}
}

// Resolve maps a fingerprint prefix to zero, one, or many records.
// Prefixes shorter than eight characters are rejected before any store
// query. A single match has its download counter bumped; an ambiguous set
// is returned newest first with no counter changes.
func (r *ResolveUseCase) Resolve(ctx context.Context, prefix string) (*entities.Resolution, error) {
	if len(prefix) < entities.ShortLinkLength {
		return nil, entities.NewValidationError("prefix must be at least %d characters", entities.ShortLinkLength)
	}
	if !prefixRegex.MatchString(prefix) {
		return nil, entities.NewValidationError("prefix must be lowercase hex")
	}

	records, err := r.metadata.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, &entities.PersistenceError{Op: "prefix lookup", Err: err}
	}

	switch len(records) {
	case 0:
		return nil, repository.ErrRecordNotFound
	case 1:
		record := records[0]
		// The counter is advisory telemetry; a failed bump must not fail
		// the resolution.
		if err := r.metadata.IncrementDownloadCount(ctx, record.Fingerprint); err != nil {
			log.Printf("Download count bump failed for %s: %v", record.Fingerprint[:entities.ShortLinkLength], err)
		} else {
			record.DownloadCount++
		}
		return &entities.Resolution{Record: record}, nil
	default:
		return &entities.Resolution{Matches: records}, nil
	}
}

// DownloadURL returns a time-limited URL for the object identified by a
// full fingerprint or an unambiguous prefix. When the bucket is publicly
// readable the stored static URL is returned instead of a presigned one.
func (r *ResolveUseCase) DownloadURL(ctx context.Context, ref string) (string, time.Duration, error) {
	if len(ref) < entities.ShortLinkLength || !prefixRegex.MatchString(ref) {
		return "", 0, entities.NewValidationError("reference must be %d to 64 lowercase hex characters", entities.ShortLinkLength)
	}

	records, err := r.metadata.FindByPrefix(ctx, ref)
	if err != nil {
		return "", 0, &entities.PersistenceError{Op: "prefix lookup", Err: err}
	}
	if len(records) == 0 {
		return "", 0, repository.ErrRecordNotFound
	}
	if len(records) > 1 {
		return "", 0, entities.NewValidationError("prefix %q is ambiguous, use a longer prefix", ref)
	}

	record := records[0]
	if record.PublicURL != "" {
		return record.PublicURL, 0, nil
	}

	url, err := r.store.PresignGet(record.StorageKey, r.presignTTL)
	if err != nil {
		return "", 0, fmt.Errorf("presign %s: %w", record.StorageKey, err)
	}
	return url, r.presignTTL, nil
}

// Recent lists the newest records. A non-positive or oversized limit falls
// back to the configured cap.
func (r *ResolveUseCase) Recent(ctx context.Context, limit int) ([]*entities.FileRecord, error) {
	if limit <= 0 || limit > r.recentLimit {
		limit = r.recentLimit
	}
	records, err := r.metadata.ListRecent(ctx, limit)
	if err != nil {
		return nil, &entities.PersistenceError{Op: "list recent", Err: err}
	}
	return records, nil
}

// Search finds records by filename or fingerprint substring, newest first.
func (r *ResolveUseCase) Search(ctx context.Context, query string) ([]*entities.FileRecord, error) {
	if query == "" {
		return nil, entities.NewValidationError("search query is empty")
	}
	records, err := r.metadata.Search(ctx, query, r.recentLimit)
	if err != nil {
		return nil, &entities.PersistenceError{Op: "search", Err: err}
	}
	return records, nil
}
