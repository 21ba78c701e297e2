package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
	"github.com/hashbeam/hashbeam/pkg/hashing"
)

// abortTimeout bounds the best-effort multipart abort that runs after a
// failure or cancellation. It uses a fresh context because the request's
// context may already be dead.
const abortTimeout = 30 * time.Second

// tagTimeout bounds the optional background tag-enrichment call.
const tagTimeout = 2 * time.Minute

// TransferTunables supplies the current multipart threshold and part size.
// config.Manager satisfies this, so reloaded values apply to new uploads.
type TransferTunables interface {
	TransferTunables() (threshold, partSize int64)
}

// Tagger is the optional enrichment collaborator that suggests descriptive
// tags for a stored file. Its failures never affect upload results.
type Tagger interface {
	SuggestTags(ctx context.Context, fileName, contentType string, sizeBytes int64) ([]string, error)
}

// UploadUseCase coordinates the content-addressed upload pipeline:
// fingerprint, idempotence gate, transfer, metadata write, and partial
// failure cleanup.
type UploadUseCase struct {
	store         repository.ObjectStore
	metadata      repository.MetadataRepository
	tunables      TransferTunables
	publicBaseURL string
	tagger        Tagger
}

// NewUploadUseCase creates the upload pipeline. tagger may be nil when tag
// enrichment is disabled.
func NewUploadUseCase(store repository.ObjectStore, metadata repository.MetadataRepository, tunables TransferTunables, publicBaseURL string, tagger Tagger) *UploadUseCase {
	return &UploadUseCase{
		store:         store,
		metadata:      metadata,
		tunables:      tunables,
		publicBaseURL: publicBaseURL,
		tagger:        tagger,
	}
}

// Upload runs the full pipeline for one inbound payload. Re-submitting
// identical content is a no-op write: the existing record's link is returned
// with Deduped set, and no bytes are re-transferred.
func (u *UploadUseCase) Upload(ctx context.Context, src io.ReadSeeker, declaredName, contentType string, sizeBytes int64, description string) (*entities.UploadResult, error) {
	if sizeBytes <= 0 {
		return nil, entities.NewValidationError("file is empty")
	}

	name := SanitizeFileName(declaredName)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fingerprint, err := hashing.Fingerprint(src)
	if err != nil {
		return nil, entities.NewValidationError("unreadable upload stream: %v", err)
	}

	// Idempotence gate: identical content already stored means we are done.
	existing, err := u.metadata.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		log.Printf("Upload deduplicated: %s (%s) -> %s", name, humanize.IBytes(uint64(sizeBytes)), existing.ShortLink())
		return dedupedResult(existing), nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, &entities.PersistenceError{Op: "lookup", Err: err}
	}

	key := StorageKey(fingerprint, name)
	threshold, partSize := u.tunables.TransferTunables()
	plan := PlanTransfer(sizeBytes, threshold, partSize)

	if plan.Multipart {
		log.Printf("Uploading %s (%s) as %d parts", key, humanize.IBytes(uint64(sizeBytes)), plan.PartCount)
		if err := u.transferMultipart(ctx, src, key, contentType, sizeBytes, plan); err != nil {
			return nil, err
		}
	} else {
		log.Printf("Uploading %s (%s) single-shot", key, humanize.IBytes(uint64(sizeBytes)))
		if err := u.store.PutObject(ctx, key, src, contentType); err != nil {
			return nil, &entities.UploadFailedError{Stage: "put object", Err: err}
		}
	}

	record := &entities.FileRecord{
		Fingerprint:  fingerprint,
		StorageKey:   key,
		OriginalName: name,
		SizeBytes:    sizeBytes,
		ContentType:  contentType,
		Description:  description,
		PublicURL:    u.publicURL(key),
		CreatedAt:    time.Now().UTC(),
	}

	if err := u.metadata.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateFingerprint) {
			// A concurrent upload of the same content won the insert race.
			// The redundant object lives under a content-derived key, so it
			// is harmless; return the winner's record.
			winner, readErr := u.metadata.GetByFingerprint(ctx, fingerprint)
			if readErr != nil {
				return nil, &entities.PersistenceError{Op: "winner re-read", Err: readErr}
			}
			return dedupedResult(winner), nil
		}
		return nil, &entities.PersistenceError{Op: "insert", Err: err}
	}

	u.enrichAsync(record)

	log.Printf("Stored %s (%s) fingerprint=%s", name, humanize.IBytes(uint64(sizeBytes)), fingerprint[:entities.ShortLinkLength])
	return &entities.UploadResult{
		Fingerprint: fingerprint,
		ShortLink:   record.ShortLink(),
		SizeBytes:   sizeBytes,
		PublicURL:   record.PublicURL,
		Deduped:     false,
	}, nil
}

// transferMultipart drives one multipart session. Parts are issued
// sequentially in increasing part number order; on any exit without a
// successful complete, the session is aborted exactly once, best effort.
func (u *UploadUseCase) transferMultipart(ctx context.Context, src io.Reader, key, contentType string, sizeBytes int64, plan TransferPlan) error {
	uploadID, err := u.store.BeginMultipart(ctx, key, contentType)
	if err != nil {
		return &entities.UploadFailedError{Stage: "begin multipart", Err: err}
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		abortCtx, cancel := context.WithTimeout(context.Background(), abortTimeout)
		defer cancel()
		if abortErr := u.store.AbortMultipart(abortCtx, uploadID, key); abortErr != nil {
			log.Printf("Abort of multipart upload %s failed: %v", uploadID, abortErr)
		}
	}()

	buf := make([]byte, plan.PartSize)
	parts := make([]repository.CompletedPart, 0, plan.PartCount)
	var sent int64

	for partNumber := int64(1); sent < sizeBytes; partNumber++ {
		if err := ctx.Err(); err != nil {
			return &entities.UploadFailedError{Stage: fmt.Sprintf("part %d", partNumber), Err: err}
		}

		n := plan.NextPartSize(sizeBytes, sent)
		chunk := buf[:n]
		if _, err := io.ReadFull(src, chunk); err != nil {
			return &entities.UploadFailedError{Stage: fmt.Sprintf("read part %d", partNumber), Err: err}
		}

		etag, err := u.store.UploadPart(ctx, uploadID, key, partNumber, bytes.NewReader(chunk))
		if err != nil {
			return &entities.UploadFailedError{Stage: fmt.Sprintf("part %d", partNumber), Err: err}
		}

		parts = append(parts, repository.CompletedPart{PartNumber: partNumber, ETag: etag})
		sent += n
		log.Printf("Uploaded part %d/%d of %s (%s/%s)", partNumber, plan.PartCount, key,
			humanize.IBytes(uint64(sent)), humanize.IBytes(uint64(sizeBytes)))
	}

	if err := u.store.CompleteMultipart(ctx, uploadID, key, parts); err != nil {
		return &entities.UploadFailedError{Stage: "complete multipart", Err: err}
	}
	completed = true
	return nil
}

// enrichAsync asks the tagger for descriptive tags in the background. The
// upload result is already final by the time this runs.
func (u *UploadUseCase) enrichAsync(record *entities.FileRecord) {
	if u.tagger == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), tagTimeout)
		defer cancel()

		tags, err := u.tagger.SuggestTags(ctx, record.OriginalName, record.ContentType, record.SizeBytes)
		if err != nil {
			log.Printf("Tag enrichment failed for %s: %v", record.Fingerprint[:entities.ShortLinkLength], err)
			return
		}
		if len(tags) == 0 {
			return
		}
		if err := u.metadata.UpdateTags(ctx, record.Fingerprint, tags); err != nil {
			log.Printf("Saving tags for %s failed: %v", record.Fingerprint[:entities.ShortLinkLength], err)
		}
	}()
}

// StorageKey derives the deterministic object-store key for a fingerprint
// and sanitized name. The derivation must stay stable: changing it would
// break every existing public URL.
func StorageKey(fingerprint, sanitizedName string) string {
	return fingerprint[:entities.ShortLinkLength] + "_" + sanitizedName
}

func (u *UploadUseCase) publicURL(key string) string {
	if u.publicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(u.publicBaseURL, "/") + "/" + key
}

func dedupedResult(record *entities.FileRecord) *entities.UploadResult {
	return &entities.UploadResult{
		Fingerprint: record.Fingerprint,
		ShortLink:   record.ShortLink(),
		SizeBytes:   record.SizeBytes,
		PublicURL:   record.PublicURL,
		Deduped:     true,
	}
}
