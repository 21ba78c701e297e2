package entities

import (
	"time"
)

// ShortLinkLength is the number of leading hex characters of a fingerprint
// used in public short links. Prefixes shorter than this are rejected.
const ShortLinkLength = 8

// FileRecord represents one stored object. There is exactly one record per
// distinct fingerprint; two records with the same fingerprint must not exist.
type FileRecord struct {
	Fingerprint   string    `json:"fingerprint"`
	StorageKey    string    `json:"storage_key"`
	OriginalName  string    `json:"original_name"`
	SizeBytes     int64     `json:"size_bytes"`
	ContentType   string    `json:"content_type"`
	Description   string    `json:"description,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	PublicURL     string    `json:"url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	DownloadCount int64     `json:"download_count"`
}

// ShortLink returns the short-link path for the record, e.g. "/f/3a7bd3e2".
func (f *FileRecord) ShortLink() string {
	return "/f/" + f.Fingerprint[:ShortLinkLength]
}

// UploadResult is returned by the upload pipeline.
type UploadResult struct {
	Fingerprint string
	ShortLink   string
	SizeBytes   int64
	PublicURL   string
	Deduped     bool
}

// Resolution is the outcome of a short-link lookup. Exactly one of Record
// and Matches is set: Record for a single match, Matches (newest first) when
// the prefix is ambiguous.
type Resolution struct {
	Record  *FileRecord
	Matches []*FileRecord
}

// Ambiguous reports whether the prefix matched more than one record.
func (r *Resolution) Ambiguous() bool {
	return len(r.Matches) > 0
}
