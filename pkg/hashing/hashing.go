package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// windowSize is the read window used while streaming a payload through the
// digest. The whole stream is never held in memory.
const windowSize = 64 * 1024

// Fingerprint streams r through SHA-256 in fixed-size windows and returns
// the digest as lowercase hex. The reader is rewound to its start before
// and after hashing, so the caller can do a full second read of the same
// bytes. Read errors from r are propagated unmasked.
func Fingerprint(r io.ReadSeeker) (string, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek to start: %w", err)
	}

	hasher := sha256.New()
	buf := make([]byte, windowSize)
	if _, err := io.CopyBuffer(hasher, r, buf); err != nil {
		return "", err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind after hashing: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
