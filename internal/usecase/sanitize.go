package usecase

import (
	"strings"
)

// placeholderName substitutes for names that sanitize to nothing.
const placeholderName = "unnamed_file"

// SanitizeFileName strips path components and every character unsafe for
// use as a storage-key fragment. Forward and backward slashes are treated
// as separators regardless of the client's platform.
func SanitizeFileName(name string) string {
	// Keep only the last path element.
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), ".")
	if sanitized == "" {
		return placeholderName
	}
	return sanitized
}
