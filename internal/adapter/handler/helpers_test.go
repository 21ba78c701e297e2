package handler_test

import (
	"time"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
)

func recordFixture(fingerprint, name string) *entities.FileRecord {
	return &entities.FileRecord{
		Fingerprint:  fingerprint,
		StorageKey:   fingerprint[:entities.ShortLinkLength] + "_" + name,
		OriginalName: name,
		SizeBytes:    11,
		ContentType:  "text/plain",
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
