package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

func newTestRepo(t *testing.T) *SQLiteMetadataRepository {
	t.Helper()
	repo, err := NewSQLiteMetadataRepository(filepath.Join(t.TempDir(), "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(fingerprint string, createdAt time.Time) *entities.FileRecord {
	return &entities.FileRecord{
		Fingerprint:  fingerprint,
		StorageKey:   fingerprint[:8] + "_file.bin",
		OriginalName: "file.bin",
		SizeBytes:    2048,
		ContentType:  "application/octet-stream",
		CreatedAt:    createdAt,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fp := strings.Repeat("a1", 32)
	rec := record(fp, time.Now().UTC())
	rec.Description = "quarterly report"
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.GetByFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, rec.StorageKey, got.StorageKey)
	assert.Equal(t, rec.OriginalName, got.OriginalName)
	assert.Equal(t, rec.SizeBytes, got.SizeBytes)
	assert.Equal(t, "quarterly report", got.Description)
	assert.Equal(t, int64(0), got.DownloadCount)
}

func TestInsertDuplicateFingerprint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fp := strings.Repeat("b2", 32)
	require.NoError(t, repo.Insert(ctx, record(fp, time.Now().UTC())))

	err := repo.Insert(ctx, record(fp, time.Now().UTC()))
	assert.ErrorIs(t, err, repository.ErrDuplicateFingerprint)

	// The losing insert must not have replaced the original row.
	matches, err := repo.FindByPrefix(ctx, fp[:8])
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGetMissingRecord(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByFingerprint(context.Background(), strings.Repeat("c3", 32))
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestFindByPrefixOrdersNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	shared := "deadbeef"
	older := record(shared+strings.Repeat("0", 56), time.Now().UTC().Add(-2*time.Hour))
	newer := record(shared+strings.Repeat("1", 56), time.Now().UTC())
	other := record(strings.Repeat("f", 64), time.Now().UTC())

	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))
	require.NoError(t, repo.Insert(ctx, other))

	matches, err := repo.FindByPrefix(ctx, shared)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer.Fingerprint, matches[0].Fingerprint)
	assert.Equal(t, older.Fingerprint, matches[1].Fingerprint)
}

func TestIncrementDownloadCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fp := strings.Repeat("d4", 32)
	require.NoError(t, repo.Insert(ctx, record(fp, time.Now().UTC())))

	require.NoError(t, repo.IncrementDownloadCount(ctx, fp))
	require.NoError(t, repo.IncrementDownloadCount(ctx, fp))

	got, err := repo.GetByFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.DownloadCount)

	err = repo.IncrementDownloadCount(ctx, strings.Repeat("0", 64))
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestListRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		fp := strings.Repeat("e", 63) + string(rune('0'+i))
		require.NoError(t, repo.Insert(ctx, record(fp, base.Add(time.Duration(i)*time.Minute))))
	}

	recent, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt))
	assert.True(t, recent[1].CreatedAt.After(recent[2].CreatedAt))
}

func TestSearchByNameAndFingerprint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := record(strings.Repeat("a", 64), time.Now().UTC())
	rec.OriginalName = "holiday_photos.zip"
	require.NoError(t, repo.Insert(ctx, rec))

	byName, err := repo.Search(ctx, "holiday", 10)
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byHash, err := repo.Search(ctx, strings.Repeat("a", 16), 10)
	require.NoError(t, err)
	assert.Len(t, byHash, 1)

	none, err := repo.Search(ctx, "nomatch", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateTags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fp := strings.Repeat("f5", 32)
	require.NoError(t, repo.Insert(ctx, record(fp, time.Now().UTC())))
	require.NoError(t, repo.UpdateTags(ctx, fp, []string{"archive", "photos"}))

	got, err := repo.GetByFingerprint(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "photos"}, got.Tags)
}

func TestCountAndPing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Insert(ctx, record(strings.Repeat("9", 64), time.Now().UTC())))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
