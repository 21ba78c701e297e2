package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

// SQLiteMetadataRepository implements MetadataRepository on a local SQLite
// database. The fingerprint primary key provides both the uniqueness
// guarantee the upload race depends on and the sorted index that prefix
// lookups range-scan.
type SQLiteMetadataRepository struct {
	db *sql.DB
}

// NewSQLiteMetadataRepository opens (or creates) the database at dbPath and
// ensures the schema exists.
func NewSQLiteMetadataRepository(dbPath string) (*SQLiteMetadataRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteMetadataRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return repo, nil
}

// Close closes the database connection.
func (r *SQLiteMetadataRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteMetadataRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		fingerprint TEXT PRIMARY KEY,
		storage_key TEXT NOT NULL,
		original_name TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		content_type TEXT,
		description TEXT,
		tags TEXT,
		public_url TEXT,
		created_at DATETIME NOT NULL,
		download_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_files_created_at ON files(created_at);
	CREATE INDEX IF NOT EXISTS idx_files_original_name ON files(original_name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Insert stores a new record. INSERT OR IGNORE plus a rows-affected check
// turns the unique-constraint violation into ErrDuplicateFingerprint
// without surfacing a driver error.
func (r *SQLiteMetadataRepository) Insert(ctx context.Context, record *entities.FileRecord) error {
	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO files (
			fingerprint, storage_key, original_name, size_bytes,
			content_type, description, tags, public_url, created_at, download_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		record.Fingerprint,
		record.StorageKey,
		record.OriginalName,
		record.SizeBytes,
		record.ContentType,
		record.Description,
		string(tagsJSON),
		record.PublicURL,
		record.CreatedAt,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrDuplicateFingerprint
	}
	return nil
}

// GetByFingerprint retrieves a record by exact fingerprint.
func (r *SQLiteMetadataRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*entities.FileRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+" FROM files WHERE fingerprint = ?", fingerprint)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrRecordNotFound
	}
	return record, err
}

// FindByPrefix returns all records whose fingerprint starts with prefix,
// newest first. The prefix is validated hex upstream, so the LIKE pattern
// needs no escaping.
func (r *SQLiteMetadataRepository) FindByPrefix(ctx context.Context, prefix string) ([]*entities.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+" FROM files WHERE fingerprint LIKE ? ORDER BY created_at DESC",
		prefix+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// IncrementDownloadCount bumps the advisory download counter.
func (r *SQLiteMetadataRepository) IncrementDownloadCount(ctx context.Context, fingerprint string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE files SET download_count = download_count + 1 WHERE fingerprint = ?",
		fingerprint,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

// ListRecent returns the newest records first.
func (r *SQLiteMetadataRepository) ListRecent(ctx context.Context, limit int) ([]*entities.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+" FROM files ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Search matches the query as a substring of the original name or the
// fingerprint, newest first.
func (r *SQLiteMetadataRepository) Search(ctx context.Context, query string, limit int) ([]*entities.FileRecord, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` FROM files
		 WHERE original_name LIKE ? OR fingerprint LIKE ?
		 ORDER BY created_at DESC LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// UpdateTags attaches enrichment tags to an existing record.
func (r *SQLiteMetadataRepository) UpdateTags(ctx context.Context, fingerprint string, tags []string) error {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE files SET tags = ? WHERE fingerprint = ?",
		string(tagsJSON), fingerprint,
	)
	return err
}

// Count returns the total number of records.
func (r *SQLiteMetadataRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&count)
	return count, err
}

// Ping verifies the database is reachable.
func (r *SQLiteMetadataRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const selectColumns = `SELECT fingerprint, storage_key, original_name, size_bytes,
	content_type, description, tags, public_url, created_at, download_count`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*entities.FileRecord, error) {
	var record entities.FileRecord
	var tagsJSON string

	err := row.Scan(
		&record.Fingerprint,
		&record.StorageKey,
		&record.OriginalName,
		&record.SizeBytes,
		&record.ContentType,
		&record.Description,
		&tagsJSON,
		&record.PublicURL,
		&record.CreatedAt,
		&record.DownloadCount,
	)
	if err != nil {
		return nil, err
	}

	if tagsJSON != "" && tagsJSON != "null" {
		if err := json.Unmarshal([]byte(tagsJSON), &record.Tags); err != nil {
			record.Tags = nil
		}
	}
	return &record, nil
}

func scanRecords(rows *sql.Rows) ([]*entities.FileRecord, error) {
	records := []*entities.FileRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
