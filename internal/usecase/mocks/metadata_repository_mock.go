package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
)

// MockMetadataRepository is a mock implementation of MetadataRepository
type MockMetadataRepository struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockMetadataRepository) Insert(ctx context.Context, record *entities.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// GetByFingerprint mocks the GetByFingerprint method
func (m *MockMetadataRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*entities.FileRecord, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FileRecord), args.Error(1)
}

// FindByPrefix mocks the FindByPrefix method
func (m *MockMetadataRepository) FindByPrefix(ctx context.Context, prefix string) ([]*entities.FileRecord, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FileRecord), args.Error(1)
}

// IncrementDownloadCount mocks the IncrementDownloadCount method
func (m *MockMetadataRepository) IncrementDownloadCount(ctx context.Context, fingerprint string) error {
	args := m.Called(ctx, fingerprint)
	return args.Error(0)
}

// ListRecent mocks the ListRecent method
func (m *MockMetadataRepository) ListRecent(ctx context.Context, limit int) ([]*entities.FileRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FileRecord), args.Error(1)
}

// Search mocks the Search method
func (m *MockMetadataRepository) Search(ctx context.Context, query string, limit int) ([]*entities.FileRecord, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FileRecord), args.Error(1)
}

// UpdateTags mocks the UpdateTags method
func (m *MockMetadataRepository) UpdateTags(ctx context.Context, fingerprint string, tags []string) error {
	args := m.Called(ctx, fingerprint, tags)
	return args.Error(0)
}

// Count mocks the Count method
func (m *MockMetadataRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the Ping method
func (m *MockMetadataRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
