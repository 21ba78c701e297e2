package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// PutObject mocks the PutObject method
func (m *MockObjectStore) PutObject(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

// BeginMultipart mocks the BeginMultipart method
func (m *MockObjectStore) BeginMultipart(ctx context.Context, key, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

// UploadPart mocks the UploadPart method
func (m *MockObjectStore) UploadPart(ctx context.Context, uploadID, key string, partNumber int64, body io.ReadSeeker) (string, error) {
	args := m.Called(ctx, uploadID, key, partNumber, body)
	return args.String(0), args.Error(1)
}

// CompleteMultipart mocks the CompleteMultipart method
func (m *MockObjectStore) CompleteMultipart(ctx context.Context, uploadID, key string, parts []repository.CompletedPart) error {
	args := m.Called(ctx, uploadID, key, parts)
	return args.Error(0)
}

// AbortMultipart mocks the AbortMultipart method
func (m *MockObjectStore) AbortMultipart(ctx context.Context, uploadID, key string) error {
	args := m.Called(ctx, uploadID, key)
	return args.Error(0)
}

// PresignGet mocks the PresignGet method
func (m *MockObjectStore) PresignGet(key string, ttl time.Duration) (string, error) {
	args := m.Called(key, ttl)
	return args.String(0), args.Error(1)
}

// Ping mocks the Ping method
func (m *MockObjectStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
