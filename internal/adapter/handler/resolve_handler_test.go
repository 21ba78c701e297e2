package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hashbeam/hashbeam/internal/adapter/handler"
	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/usecase"
	"github.com/hashbeam/hashbeam/internal/usecase/mocks"
)

const fixtureFingerprint = "deadbeefcafe0123456789abcdef0123456789abcdef0123456789abcdef0123"

func resolveRouter(store *mocks.MockObjectStore, metadata *mocks.MockMetadataRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewResolveUseCase(metadata, store, time.Hour, 50)
	router := gin.New()
	handler.NewResolveHandler(uc, nil).RegisterRoutes(router)
	return router
}

func TestResolveEndpointSingleMatch(t *testing.T) {
	record := recordFixture(fixtureFingerprint, "report.pdf")
	record.DownloadCount = 6

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("FindByPrefix", mock.Anything, fixtureFingerprint[:8]).
		Return([]*entities.FileRecord{record}, nil).Once()
	metadata.On("IncrementDownloadCount", mock.Anything, fixtureFingerprint).Return(nil).Once()

	router := resolveRouter(store, metadata)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/f/"+fixtureFingerprint[:8], nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, fixtureFingerprint, response["fingerprint"])
	assert.Equal(t, "report.pdf", response["original_name"])
	assert.Equal(t, float64(7), response["download_count"])
}

func TestResolveEndpointAmbiguous(t *testing.T) {
	first := recordFixture(fixtureFingerprint, "a.bin")
	second := recordFixture("deadbeef"+strings.Repeat("0", 56), "b.bin")

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("FindByPrefix", mock.Anything, "deadbeef").
		Return([]*entities.FileRecord{first, second}, nil).Once()

	router := resolveRouter(store, metadata)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/f/deadbeef", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Prefix  string                   `json:"prefix"`
		Matches []map[string]interface{} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "deadbeef", response.Prefix)
	assert.Len(t, response.Matches, 2)
	metadata.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
}

func TestResolveEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		setup      func(metadata *mocks.MockMetadataRepository)
		wantStatus int
	}{
		{
			name:       "prefix too short",
			prefix:     "dead",
			setup:      func(metadata *mocks.MockMetadataRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown prefix",
			prefix: "deadbeef",
			setup: func(metadata *mocks.MockMetadataRepository) {
				metadata.On("FindByPrefix", mock.Anything, "deadbeef").
					Return([]*entities.FileRecord{}, nil).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := new(mocks.MockMetadataRepository)
			tt.setup(metadata)

			router := resolveRouter(new(mocks.MockObjectStore), metadata)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/f/"+tt.prefix, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDownloadEndpointPresigns(t *testing.T) {
	record := recordFixture(fixtureFingerprint, "archive.zip")

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("FindByPrefix", mock.Anything, fixtureFingerprint[:8]).
		Return([]*entities.FileRecord{record}, nil).Once()
	store.On("PresignGet", record.StorageKey, time.Hour).
		Return("https://s3.example.com/signed", nil).Once()

	router := resolveRouter(store, metadata)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/"+fixtureFingerprint[:8], nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "https://s3.example.com/signed", response["url"])
	assert.Equal(t, float64(3600), response["expires_in"])
}

func TestRecentEndpoint(t *testing.T) {
	records := []*entities.FileRecord{
		recordFixture(fixtureFingerprint, "newest.txt"),
		recordFixture("deadbeef"+strings.Repeat("1", 56), "older.txt"),
	}

	metadata := new(mocks.MockMetadataRepository)
	metadata.On("ListRecent", mock.Anything, 50).Return(records, nil).Once()

	router := resolveRouter(new(mocks.MockObjectStore), metadata)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Files []map[string]interface{} `json:"files"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Files, 2)
	assert.Equal(t, "newest.txt", response.Files[0]["original_name"])
}

func TestSearchEndpoint(t *testing.T) {
	records := []*entities.FileRecord{recordFixture(fixtureFingerprint, "report.pdf")}

	metadata := new(mocks.MockMetadataRepository)
	metadata.On("Search", mock.Anything, "report", 50).Return(records, nil).Once()

	router := resolveRouter(new(mocks.MockObjectStore), metadata)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=report", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "report", response["query"])
	assert.Equal(t, float64(1), response["total"])
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	router := resolveRouter(new(mocks.MockObjectStore), new(mocks.MockMetadataRepository))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
