package handler_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hashbeam/hashbeam/internal/adapter/handler"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
	"github.com/hashbeam/hashbeam/internal/usecase"
	"github.com/hashbeam/hashbeam/internal/usecase/mocks"
)

type fixedTunables struct{}

func (fixedTunables) TransferTunables() (int64, int64) {
	return 100 * 1024 * 1024, 100 * 1024 * 1024
}

func uploadRouter(store *mocks.MockObjectStore, metadata *mocks.MockMetadataRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewUploadUseCase(store, metadata, fixedTunables{}, "", nil)
	router := gin.New()
	handler.NewUploadHandler(uc, nil).RegisterRoutes(router)
	return router
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &b, w.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	content := []byte("handler test payload")
	sum := sha256.Sum256(content)
	fp := hex.EncodeToString(sum[:])

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("GetByFingerprint", mock.Anything, fp).Return(nil, repository.ErrRecordNotFound).Once()
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	metadata.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	router := uploadRouter(store, metadata)
	body, contentType := multipartBody(t, "test.txt", content)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, fp, response["fingerprint"])
	assert.Equal(t, "/f/"+fp[:8], response["short_link"])
	assert.Equal(t, float64(len(content)), response["size_bytes"])
	assert.Equal(t, false, response["deduped"])
	assert.NotEmpty(t, response["size"])
}

func TestUploadEndpointRequiresFile(t *testing.T) {
	router := uploadRouter(new(mocks.MockObjectStore), new(mocks.MockMetadataRepository))

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("not a form"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file provided")
}

func TestUploadEndpointStoreFailure(t *testing.T) {
	content := []byte("doomed payload")
	sum := sha256.Sum256(content)
	fp := hex.EncodeToString(sum[:])

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("GetByFingerprint", mock.Anything, fp).Return(nil, repository.ErrRecordNotFound).Once()
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket quota exceeded")).Once()

	router := uploadRouter(store, metadata)
	body, contentType := multipartBody(t, "test.txt", content)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	// Internal store detail stays in logs, not in the response.
	assert.NotContains(t, w.Body.String(), "quota")
	assert.Contains(t, w.Body.String(), "object storage transfer failed")
}

func TestUploadEndpointDeduplicates(t *testing.T) {
	content := []byte("seen before")
	sum := sha256.Sum256(content)
	fp := hex.EncodeToString(sum[:])

	store := new(mocks.MockObjectStore)
	metadata := new(mocks.MockMetadataRepository)
	metadata.On("GetByFingerprint", mock.Anything, fp).Return(recordFixture(fp, "again.txt"), nil).Once()

	router := uploadRouter(store, metadata)
	body, contentType := multipartBody(t, "again.txt", content)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["deduped"])
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
