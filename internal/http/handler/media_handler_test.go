package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte, alt string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if alt != "" {
		require.NoError(t, mw.WriteField("alt", alt))
	}
	if field != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
		header["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/media", &buf).WithContext(adminContext())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMediaHandler_UploadAndDownload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	logger := zap.NewNop()
	h := NewMediaHandler(service.NewMediaService(repository.NewMediaRepository(db), store, logger), 1, logger)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartUpload(t, "file", "tip.png", "image/png", []byte("png-bytes"), "Distal tip"))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var media domain.MediaDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &media))
	assert.Equal(t, "tip.png", media.Filename)
	assert.Equal(t, "Distal tip", media.Alt)
	assert.Equal(t, "image/png", media.ContentType)
	assert.Equal(t, int64(len("png-bytes")), media.Size)
	assert.True(t, strings.HasPrefix(media.URL, "/api/v1/files/"))

	rr = httptest.NewRecorder()
	h.Download(rr, newRequest(t, http.MethodGet, "/media/"+media.ID.String()+"/download", nil,
		map[string]string{"id": media.ID.String()}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png-bytes", rr.Body.String())
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestMediaHandler_UploadRequiresFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	logger := zap.NewNop()
	h := NewMediaHandler(service.NewMediaService(repository.NewMediaRepository(db), store, logger), 1, logger)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartUpload(t, "", "", "", nil, "no file"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMediaHandler_UploadTooLarge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	logger := zap.NewNop()
	h := NewMediaHandler(service.NewMediaService(repository.NewMediaRepository(db), store, logger), 1, logger)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartUpload(t, "file", "big.bin", "application/octet-stream", make([]byte, 2<<20), ""))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestFileHandler_Serve(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "quotations/Q0001.pdf", strings.NewReader("%PDF-1.3"), storage.PutOptions{})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/files/*", NewFileHandler(store, zap.NewNop()).Serve)

	t.Run("pdf served inline", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/quotations/Q0001.pdf", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "inline")
		assert.Equal(t, "%PDF-1.3", rr.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/quotations/nope.pdf", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("traversal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/..%2F..%2Fetc%2Fpasswd", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
