package blobstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *LocalStore) {
	t.Helper()
	store := newTestStore(t)
	router := mux.NewRouter()
	NewFileHandler(store).RegisterRoutes(router, "/files")
	return router, store
}

func TestFileHandlerServesUpload(t *testing.T) {
	router, store := newTestRouter(t)
	handle, err := store.Upload(context.Background(), "inventory/milk tea-7", strings.NewReader("image"), "image/png")
	require.NoError(t, err)

	url, err := store.DownloadURL(context.Background(), handle)
	require.NoError(t, err)
	path := strings.TrimPrefix(url, "http://localhost:8080")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "image", rec.Body.String())
}

func TestFileHandlerHead(t *testing.T) {
	router, store := newTestRouter(t)
	_, err := store.Upload(context.Background(), "inventory/salt-1", strings.NewReader("abc"), "image/gif")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/files/inventory/salt-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestFileHandlerNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/inventory/missing-1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileHandlerRange(t *testing.T) {
	router, store := newTestRouter(t)
	_, err := store.Upload(context.Background(), "inventory/salt-1", strings.NewReader("abcdef"), "image/gif")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/files/inventory/salt-1", nil)
	req.Header.Set("Range", "bytes=1-3")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bcd", rec.Body.String())
	assert.Equal(t, "bytes 1-3/6", rec.Header().Get("Content-Range"))
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
}

func TestFileHandlerNotModified(t *testing.T) {
	router, store := newTestRouter(t)
	_, err := store.Upload(context.Background(), "inventory/salt-1", strings.NewReader("abc"), "image/gif")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/inventory/salt-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	lastModified := rec.Header().Get("Last-Modified")
	require.NotEmpty(t, lastModified)

	req := httptest.NewRequest(http.MethodGet, "/files/inventory/salt-1", nil)
	req.Header.Set("If-Modified-Since", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}
