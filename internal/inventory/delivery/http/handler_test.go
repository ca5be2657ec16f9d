package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-tracker/internal/inventory/blobstore"
	"github.com/tair/inventory-tracker/internal/inventory/controller"
	"github.com/tair/inventory-tracker/internal/inventory/docstore"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/metrics"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/command"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/query"
)

type testServer struct {
	router  *mux.Router
	docs    *docstore.BadgerStore
	ctrl    *controller.Controller
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	docs, err := docstore.NewBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { docs.Close() })

	objects, err := blobstore.NewLocalStore(t.TempDir(), "/files")
	require.NoError(t, err)
	t.Cleanup(func() { objects.Close() })

	m := metrics.New(prometheus.NewRegistry())
	ctrl := controller.New(
		command.NewAddItemHandler(docs, objects, domain.DefaultCollection, domain.ImagePolicyOverwrite),
		command.NewDecreaseQuantityHandler(docs, domain.DefaultCollection),
		command.NewRemoveItemHandler(docs, domain.DefaultCollection),
		query.NewListItemsHandler(docs, domain.DefaultCollection),
		nil,
		m,
	)
	handler := NewInventoryHandler(ctrl, query.NewGetItemHandler(docs, domain.DefaultCollection), docs)

	router := mux.NewRouter()
	RegisterMiddlewares(router, &MiddlewareConfig{EnableRecovery: true, Metrics: m})
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router)
	blobstore.NewFileHandler(objects).RegisterRoutes(router, "/files")

	return &testServer{router: router, docs: docs, ctrl: ctrl, metrics: m}
}

func (s *testServer) seed(t *testing.T, name string, quantity int) {
	t.Helper()
	require.NoError(t, s.docs.Set(context.Background(), domain.DefaultCollection, name,
		domain.Fields{domain.FieldQuantity: quantity}, false))
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) quantity(t *testing.T, name string) (int, bool) {
	t.Helper()
	fields, err := s.docs.Get(context.Background(), domain.DefaultCollection, name)
	if err != nil {
		return 0, false
	}
	q, _ := fields.Int(domain.FieldQuantity)
	return q, true
}

func decodeItems(t *testing.T, body io.Reader) []domain.Item {
	t.Helper()
	var resp struct {
		Success bool         `json:"success"`
		Data    itemsPayload `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, len(resp.Data.Items), resp.Data.Count)
	return resp.Data.Items
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartBody(t *testing.T, name string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", name))
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestListItemsAPI(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Apple", 2)
	s.seed(t, "banana", 1)
	s.seed(t, "grape", 5)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeItems(t, rec.Body), 3)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/items?q=ap", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeItems(t, rec.Body)
	require.Len(t, items, 2)
	assert.Equal(t, "Apple", items[0].Name)
	assert.Equal(t, "grape", items[1].Name)
}

func TestGetItemAPI(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "milk", 3)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/items/milk", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":3`)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/items/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItemAPIJSON(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name":"salt"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := s.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	q, ok := s.quantity(t, "salt")
	assert.True(t, ok)
	assert.Equal(t, 2, q)
}

func TestAddItemAPIBadJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemAPIMultipartImage(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "milk", []byte("\x89PNG\r\n\x1a\nrest"))
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeItems(t, rec.Body)
	require.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].ImageURL, "/files/inventory/milk-"), items[0].ImageURL)

	file := s.do(httptest.NewRequest(http.MethodGet, items[0].ImageURL, nil))
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\nrest", file.Body.String())
}

func TestIncrementDecrementRemoveAPI(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "apple", 1)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/items/apple/increment", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	q, _ := s.quantity(t, "apple")
	assert.Equal(t, 2, q)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/items/apple/decrement", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	q, _ = s.quantity(t, "apple")
	assert.Equal(t, 1, q)

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/api/items/apple", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := s.quantity(t, "apple")
	assert.False(t, ok)
}

func TestItemAPIUnescapesNames(t *testing.T) {
	tests := []struct {
		name    string
		escaped string
	}{
		{name: "%41pple", escaped: "%2541pple"},
		{name: "a/b", escaped: "a%2Fb"},
		{name: "what?", escaped: "what%3F"},
		{name: "milk tea", escaped: "milk%20tea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.seed(t, tt.name, 1)
			s.seed(t, "Apple", 1)

			rec := s.do(httptest.NewRequest(http.MethodPost, "/api/items/"+tt.escaped+"/increment", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			q, _ := s.quantity(t, tt.name)
			assert.Equal(t, 2, q)

			rec = s.do(httptest.NewRequest(http.MethodGet, "/api/items/"+tt.escaped, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"quantity":2`)

			rec = s.do(httptest.NewRequest(http.MethodDelete, "/api/items/"+tt.escaped, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			_, ok := s.quantity(t, tt.name)
			assert.False(t, ok)

			q, ok = s.quantity(t, "Apple")
			require.True(t, ok)
			assert.Equal(t, 1, q)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.docs.Close())
	rec = s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec = s.do(req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware())
	router.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
