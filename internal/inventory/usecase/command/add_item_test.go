package command

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-tracker/internal/inventory/docstore"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

const testCollection = "inventory"

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Upload(ctx context.Context, path string, data io.Reader, contentType string) (domain.ObjectHandle, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.Get(0).(domain.ObjectHandle), args.Error(1)
}

func (m *mockObjectStore) DownloadURL(ctx context.Context, handle domain.ObjectHandle) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func newTestDocs(t *testing.T) domain.DocumentStore {
	t.Helper()
	store, err := docstore.NewBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestAddHandler(docs domain.DocumentStore, objects domain.ObjectStore, policy domain.ImagePolicy) *AddItemHandler {
	h := NewAddItemHandler(docs, objects, testCollection, policy)
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return h
}

func readItem(t *testing.T, docs domain.DocumentStore, name string) domain.Fields {
	t.Helper()
	fields, err := docs.Get(context.Background(), testCollection, name)
	require.NoError(t, err)
	return fields
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, "inventory/milk-1700000000000", ImagePath("milk", time.UnixMilli(1700000000000)))
}

func TestAddItemCreatesWithQuantityOne(t *testing.T) {
	docs := newTestDocs(t)
	h := newTestAddHandler(docs, new(mockObjectStore), domain.ImagePolicyOverwrite)

	item, err := h.Handle(context.Background(), AddItemCommand{Name: "apple"})
	require.NoError(t, err)
	assert.Equal(t, &domain.Item{Name: "apple", Quantity: 1}, item)

	fields := readItem(t, docs, "apple")
	quantity, _ := fields.Int(domain.FieldQuantity)
	assert.Equal(t, 1, quantity)
	assert.Equal(t, "", fields.String(domain.FieldImageURL))
}

func TestAddItemCountsUp(t *testing.T) {
	docs := newTestDocs(t)
	h := newTestAddHandler(docs, new(mockObjectStore), domain.ImagePolicyOverwrite)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		item, err := h.Handle(ctx, AddItemCommand{Name: "apple"})
		require.NoError(t, err)
		assert.Equal(t, i, item.Quantity)
	}

	quantity, _ := readItem(t, docs, "apple").Int(domain.FieldQuantity)
	assert.Equal(t, 4, quantity)
}

func TestAddItemUploadsImage(t *testing.T) {
	docs := newTestDocs(t)
	objects := new(mockObjectStore)
	h := newTestAddHandler(docs, objects, domain.ImagePolicyOverwrite)

	handle := domain.ObjectHandle{Path: "inventory/milk-1700000000000", Size: 3, ContentType: "image/png"}
	objects.On("Upload", mock.Anything, "inventory/milk-1700000000000", mock.Anything, "image/png").Return(handle, nil)
	objects.On("DownloadURL", mock.Anything, handle).Return("http://files/milk.png", nil)

	item, err := h.Handle(context.Background(), AddItemCommand{
		Name:  "milk",
		Image: &ImageUpload{Filename: "milk.png", ContentType: "image/png", Data: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://files/milk.png", item.ImageURL)
	assert.Equal(t, "http://files/milk.png", readItem(t, docs, "milk").String(domain.FieldImageURL))
	objects.AssertExpectations(t)
}

func TestAddItemWithoutImageOnExistingRecord(t *testing.T) {
	tests := []struct {
		name    string
		policy  domain.ImagePolicy
		wantURL string
	}{
		{"overwrite clears the stored url", domain.ImagePolicyOverwrite, ""},
		{"preserve keeps the stored url", domain.ImagePolicyPreserve, "http://img/milk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := newTestDocs(t)
			ctx := context.Background()
			require.NoError(t, docs.Set(ctx, testCollection, "Milk", domain.Fields{
				domain.FieldQuantity: 2,
				domain.FieldImageURL: "http://img/milk",
			}, false))

			h := newTestAddHandler(docs, new(mockObjectStore), tt.policy)
			item, err := h.Handle(ctx, AddItemCommand{Name: "Milk"})
			require.NoError(t, err)
			assert.Equal(t, 3, item.Quantity)
			assert.Equal(t, tt.wantURL, item.ImageURL)

			fields := readItem(t, docs, "Milk")
			quantity, _ := fields.Int(domain.FieldQuantity)
			assert.Equal(t, 3, quantity)
			assert.Equal(t, tt.wantURL, fields.String(domain.FieldImageURL))
		})
	}
}

func TestAddItemUploadFailureWritesNothing(t *testing.T) {
	docs := newTestDocs(t)
	objects := new(mockObjectStore)
	h := newTestAddHandler(docs, objects, domain.ImagePolicyOverwrite)

	objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ObjectHandle{}, errors.New("bucket unavailable"))

	_, err := h.Handle(context.Background(), AddItemCommand{
		Name:  "milk",
		Image: &ImageUpload{ContentType: "image/png", Data: strings.NewReader("png")},
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailure)

	_, err = docs.Get(context.Background(), testCollection, "milk")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	objects.AssertNotCalled(t, "DownloadURL", mock.Anything, mock.Anything)
}

func TestAddItemNameIsCaseSensitive(t *testing.T) {
	docs := newTestDocs(t)
	h := newTestAddHandler(docs, new(mockObjectStore), domain.ImagePolicyOverwrite)
	ctx := context.Background()

	_, err := h.Handle(ctx, AddItemCommand{Name: "Milk"})
	require.NoError(t, err)
	_, err = h.Handle(ctx, AddItemCommand{Name: "milk"})
	require.NoError(t, err)

	docsList, err := docs.ListAll(ctx, testCollection)
	require.NoError(t, err)
	assert.Len(t, docsList, 2)
}
