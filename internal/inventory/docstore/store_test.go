package docstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// testDocumentStore exercises the behaviour every backend must share
func testDocumentStore(t *testing.T, store domain.DocumentStore) {
	ctx := context.Background()
	const coll = "inventory_test"

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, coll, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, coll, "milk", domain.Fields{
			domain.FieldQuantity: 1,
			domain.FieldImageURL: "http://img/milk",
		}, false))

		fields, err := store.Get(ctx, coll, "milk")
		require.NoError(t, err)
		quantity, ok := fields.Int(domain.FieldQuantity)
		assert.True(t, ok)
		assert.Equal(t, 1, quantity)
		assert.Equal(t, "http://img/milk", fields.String(domain.FieldImageURL))
	})

	t.Run("merge keeps unspecified fields", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, coll, "milk", domain.Fields{domain.FieldQuantity: 2}, true))

		fields, err := store.Get(ctx, coll, "milk")
		require.NoError(t, err)
		quantity, _ := fields.Int(domain.FieldQuantity)
		assert.Equal(t, 2, quantity)
		assert.Equal(t, "http://img/milk", fields.String(domain.FieldImageURL))
	})

	t.Run("merge overwrites with empty string", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, coll, "milk", domain.Fields{domain.FieldImageURL: ""}, true))

		fields, err := store.Get(ctx, coll, "milk")
		require.NoError(t, err)
		assert.Contains(t, fields, domain.FieldImageURL)
		assert.Equal(t, "", fields.String(domain.FieldImageURL))
	})

	t.Run("replace drops old fields", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, coll, "milk", domain.Fields{domain.FieldQuantity: 5}, false))

		fields, err := store.Get(ctx, coll, "milk")
		require.NoError(t, err)
		assert.NotContains(t, fields, domain.FieldImageURL)
	})

	t.Run("list all", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, coll, "apple", domain.Fields{domain.FieldQuantity: 3}, false))
		require.NoError(t, store.Set(ctx, "other_collection", "pear", domain.Fields{domain.FieldQuantity: 1}, false))

		docs, err := store.ListAll(ctx, coll)
		require.NoError(t, err)

		keys := make([]string, 0, len(docs))
		for _, doc := range docs {
			keys = append(keys, doc.Key)
		}
		assert.Equal(t, []string{"apple", "milk"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, coll, "milk"))
		require.NoError(t, store.Delete(ctx, coll, "milk"), "deleting a missing key is a no-op")

		_, err := store.Get(ctx, coll, "milk")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore("")
	require.NoError(t, err)
	defer store.Close()

	testDocumentStore(t, store)
}

func TestBadgerStoreOnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "inventory", "salt", domain.Fields{domain.FieldQuantity: 4}, false))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	fields, err := reopened.Get(context.Background(), "inventory", "salt")
	require.NoError(t, err)
	assert.Equal(t, json.Number("4"), fields[domain.FieldQuantity])
}

func TestBadgerStorePingAfterClose(t *testing.T) {
	store, err := NewBadgerStore("")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.Error(t, store.Ping(context.Background()))
}
