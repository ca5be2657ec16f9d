package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// ListItemsQuery represents the query to load the whole inventory
type ListItemsQuery struct{}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	docs       domain.DocumentStore
	collection string
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(docs domain.DocumentStore, collection string) *ListItemsHandler {
	return &ListItemsHandler{docs: docs, collection: collection}
}

// Handle executes the list items query. Order is whatever the store returns.
func (h *ListItemsHandler) Handle(ctx context.Context, _ ListItemsQuery) ([]domain.Item, error) {
	docs, err := h.docs.ListAll(ctx, h.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list inventory: %w", domain.ErrStoreReadFailure, err)
	}

	items := make([]domain.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, domain.ItemFromDocument(doc))
	}
	return items, nil
}
