package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// GetItemQuery represents the query to get one item by name
type GetItemQuery struct {
	Name string
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	docs       domain.DocumentStore
	collection string
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(docs domain.DocumentStore, collection string) *GetItemHandler {
	return &GetItemHandler{docs: docs, collection: collection}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, query GetItemQuery) (*domain.Item, error) {
	fields, err := h.docs.Get(ctx, h.collection, query.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to get item: %w", domain.ErrStoreReadFailure, err)
	}

	item := domain.ItemFromDocument(domain.Document{Key: query.Name, Fields: fields})
	return &item, nil
}
