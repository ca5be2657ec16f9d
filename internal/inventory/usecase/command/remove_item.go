package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// RemoveItemCommand represents the command to delete an item outright
type RemoveItemCommand struct {
	Name string
}

// RemoveItemHandler handles remove item command
type RemoveItemHandler struct {
	docs       domain.DocumentStore
	collection string
}

// NewRemoveItemHandler creates a new remove item handler
func NewRemoveItemHandler(docs domain.DocumentStore, collection string) *RemoveItemHandler {
	return &RemoveItemHandler{docs: docs, collection: collection}
}

// Handle executes the remove item command regardless of quantity
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) error {
	if err := h.docs.Delete(ctx, h.collection, cmd.Name); err != nil {
		return fmt.Errorf("%w: failed to remove item: %w", domain.ErrStoreWriteFailure, err)
	}

	logger.Info(ctx).Str("item", cmd.Name).Msg("Removed item")
	return nil
}
