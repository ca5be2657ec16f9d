package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// DecreaseOutcome reports what a decrease did to the record
type DecreaseOutcome int

const (
	// DecreaseMissing means no record existed and nothing was written
	DecreaseMissing DecreaseOutcome = iota
	// DecreaseDecremented means the quantity was lowered by one
	DecreaseDecremented
	// DecreaseDeleted means the last unit was taken and the record deleted
	DecreaseDeleted
)

// DecreaseQuantityCommand represents the command to take one unit of an item
type DecreaseQuantityCommand struct {
	Name string
}

// DecreaseQuantityHandler handles decrease quantity command
type DecreaseQuantityHandler struct {
	docs       domain.DocumentStore
	collection string
}

// NewDecreaseQuantityHandler creates a new decrease quantity handler
func NewDecreaseQuantityHandler(docs domain.DocumentStore, collection string) *DecreaseQuantityHandler {
	return &DecreaseQuantityHandler{docs: docs, collection: collection}
}

// Handle executes the decrease quantity command
func (h *DecreaseQuantityHandler) Handle(ctx context.Context, cmd DecreaseQuantityCommand) (DecreaseOutcome, error) {
	existing, err := h.docs.Get(ctx, h.collection, cmd.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DecreaseMissing, nil
		}
		return DecreaseMissing, fmt.Errorf("%w: failed to get item: %w", domain.ErrStoreReadFailure, err)
	}

	quantity, _ := existing.Int(domain.FieldQuantity)
	if quantity > 1 {
		fields := domain.Fields{domain.FieldQuantity: quantity - 1}
		if err := h.docs.Set(ctx, h.collection, cmd.Name, fields, true); err != nil {
			return DecreaseMissing, fmt.Errorf("%w: failed to decrease quantity: %w", domain.ErrStoreWriteFailure, err)
		}
		logger.Info(ctx).Str("item", cmd.Name).Int("quantity", quantity-1).Msg("Decreased quantity for item")
		return DecreaseDecremented, nil
	}

	if err := h.docs.Delete(ctx, h.collection, cmd.Name); err != nil {
		return DecreaseMissing, fmt.Errorf("%w: failed to delete item: %w", domain.ErrStoreWriteFailure, err)
	}
	logger.Info(ctx).Str("item", cmd.Name).Msg("Deleted item")
	return DecreaseDeleted, nil
}
