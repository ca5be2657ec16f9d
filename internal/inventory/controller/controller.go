package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tair/inventory-tracker/internal/inventory/metrics"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/command"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/query"
	"github.com/tair/inventory-tracker/kafka"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// Operation names used in logs and metrics
const (
	OpRefresh   = "refresh"
	OpAdd       = "add"
	OpIncrement = "increment"
	OpDecrement = "decrement"
	OpRemove    = "remove"
)

// EventPublisher announces successful writes to other instances
type EventPublisher interface {
	PublishInventoryChanged(ctx context.Context, event kafka.InventoryChangedEvent) error
}

// Controller owns the page state and mediates between the UI and the stores.
// Store failures are logged and swallowed; every operation returns the
// resulting state snapshot.
type Controller struct {
	addHandler      *command.AddItemHandler
	decreaseHandler *command.DecreaseQuantityHandler
	removeHandler   *command.RemoveItemHandler
	listHandler     *query.ListItemsHandler

	publisher EventPublisher
	metrics   *metrics.Metrics
	locks     *keyLock

	mu    sync.RWMutex
	state State

	refreshSeq atomic.Uint64
	appliedSeq uint64 // guarded by mu
}

// New creates a controller. publisher may be nil.
func New(
	addHandler *command.AddItemHandler,
	decreaseHandler *command.DecreaseQuantityHandler,
	removeHandler *command.RemoveItemHandler,
	listHandler *query.ListItemsHandler,
	publisher EventPublisher,
	m *metrics.Metrics,
) *Controller {
	return &Controller{
		addHandler:      addHandler,
		decreaseHandler: decreaseHandler,
		removeHandler:   removeHandler,
		listHandler:     listHandler,
		publisher:       publisher,
		metrics:         m,
		locks:           newKeyLock(),
	}
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Refresh reloads the whole collection. On failure the previous list is kept.
// A result is dropped if a refresh that started later has already landed.
func (c *Controller) Refresh(ctx context.Context) State {
	seq := c.refreshSeq.Add(1)

	items, err := c.listHandler.Handle(ctx, query.ListItemsQuery{})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to fetch inventory")
		c.metrics.OperationsTotal.WithLabelValues(OpRefresh, "failed").Inc()
		return c.state.clone()
	}

	if seq > c.appliedSeq {
		c.state.Items = items
		c.appliedSeq = seq
		c.metrics.InventoryItems.Set(float64(len(items)))
	}
	c.metrics.OperationsTotal.WithLabelValues(OpRefresh, "ok").Inc()
	return c.state.clone()
}

// AddOrIncrement creates the item with quantity 1 or bumps an existing one.
// image may be nil.
func (c *Controller) AddOrIncrement(ctx context.Context, name string, image *command.ImageUpload) State {
	op := OpAdd
	if image == nil {
		op = OpIncrement
	}

	return c.mutate(ctx, op, name, func(ctx context.Context) (string, error) {
		item, err := c.addHandler.Handle(ctx, command.AddItemCommand{Name: name, Image: image})
		if err != nil {
			return "", err
		}
		if item.Quantity == 1 {
			return kafka.ActionAdded, nil
		}
		return kafka.ActionIncremented, nil
	})
}

// Increment is AddOrIncrement without an image
func (c *Controller) Increment(ctx context.Context, name string) State {
	return c.AddOrIncrement(ctx, name, nil)
}

// Decrement takes one unit, deleting the record at the last one.
// A missing record is a silent no-op and does not refresh.
func (c *Controller) Decrement(ctx context.Context, name string) State {
	return c.mutate(ctx, OpDecrement, name, func(ctx context.Context) (string, error) {
		outcome, err := c.decreaseHandler.Handle(ctx, command.DecreaseQuantityCommand{Name: name})
		if err != nil {
			return "", err
		}
		switch outcome {
		case command.DecreaseDecremented:
			return kafka.ActionDecremented, nil
		case command.DecreaseDeleted:
			return kafka.ActionDeleted, nil
		default:
			return "", nil
		}
	})
}

// Remove deletes the record whatever its quantity
func (c *Controller) Remove(ctx context.Context, name string) State {
	return c.mutate(ctx, OpRemove, name, func(ctx context.Context) (string, error) {
		if err := c.removeHandler.Handle(ctx, command.RemoveItemCommand{Name: name}); err != nil {
			return "", err
		}
		return kafka.ActionRemoved, nil
	})
}

// mutate runs fn under the per-name lock, then publishes and refreshes on success.
// fn returns the event action, or "" when nothing was written.
func (c *Controller) mutate(ctx context.Context, op, name string, fn func(ctx context.Context) (string, error)) State {
	unlock := c.locks.Lock(name)
	action, err := fn(ctx)
	unlock()

	if err != nil {
		logger.Error(ctx).
			Err(err).
			Str("operation", op).
			Str("item", name).
			Msg("Failed to " + op + " item")
		c.metrics.OperationsTotal.WithLabelValues(op, "failed").Inc()
		return c.State()
	}

	if action == "" {
		c.metrics.OperationsTotal.WithLabelValues(op, "noop").Inc()
		return c.State()
	}

	c.metrics.OperationsTotal.WithLabelValues(op, "ok").Inc()
	c.publish(ctx, action, name)
	return c.Refresh(ctx)
}

func (c *Controller) publish(ctx context.Context, action, name string) {
	if c.publisher == nil {
		return
	}
	event := kafka.InventoryChangedEvent{Action: action, Name: name}
	if err := c.publisher.PublishInventoryChanged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("item", name).Msg("Failed to publish inventory change")
	}
}

// HandleInventoryChanged refreshes after another instance wrote to the store
func (c *Controller) HandleInventoryChanged(ctx context.Context, event kafka.InventoryChangedEvent) error {
	logger.Debug(ctx).
		Str("item", event.Name).
		Str("action", event.Action).
		Str("source", event.Source).
		Msg("Remote inventory change")
	c.Refresh(ctx)
	return nil
}

// SetSearchFilter only touches in-memory state
func (c *Controller) SetSearchFilter(text string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = text
	return c.state.clone()
}

// OpenModal opens the add-item modal with empty drafts
func (c *Controller) OpenModal() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = Modal{Open: true}
	return c.state.clone()
}

// SetDraft stores the form values of an open modal. It is ignored while closed.
func (c *Controller) SetDraft(name string, image *DraftImage) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal.Open {
		c.state.Modal.DraftName = name
		c.state.Modal.DraftImage = image
	}
	return c.state.clone()
}

// CancelModal closes the modal and clears the drafts
func (c *Controller) CancelModal() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = Modal{}
	return c.state.clone()
}

// SubmitModal closes the modal and then adds the drafted item. The modal
// closes whether or not the write succeeds. Submitting a closed modal does nothing.
func (c *Controller) SubmitModal(ctx context.Context) State {
	c.mu.Lock()
	modal := c.state.Modal
	c.state.Modal = Modal{}
	c.mu.Unlock()

	if !modal.Open {
		return c.State()
	}
	return c.AddOrIncrement(ctx, modal.DraftName, modal.DraftImage.Upload())
}
