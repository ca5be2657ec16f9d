package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// ImageUpload is an image picked in the add form
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// AddItemCommand represents the command to add an item or bump its quantity
type AddItemCommand struct {
	Name  string
	Image *ImageUpload
}

// AddItemHandler handles add item command
type AddItemHandler struct {
	docs       domain.DocumentStore
	objects    domain.ObjectStore
	collection string
	policy     domain.ImagePolicy
	now        func() time.Time
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(docs domain.DocumentStore, objects domain.ObjectStore, collection string, policy domain.ImagePolicy) *AddItemHandler {
	return &AddItemHandler{
		docs:       docs,
		objects:    objects,
		collection: collection,
		policy:     policy,
		now:        time.Now,
	}
}

// ImagePath is the object store key for an image uploaded for name at t
func ImagePath(name string, t time.Time) string {
	return fmt.Sprintf("inventory/%s-%d", name, t.UnixMilli())
}

// Handle executes the add item command. An uploaded image is not removed
// when the record write fails afterwards.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*domain.Item, error) {
	imageURL := ""
	if cmd.Image != nil {
		url, err := h.uploadImage(ctx, cmd.Name, cmd.Image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	existing, err := h.docs.Get(ctx, h.collection, cmd.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields := domain.Fields{
			domain.FieldQuantity: 1,
			domain.FieldImageURL: imageURL,
		}
		if err := h.docs.Set(ctx, h.collection, cmd.Name, fields, false); err != nil {
			return nil, fmt.Errorf("%w: failed to create item: %w", domain.ErrStoreWriteFailure, err)
		}
		logger.Info(ctx).Str("item", cmd.Name).Msg("Added new item")
		return &domain.Item{Name: cmd.Name, Quantity: 1, ImageURL: imageURL}, nil

	case err != nil:
		return nil, fmt.Errorf("%w: failed to get item: %w", domain.ErrStoreReadFailure, err)
	}

	quantity, _ := existing.Int(domain.FieldQuantity)
	fields := domain.Fields{domain.FieldQuantity: quantity + 1}
	if imageURL != "" || h.policy == domain.ImagePolicyOverwrite {
		fields[domain.FieldImageURL] = imageURL
	}

	if err := h.docs.Set(ctx, h.collection, cmd.Name, fields, true); err != nil {
		return nil, fmt.Errorf("%w: failed to update quantity: %w", domain.ErrStoreWriteFailure, err)
	}
	logger.Info(ctx).Str("item", cmd.Name).Int("quantity", quantity+1).Msg("Updated quantity for item")

	item := domain.ItemFromDocument(domain.Document{Key: cmd.Name, Fields: existing.Merge(fields)})
	return &item, nil
}

func (h *AddItemHandler) uploadImage(ctx context.Context, name string, image *ImageUpload) (string, error) {
	path := ImagePath(name, h.now())

	handle, err := h.objects.Upload(ctx, path, image.Data, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload image: %w", domain.ErrUploadFailure, err)
	}

	url, err := h.objects.DownloadURL(ctx, handle)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve image url: %w", domain.ErrUploadFailure, err)
	}

	logger.Debug(ctx).
		Str("item", name).
		Str("path", path).
		Int64("size", handle.Size).
		Msg("Uploaded item image")
	return url, nil
}
