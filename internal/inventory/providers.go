package inventory

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-tracker/internal/config"
	"github.com/tair/inventory-tracker/internal/inventory/blobstore"
	"github.com/tair/inventory-tracker/internal/inventory/controller"
	grpcDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/http"
	"github.com/tair/inventory-tracker/internal/inventory/docstore"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/metrics"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/command"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/query"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// App bundles everything the serve command mounts
type App struct {
	Handler    *httpDelivery.InventoryHandler
	Files      *blobstore.FileHandler
	Controller *controller.Controller
	Health     *grpcDelivery.HealthServer
	Metrics    *metrics.Metrics
	Store      domain.DocumentStore
}

// ProvideMetrics registers the tracker metrics on reg
func ProvideMetrics(reg prometheus.Registerer) *metrics.Metrics {
	return metrics.New(reg)
}

// ProvideDocumentStore opens the configured document store
func ProvideDocumentStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (domain.DocumentStore, func(), error) {
	store, err := docstore.Open(ctx, cfg.Store, m)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close document store")
		}
	}
	return store, cleanup, nil
}

// ProvideObjectStore opens the local blob store served under /files
func ProvideObjectStore(cfg *config.Config) (*blobstore.LocalStore, func(), error) {
	store, err := blobstore.NewLocalStore(cfg.BlobRoot, cfg.PublicBaseURL+config.FilesPrefix)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close object store")
		}
	}
	return store, cleanup, nil
}

// ProvideAddItemHandler provides the add-or-increment command handler
func ProvideAddItemHandler(docs domain.DocumentStore, objects domain.ObjectStore, cfg *config.Config) *command.AddItemHandler {
	return command.NewAddItemHandler(docs, objects, cfg.Collection, cfg.ImagePolicy)
}

// ProvideDecreaseQuantityHandler provides the decrement command handler
func ProvideDecreaseQuantityHandler(docs domain.DocumentStore, cfg *config.Config) *command.DecreaseQuantityHandler {
	return command.NewDecreaseQuantityHandler(docs, cfg.Collection)
}

// ProvideRemoveItemHandler provides the remove command handler
func ProvideRemoveItemHandler(docs domain.DocumentStore, cfg *config.Config) *command.RemoveItemHandler {
	return command.NewRemoveItemHandler(docs, cfg.Collection)
}

// ProvideListItemsHandler provides the list query handler
func ProvideListItemsHandler(docs domain.DocumentStore, cfg *config.Config) *query.ListItemsHandler {
	return query.NewListItemsHandler(docs, cfg.Collection)
}

// ProvideGetItemHandler provides the single item query handler
func ProvideGetItemHandler(docs domain.DocumentStore, cfg *config.Config) *query.GetItemHandler {
	return query.NewGetItemHandler(docs, cfg.Collection)
}
