//go:build wireinject
// +build wireinject

package inventory

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-tracker/internal/config"
	"github.com/tair/inventory-tracker/internal/inventory/blobstore"
	"github.com/tair/inventory-tracker/internal/inventory/controller"
	grpcDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/http"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// Wire sets
var StoreSet = wire.NewSet(
	ProvideMetrics,
	ProvideDocumentStore,
	ProvideObjectStore,
	wire.Bind(new(domain.ObjectStore), new(*blobstore.LocalStore)),
)

var UsecaseSet = wire.NewSet(
	ProvideAddItemHandler,
	ProvideDecreaseQuantityHandler,
	ProvideRemoveItemHandler,
	ProvideListItemsHandler,
	ProvideGetItemHandler,
)

var DeliverySet = wire.NewSet(
	controller.New,
	httpDelivery.NewInventoryHandler,
	blobstore.NewFileHandler,
	grpcDelivery.NewHealthServer,
)

// InitializeApp builds the tracker with all dependencies. publisher may be nil.
func InitializeApp(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, publisher controller.EventPublisher) (*App, func(), error) {
	wire.Build(
		StoreSet,
		UsecaseSet,
		DeliverySet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
