package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the inventory tracker
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListItems godoc
// @Summary List inventory items
// @Description Reload the inventory and return it, optionally filtered by a case-insensitive name substring
// @Tags Inventory
// @Produce json
// @Param q query string false "Name filter"
// @Success 200 {object} object{success=bool,data=object{items=array,count=int}}
// @Router /api/items [get]
func (h *InventoryHandler) ListItemsDoc() {}

// GetItem godoc
// @Summary Get an item
// @Description Read a single item by name
// @Tags Inventory
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} object{success=bool,data=object{name=string,quantity=int,imageUrl=string}}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/items/{name} [get]
func (h *InventoryHandler) GetItemDoc() {}

// AddItem godoc
// @Summary Add or increment an item
// @Description Create the item with quantity 1 or increase an existing one. Multipart requests may carry an image.
// @Tags Inventory
// @Accept json,mpfd
// @Produce json
// @Param name formData string false "Item name (multipart)"
// @Param image formData file false "Item image (multipart)"
// @Success 200 {object} object{success=bool,message=string,data=object{items=array,count=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/items [post]
func (h *InventoryHandler) AddItemDoc() {}

// IncrementItem godoc
// @Summary Increase an item
// @Description Add one unit, creating the item when missing
// @Tags Inventory
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} object{success=bool,message=string,data=object{items=array,count=int}}
// @Router /api/items/{name}/increment [post]
func (h *InventoryHandler) IncrementItemDoc() {}

// DecrementItem godoc
// @Summary Decrease an item
// @Description Take one unit, deleting the item at the last one. Missing items are ignored.
// @Tags Inventory
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} object{success=bool,message=string,data=object{items=array,count=int}}
// @Router /api/items/{name}/decrement [post]
func (h *InventoryHandler) DecrementItemDoc() {}

// RemoveItem godoc
// @Summary Remove an item
// @Description Delete the item whatever its quantity
// @Tags Inventory
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} object{success=bool,message=string,data=object{items=array,count=int}}
// @Router /api/items/{name} [delete]
func (h *InventoryHandler) RemoveItemDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and document store connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
