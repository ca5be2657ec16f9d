package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-tracker/internal/inventory/controller"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/usecase/query"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// maxUploadBytes caps a multipart add request, image included
const maxUploadBytes = 10 << 20

// InventoryHandler handles HTTP requests for the inventory page and API
type InventoryHandler struct {
	ctrl       *controller.Controller
	getHandler *query.GetItemHandler
	store      domain.DocumentStore
	page       *pageRenderer
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(ctrl *controller.Controller, getHandler *query.GetItemHandler, store domain.DocumentStore) *InventoryHandler {
	return &InventoryHandler{
		ctrl:       ctrl,
		getHandler: getHandler,
		store:      store,
		page:       newPageRenderer(),
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type itemsPayload struct {
	Items []domain.Item `json:"items"`
	Count int           `json:"count"`
}

func newItemsPayload(items []domain.Item) itemsPayload {
	if items == nil {
		items = []domain.Item{}
	}
	return itemsPayload{Items: items, Count: len(items)}
}

// ListItems handles GET /api/items
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	state := h.ctrl.Refresh(r.Context())
	items := domain.FilterByName(state.Items, r.URL.Query().Get("q"))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newItemsPayload(items),
	})
}

// GetItem handles GET /api/items/{name}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	name := itemName(r)

	item, err := h.getHandler.Handle(r.Context(), query.GetItemQuery{Name: name})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Item not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Str("item", name).Msg("Failed to get item")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get item",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// AddItem handles POST /api/items (JSON or multipart with an optional image)
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	name, draft, err := parseAddRequest(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	state := h.ctrl.AddOrIncrement(r.Context(), name, draft.Upload())

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Add processed",
		Data:    newItemsPayload(state.Items),
	})
}

// IncrementItem handles POST /api/items/{name}/increment
func (h *InventoryHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	state := h.ctrl.Increment(r.Context(), itemName(r))
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Increment processed",
		Data:    newItemsPayload(state.Items),
	})
}

// DecrementItem handles POST /api/items/{name}/decrement
func (h *InventoryHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	state := h.ctrl.Decrement(r.Context(), itemName(r))
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Decrement processed",
		Data:    newItemsPayload(state.Items),
	})
}

// RemoveItem handles DELETE /api/items/{name}
func (h *InventoryHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	state := h.ctrl.Remove(r.Context(), itemName(r))
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Remove processed",
		Data:    newItemsPayload(state.Items),
	})
}

// RegisterRoutes registers the page and API routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	h.registerPageRoutes(router)

	// Names are matched escaped and unescaped in itemName, so "%41pple",
	// "a/b" or "what?" reach the controller as sent. Names made only of dots
	// are still cleaned away by the root router and are reachable through the
	// page routes, which carry the name in the form body.
	api := router.PathPrefix("/api").Subrouter()
	api.UseEncodedPath()
	api.HandleFunc("/items", h.ListItems).Methods("GET")
	api.HandleFunc("/items", h.AddItem).Methods("POST")
	api.HandleFunc("/items/{name:.+}/increment", h.IncrementItem).Methods("POST")
	api.HandleFunc("/items/{name:.+}/decrement", h.DecrementItem).Methods("POST")
	api.HandleFunc("/items/{name:.+}", h.GetItem).Methods("GET")
	api.HandleFunc("/items/{name:.+}", h.RemoveItem).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Document store unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory tracker is healthy",
		})
	}).Methods("GET")
}

// itemName returns the unescaped {name} of an API route
func itemName(r *http.Request) string {
	raw := mux.Vars(r)["name"]
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

// parseAddRequest reads the item name and an optional image from a JSON,
// multipart or urlencoded body
func parseAddRequest(r *http.Request) (string, *controller.DraftImage, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", nil, err
		}
		return req.Name, nil, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", nil, err
	}

	draft, err := readImage(r)
	if err != nil {
		return "", nil, err
	}
	return r.FormValue("name"), draft, nil
}

// readImage returns nil when the request carries no image part
func readImage(r *http.Request) (*controller.DraftImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &controller.DraftImage{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
