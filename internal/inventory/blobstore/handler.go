package blobstore

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-tracker/pkg/logger"
)

// FileHandler serves uploaded blobs at <prefix>/{path}
type FileHandler struct {
	store *LocalStore
}

func NewFileHandler(store *LocalStore) *FileHandler {
	return &FileHandler{store: store}
}

// RegisterRoutes mounts the file route under prefix, e.g. "/files"
func (h *FileHandler) RegisterRoutes(router *mux.Router, prefix string) {
	router.HandleFunc(prefix+"/{path:.+}", h.ServeFile).Methods("GET", "HEAD")
}

// ServeFile handles GET and HEAD /files/{path}, with range and conditional requests
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	reader, metadata, err := h.store.Open(path)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		logger.Error(r.Context()).Err(err).Str("path", path).Msg("Failed to open object")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", metadata.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, "", metadata.UploadedAt, reader)
}
