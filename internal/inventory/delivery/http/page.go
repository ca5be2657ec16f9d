package http

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-tracker/internal/inventory/controller"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageRenderer renders the inventory page from a state snapshot
type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	tmpl := template.Must(template.New("").
		Funcs(template.FuncMap{"displayName": domain.DisplayName}).
		ParseFS(templateFS, "templates/*.html"))
	return &pageRenderer{tmpl: tmpl}
}

type pageView struct {
	Items  []domain.Item
	Filter string
	Modal  controller.Modal
}

func (p *pageRenderer) render(w http.ResponseWriter, r *http.Request, state controller.State) {
	view := pageView{
		Items:  state.Filtered(),
		Filter: state.Filter,
		Modal:  state.Modal,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, "index.html", view); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to render page")
	}
}

func (h *InventoryHandler) registerPageRoutes(router *mux.Router) {
	static, _ := fs.Sub(staticFS, "static")
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.HandleFunc("/", h.Page).Methods("GET")
	router.HandleFunc("/modal/open", h.OpenModal).Methods("GET")
	router.HandleFunc("/modal/cancel", h.CancelModal).Methods("POST")
	router.HandleFunc("/modal/submit", h.SubmitModal).Methods("POST")
	router.HandleFunc("/search", h.Search).Methods("POST")
	router.HandleFunc("/items/increase", h.IncreasePage).Methods("POST")
	router.HandleFunc("/items/decrease", h.DecreasePage).Methods("POST")
	router.HandleFunc("/items/remove", h.RemovePage).Methods("POST")
}

// Page handles GET / and reloads the list like a fresh mount
func (h *InventoryHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.page.render(w, r, h.ctrl.Refresh(r.Context()))
}

// OpenModal handles GET /modal/open
func (h *InventoryHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	h.page.render(w, r, h.ctrl.OpenModal())
}

// CancelModal handles POST /modal/cancel
func (h *InventoryHandler) CancelModal(w http.ResponseWriter, r *http.Request) {
	h.ctrl.CancelModal()
	redirectHome(w, r)
}

// SubmitModal handles POST /modal/submit. The modal closes even when the
// form cannot be read.
func (h *InventoryHandler) SubmitModal(w http.ResponseWriter, r *http.Request) {
	name, draft, err := parseAddRequest(r)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to read add item form")
		h.ctrl.CancelModal()
		redirectHome(w, r)
		return
	}

	h.ctrl.SetDraft(name, draft)
	h.ctrl.SubmitModal(r.Context())
	redirectHome(w, r)
}

// Search handles POST /search
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.ctrl.SetSearchFilter(r.FormValue("q"))
	redirectHome(w, r)
}

// IncreasePage handles POST /items/increase
func (h *InventoryHandler) IncreasePage(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, h.ctrl.Increment)
}

// DecreasePage handles POST /items/decrease
func (h *InventoryHandler) DecreasePage(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, h.ctrl.Decrement)
}

// RemovePage handles POST /items/remove
func (h *InventoryHandler) RemovePage(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, h.ctrl.Remove)
}

// itemAction reads the item name from the form body. The name never travels
// in the path, so any key (empty included) reaches the controller unchanged.
func (h *InventoryHandler) itemAction(w http.ResponseWriter, r *http.Request, op func(context.Context, string) controller.State) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	names, ok := r.PostForm["name"]
	if !ok || len(names) != 1 {
		http.Error(w, "Missing item name", http.StatusBadRequest)
		return
	}

	op(r.Context(), names[0])
	redirectHome(w, r)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
