package http

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/CafeMenu/internal/models"
)

const coldPath = "/admin/cold"

// MenuService defines the category and flavor operations behind the admin pages.
type MenuService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, id int64) (*models.Category, error)
	Flavors(ctx context.Context, categoryID int64) ([]models.Flavor, error)
	Counts(ctx context.Context) (models.Counts, error)
	AddCategory(ctx context.Context, form models.CategoryForm) error
	UpdateCategory(ctx context.Context, id int64, form models.CategoryForm) error
	DeleteCategory(ctx context.Context, id int64) error
	AddFlavor(ctx context.Context, categoryID int64, name string) error
	DeleteFlavor(ctx context.Context, categoryID, flavorID int64) error
}

// SettingsService reads and writes the announcement banner.
type SettingsService interface {
	Announcement(ctx context.Context) (string, error)
	SetAnnouncement(ctx context.Context, text string) error
}

// AdminHandler serves the authenticated admin pages and form actions.
// Form actions that fail validation or address a stale id redirect back
// without changing anything.
type AdminHandler struct {
	MenuService     MenuService
	SettingsService SettingsService
	Renderer        *Renderer
	Log             *zap.Logger
}

type dashboardPage struct {
	Counts       models.Counts
	Announcement string
}

type coldPage struct {
	Categories []models.Category
}

type flavorsPage struct {
	Category *models.Category
	Flavors  []models.Flavor
}

// Index redirects to the dashboard.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DashboardPath, http.StatusFound)
}

// Dashboard shows category and flavor counts and the announcement form.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.MenuService.Counts(r.Context())
	if err != nil {
		internalError(w, h.Log, "load counts", err)
		return
	}
	text, err := h.SettingsService.Announcement(r.Context())
	if err != nil {
		internalError(w, h.Log, "load announcement", err)
		return
	}
	h.render(w, "admin_dashboard.html", dashboardPage{Counts: counts, Announcement: text})
}

// Cold lists the categories with their edit forms.
func (h *AdminHandler) Cold(w http.ResponseWriter, r *http.Request) {
	cats, err := h.MenuService.Categories(r.Context())
	if err != nil {
		internalError(w, h.Log, "load categories", err)
		return
	}
	h.render(w, "admin_cold.html", coldPage{Categories: cats})
}

// Flavors lists one category's flavors. Unknown categories go back to the list.
func (h *AdminHandler) Flavors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		http.Redirect(w, r, coldPath, http.StatusFound)
		return
	}
	cat, err := h.MenuService.Category(r.Context(), id)
	if err != nil {
		if isNoop(err) {
			http.Redirect(w, r, coldPath, http.StatusFound)
			return
		}
		internalError(w, h.Log, "load category", err)
		return
	}
	flavors, err := h.MenuService.Flavors(r.Context(), id)
	if err != nil {
		internalError(w, h.Log, "load flavors", err)
		return
	}
	h.render(w, "admin_flavors.html", flavorsPage{Category: cat, Flavors: flavors})
}

// AddCategory handles POST /admin/cold/add.
func (h *AdminHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, coldPath, "add category", models.ErrInvalidInput)
		return
	}
	err := h.MenuService.AddCategory(r.Context(), categoryForm(r))
	h.done(w, r, coldPath, "add category", err)
}

// UpdateCategory handles POST /admin/cold/{id}/update.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.done(w, r, coldPath, "update category", models.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.done(w, r, coldPath, "update category", models.ErrInvalidInput)
		return
	}
	err := h.MenuService.UpdateCategory(r.Context(), id, categoryForm(r))
	h.done(w, r, coldPath, "update category", err)
}

// DeleteCategory handles POST /admin/cold/delete/{id}.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.done(w, r, coldPath, "delete category", models.ErrNotFound)
		return
	}
	h.done(w, r, coldPath, "delete category", h.MenuService.DeleteCategory(r.Context(), id))
}

// AddFlavor handles POST /admin/flavors/{categoryID}/add.
func (h *AdminHandler) AddFlavor(w http.ResponseWriter, r *http.Request) {
	cid, ok := pathID(r, "categoryID")
	if !ok {
		h.done(w, r, coldPath, "add flavor", models.ErrNotFound)
		return
	}
	back := flavorsPath(cid)
	if err := r.ParseForm(); err != nil {
		h.done(w, r, back, "add flavor", models.ErrInvalidInput)
		return
	}
	err := h.MenuService.AddFlavor(r.Context(), cid, r.PostForm.Get("name"))
	h.done(w, r, back, "add flavor", err)
}

// DeleteFlavor handles POST /admin/flavors/{categoryID}/delete/{flavorID}.
// A flavor id from another category is left alone.
func (h *AdminHandler) DeleteFlavor(w http.ResponseWriter, r *http.Request) {
	cid, ok := pathID(r, "categoryID")
	if !ok {
		h.done(w, r, coldPath, "delete flavor", models.ErrNotFound)
		return
	}
	back := flavorsPath(cid)
	fid, ok := pathID(r, "flavorID")
	if !ok {
		h.done(w, r, back, "delete flavor", models.ErrNotFound)
		return
	}
	h.done(w, r, back, "delete flavor", h.MenuService.DeleteFlavor(r.Context(), cid, fid))
}

// Announcement handles POST /admin/announcement. An empty text clears the banner.
func (h *AdminHandler) Announcement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, DashboardPath, "set announcement", models.ErrInvalidInput)
		return
	}
	err := h.SettingsService.SetAnnouncement(r.Context(), r.PostForm.Get("announcement"))
	h.done(w, r, DashboardPath, "set announcement", err)
}

// done finishes a form action: store failures become 500, everything else
// redirects to back.
func (h *AdminHandler) done(w http.ResponseWriter, r *http.Request, back, op string, err error) {
	switch {
	case err == nil:
		h.Log.Info("admin action", zap.String("op", op))
	case isNoop(err):
		h.Log.Debug("admin action ignored", zap.String("op", op), zap.Error(err))
	default:
		internalError(w, h.Log, op, err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *AdminHandler) render(w http.ResponseWriter, name string, data any) {
	if err := h.Renderer.Render(w, http.StatusOK, name, data); err != nil {
		internalError(w, h.Log, "render "+name, err)
	}
}

func categoryForm(r *http.Request) models.CategoryForm {
	return models.CategoryForm{
		Key:   r.PostForm.Get("key"),
		Title: r.PostForm.Get("title"),
		Img:   r.PostForm.Get("img"),
		Price: r.PostForm.Get("price"),
		Note:  r.PostForm.Get("note"),
	}
}

func flavorsPath(categoryID int64) string {
	return fmt.Sprintf("/admin/flavors/%d", categoryID)
}
