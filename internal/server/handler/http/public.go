package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// MenuReader is the read side of the menu used by public pages.
type MenuReader interface {
	// Menu returns every category in display order with its flavor names.
	Menu(ctx context.Context) ([]models.MenuCategory, error)
}

// AnnouncementReader returns the public banner text.
type AnnouncementReader interface {
	Announcement(ctx context.Context) (string, error)
}

// PublicHandler serves the menu page and its JSON API.
type PublicHandler struct {
	MenuService     MenuReader
	SettingsService AnnouncementReader
	Renderer        *Renderer
	Log             *zap.Logger
}

// MenuResponse is the body of GET /api/menu.
type MenuResponse struct {
	Categories []models.MenuCategory `json:"categories"`
}

// AnnouncementResponse is the body of GET /api/announcement.
type AnnouncementResponse struct {
	Text string `json:"text"`
}

// Index redirects to the menu page.
func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/menu", http.StatusFound)
}

// Menu renders the static menu shell; the data is loaded from /api/menu.
func (h *PublicHandler) Menu(w http.ResponseWriter, r *http.Request) {
	if err := h.Renderer.Render(w, http.StatusOK, "menu.html", nil); err != nil {
		internalError(w, h.Log, "render menu", err)
	}
}

// MenuJSON returns all categories with their flavors.
func (h *PublicHandler) MenuJSON(w http.ResponseWriter, r *http.Request) {
	cats, err := h.MenuService.Menu(r.Context())
	if err != nil {
		internalError(w, h.Log, "load menu", err)
		return
	}
	writeJSON(w, MenuResponse{Categories: cats})
}

// Announcement returns the banner text, empty when none is set.
func (h *PublicHandler) Announcement(w http.ResponseWriter, r *http.Request) {
	text, err := h.SettingsService.Announcement(r.Context())
	if err != nil {
		internalError(w, h.Log, "load announcement", err)
		return
	}
	writeJSON(w, AnnouncementResponse{Text: text})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
