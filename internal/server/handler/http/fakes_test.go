package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// fakeMenuService implements MenuService and MenuReader for testing.
type fakeMenuService struct {
	menu     []models.MenuCategory
	cats     []models.Category
	cat      *models.Category
	flavors  []models.Flavor
	counts   models.Counts
	err      error // returned by every call when set
	calls    []string
	lastForm models.CategoryForm
	lastIDs  []int64
}

func (f *fakeMenuService) record(name string, form models.CategoryForm, ids ...int64) error {
	f.calls = append(f.calls, name)
	f.lastForm = form
	f.lastIDs = ids
	return f.err
}

func (f *fakeMenuService) Menu(ctx context.Context) ([]models.MenuCategory, error) {
	return f.menu, f.record("Menu", models.CategoryForm{})
}
func (f *fakeMenuService) Categories(ctx context.Context) ([]models.Category, error) {
	return f.cats, f.record("Categories", models.CategoryForm{})
}
func (f *fakeMenuService) Category(ctx context.Context, id int64) (*models.Category, error) {
	if err := f.record("Category", models.CategoryForm{}, id); err != nil {
		return nil, err
	}
	return f.cat, nil
}
func (f *fakeMenuService) Flavors(ctx context.Context, categoryID int64) ([]models.Flavor, error) {
	f.calls = append(f.calls, "Flavors")
	return f.flavors, nil
}
func (f *fakeMenuService) Counts(ctx context.Context) (models.Counts, error) {
	return f.counts, f.record("Counts", models.CategoryForm{})
}
func (f *fakeMenuService) AddCategory(ctx context.Context, form models.CategoryForm) error {
	return f.record("AddCategory", form)
}
func (f *fakeMenuService) UpdateCategory(ctx context.Context, id int64, form models.CategoryForm) error {
	return f.record("UpdateCategory", form, id)
}
func (f *fakeMenuService) DeleteCategory(ctx context.Context, id int64) error {
	return f.record("DeleteCategory", models.CategoryForm{}, id)
}
func (f *fakeMenuService) AddFlavor(ctx context.Context, categoryID int64, name string) error {
	return f.record("AddFlavor", models.CategoryForm{Title: name}, categoryID)
}
func (f *fakeMenuService) DeleteFlavor(ctx context.Context, categoryID, flavorID int64) error {
	return f.record("DeleteFlavor", models.CategoryForm{}, categoryID, flavorID)
}

// fakeSettingsService implements SettingsService and AnnouncementReader.
type fakeSettingsService struct {
	text string
	err  error
}

func (f *fakeSettingsService) Announcement(ctx context.Context) (string, error) {
	return f.text, f.err
}
func (f *fakeSettingsService) SetAnnouncement(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

// fakeSessions implements SessionStore.
type fakeSessions struct {
	authenticated bool
	setErr        error
	setCalled     bool
	cleared       bool
}

func (f *fakeSessions) IsAuthenticated(r *http.Request) bool { return f.authenticated }
func (f *fakeSessions) SetAuthenticated(w http.ResponseWriter, r *http.Request) error {
	f.setCalled = true
	return f.setErr
}
func (f *fakeSessions) Clear(w http.ResponseWriter, r *http.Request) error {
	f.cleared = true
	return nil
}

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rd
}

// withURLParams attaches chi URL parameters given as name/value pairs.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
