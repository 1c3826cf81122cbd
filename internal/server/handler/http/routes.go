package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/CafeMenu/internal/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Public *PublicHandler
	Auth   *AuthHandler
	Admin  *AdminHandler
	Health *HealthHandler

	Sessions     *middleware.SessionManager
	LoginLimiter *middleware.LoginRateLimiter
	// Metrics is optional; when nil no /metrics endpoint is mounted.
	Metrics *middleware.Metrics
	// StaticDir, when set, is served under /static/.
	StaticDir string
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For / X-Real-IP. Off,
	// the login limiter keys on the connection address.
	TrustProxy bool
}

// NewRouter constructs the HTTP handler for the whole application.
//
// Routes:
//
//	GET  /                                     → /menu
//	GET  /menu                                 public menu page
//	GET  /api/menu, /api/cold-data             categories with flavors
//	GET  /api/announcement                     banner text
//	GET  /healthz, /metrics
//	GET  /admin/login, POST /admin/login (rate limited), GET /admin/logout
//	GET  /admin, /admin/dashboard, /admin/cold, /admin/flavors/{categoryID}
//	POST /admin/cold/add, /admin/cold/delete/{id}, /admin/cold/{id}/update
//	POST /admin/flavors/{categoryID}/add, /admin/flavors/{categoryID}/delete/{flavorID}
//	POST /admin/announcement
//
// Anonymous admin GETs are redirected to the login page; anonymous admin
// POSTs get 403.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if h.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	if h.Metrics != nil {
		r.Use(h.Metrics.Instrument)
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	r.Get("/", h.Public.Index)
	r.Get("/menu", h.Public.Menu)
	r.Get("/healthz", h.Health.Check)
	if h.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.StaticDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Public.MenuJSON)
		r.Get("/cold-data", h.Public.MenuJSON)
		r.Get("/announcement", h.Public.Announcement)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", h.Auth.LoginPage)
		r.With(h.LoginLimiter.Handler).Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)

		// Pages
		r.Group(func(r chi.Router) {
			r.Use(h.Sessions.RequireAdminPage)
			r.Get("/", h.Admin.Index)
			r.Get("/dashboard", h.Admin.Dashboard)
			r.Get("/cold", h.Admin.Cold)
			r.Get("/flavors/{categoryID}", h.Admin.Flavors)
		})

		// Form actions
		r.Group(func(r chi.Router) {
			r.Use(h.Sessions.RequireAdminAction)
			r.Post("/cold/add", h.Admin.AddCategory)
			r.Post("/cold/delete/{id}", h.Admin.DeleteCategory)
			r.Post("/cold/{id}/update", h.Admin.UpdateCategory)
			r.Post("/flavors/{categoryID}/add", h.Admin.AddFlavor)
			r.Post("/flavors/{categoryID}/delete/{flavorID}", h.Admin.DeleteFlavor)
			r.Post("/announcement", h.Admin.Announcement)
		})
	})

	return r
}
