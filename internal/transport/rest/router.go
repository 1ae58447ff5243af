package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/wofodev/meerkat/internal/auth"
	"github.com/wofodev/meerkat/internal/authz"
	"github.com/wofodev/meerkat/internal/grant"
	"github.com/wofodev/meerkat/internal/group"
	"github.com/wofodev/meerkat/internal/page"
	"github.com/wofodev/meerkat/internal/report"
	"github.com/wofodev/meerkat/internal/section"
	"github.com/wofodev/meerkat/internal/transport/middleware"
	"github.com/wofodev/meerkat/internal/transport/swagger"
	"github.com/wofodev/meerkat/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Group   *group.Handler
	Section *section.Handler
	Page    *page.Handler
	Grant   *grant.Handler
	Report  *report.Handler
	Gate    *authz.Gate
}

// RegisterAllRoutes mounts the API under /api/v1. Directory maintenance
// lives under /admin and is double-gated: a valid session plus the admin
// effective group.
func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Session-bearing routes.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.SessionMiddleware)

			pr.Get("/users/me", h.Auth.CurrentSession)

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/", h.Report.List)
				rr.Get("/sections", h.Report.Sections)
				rr.Get("/{ref}", h.Report.Open)
			})

			// Directory maintenance requires the admin group.
			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(h.Gate.RequireAdmin())

				ar.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.List)
					ur.Post("/", h.User.Create)
					ur.Put("/{code}", h.User.Update)
					ur.Delete("/{code}", h.User.Delete)
					ur.Put("/{code}/password", h.User.ChangePassword)
				})

				ar.Route("/groups", func(gr chi.Router) {
					gr.Get("/", h.Group.List)
					gr.Post("/", h.Group.Create)
					gr.Put("/{code}", h.Group.Update)
					gr.Delete("/{code}", h.Group.Delete)
				})

				ar.Route("/sections", func(sr chi.Router) {
					sr.Get("/", h.Section.List)
					sr.Post("/", h.Section.Create)
					sr.Put("/{code}", h.Section.Update)
					sr.Delete("/{code}", h.Section.Delete)
				})

				ar.Route("/pages", func(pgr chi.Router) {
					pgr.Get("/", h.Page.List)
					pgr.Post("/", h.Page.Create)
					pgr.Put("/{ref}", h.Page.Update)
					pgr.Delete("/{ref}", h.Page.Delete)
				})

				ar.Route("/grants", func(gr chi.Router) {
					gr.Get("/", h.Grant.List)
					gr.Post("/", h.Grant.Create)
					gr.Put("/{id}", h.Grant.Update)
					gr.Delete("/{id}", h.Grant.Delete)
				})
			})
		})
	})
}
