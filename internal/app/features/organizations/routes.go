// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/dalemusser/orgadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Organization routes under the base path
// (typically "/org" from bootstrap).
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.HandleCreate)
	r.Get("/get", h.ServeGet)
	r.Put("/update", h.HandleUpdate)

	// Only the organization's own admin may delete it.
	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireBearer)
		pr.Delete("/delete", h.HandleDelete)
	})

	return r
}
