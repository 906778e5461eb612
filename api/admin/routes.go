package admin

import (
	"github.com/Adedunmol/jakpat-univ/api/middlewares"
	"github.com/Adedunmol/jakpat-univ/api/tokens"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts /admin. Everything except login requires an admin token; extra
// registers routes owned by other packages inside the protected group.
func SetupRoutes(r *chi.Mux, handler *Handler, extra ...func(chi.Router)) {
	adminRouter := chi.NewRouter()

	adminRouter.Post("/login", handler.LoginHandler)

	adminRouter.Group(func(protected chi.Router) {
		protected.Use(middlewares.AuthMiddleware(handler.Token))
		protected.Use(middlewares.RequireRole(tokens.RoleAdmin))

		protected.Get("/submissions", handler.ListSubmissionsHandler)
		protected.Get("/submissions/{id}", handler.GetSubmissionHandler)
		protected.Patch("/submissions/{id}/status", handler.UpdateStatusHandler)
		protected.Patch("/submissions/{id}/payment-status", handler.UpdatePaymentStatusHandler)
		protected.Patch("/submissions/{id}/criteria", handler.UpdateCriteriaHandler)
		protected.Post("/submissions/{id}/notify", handler.NotifyHandler)

		for _, register := range extra {
			register(protected)
		}
	})

	r.Mount("/admin", adminRouter)
}
