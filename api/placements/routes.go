package placements

import (
	"github.com/go-chi/chi/v5"
)

// Routes registers the placement endpoints on the protected admin router.
func Routes(handler *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/submissions/{id}/placements", handler.CreatePlacementHandler)
		r.Get("/placements", handler.ListPlacementsHandler)
		r.Delete("/placements/{id}", handler.CancelPlacementHandler)
	}
}
