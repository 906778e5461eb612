package submissions

import (
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux, store Store, checkout *Checkout) {
	submissionsRouter := chi.NewRouter()

	handler := Handler{
		Store:    store,
		Checkout: checkout,
	}

	submissionsRouter.Get("/", handler.ListByEmailHandler)
	submissionsRouter.Get("/{id}", handler.GetSubmissionHandler)
	submissionsRouter.Post("/{id}/payment", handler.RetryPaymentHandler)

	r.Mount("/submissions", submissionsRouter)
}
