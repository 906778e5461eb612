package formimport

import (
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux, importer *Importer) {
	formsRouter := chi.NewRouter()

	handler := Handler{
		Importer: importer,
	}

	formsRouter.Get("/auth-url", handler.AuthURLHandler)
	formsRouter.Post("/token", handler.AuthenticateHandler)
	formsRouter.Get("/forms", handler.ListFormsHandler)
	formsRouter.Post("/pick", handler.PickFormHandler)
	formsRouter.Get("/forms/{formID}", handler.ExtractFormHandler)

	r.Mount("/forms/google", formsRouter)
}
