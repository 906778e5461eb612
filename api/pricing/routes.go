package pricing

import "github.com/go-chi/chi/v5"

func SetupRoutes(r *chi.Mux) {
	pricingRouter := chi.NewRouter()

	handler := Handler{}

	pricingRouter.Post("/quote", handler.QuoteHandler)
	pricingRouter.Get("/vouchers/{code}", handler.GetVoucherHandler)

	r.Mount("/pricing", pricingRouter)
}
