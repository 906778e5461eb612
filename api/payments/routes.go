package payments

import (
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux, store Store, serverKey string, production bool) {
	paymentsRouter := chi.NewRouter()

	handler := Handler{
		Store:      store,
		ServerKey:  serverKey,
		Production: production,
	}

	paymentsRouter.Post("/notifications", handler.NotificationHandler)
	paymentsRouter.Post("/simulate/{orderID}", handler.SimulateHandler)

	r.Mount("/payments", paymentsRouter)
}
