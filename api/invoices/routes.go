package invoices

import (
	"github.com/go-chi/chi/v5"
)

// Routes registers the invoice endpoints on the protected admin router.
func Routes(handler *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/submissions/{id}/invoices", handler.CreateInvoiceHandler)
		r.Get("/submissions/{id}/invoices", handler.ListInvoicesHandler)
		r.Patch("/invoices/{id}/status", handler.UpdateStatusHandler)
		r.Get("/invoices/{id}/document", handler.DocumentHandler)
	}
}
