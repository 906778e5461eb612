package drafts

import (
	"github.com/Adedunmol/jakpat-univ/api/notifications"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux, drafts wizard.DraftRepository, store submissions.Store, checkout *submissions.Checkout, notifier notifications.Sink, forms FormExtractor) {
	draftsRouter := chi.NewRouter()

	handler := Handler{
		Drafts:      drafts,
		Submissions: store,
		Checkout:    checkout,
		Notifier:    notifier,
		Forms:       forms,
	}

	draftsRouter.Post("/", handler.CreateDraftHandler)
	draftsRouter.Get("/{id}", handler.GetDraftHandler)
	draftsRouter.Patch("/{id}", handler.UpdateDraftHandler)
	draftsRouter.Post("/{id}/next", handler.NextStepHandler)
	draftsRouter.Post("/{id}/prev", handler.PrevStepHandler)
	draftsRouter.Post("/{id}/reset", handler.ResetDraftHandler)
	draftsRouter.Post("/{id}/method", handler.SelectMethodHandler)
	draftsRouter.Post("/{id}/import", handler.ImportFormHandler)
	draftsRouter.Post("/{id}/submit", handler.SubmitDraftHandler)

	r.Mount("/drafts", draftsRouter)
}
