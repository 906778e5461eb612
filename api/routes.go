package api

import (
	"net/http"

	"github.com/Adedunmol/jakpat-univ/api/admin"
	"github.com/Adedunmol/jakpat-univ/api/drafts"
	"github.com/Adedunmol/jakpat-univ/api/formimport"
	"github.com/Adedunmol/jakpat-univ/api/invoices"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/notifications"
	"github.com/Adedunmol/jakpat-univ/api/payments"
	"github.com/Adedunmol/jakpat-univ/api/placements"
	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Dependencies struct {
	Submissions submissions.Store
	Checkout    *submissions.Checkout
	Drafts      wizard.DraftRepository
	Notifier    notifications.Sink
	Importer    *formimport.Importer

	PaymentServerKey  string
	PaymentProduction bool

	Admin      *admin.Handler
	Invoices   *invoices.Handler
	Placements *placements.Handler
}

func Routes(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Logger, NoColor: true}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", formimport.TokenHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/check", func(w http.ResponseWriter, r *http.Request) {
		jsonutil.WriteJSONResponse(w, jsonutil.Response{Status: "success", Message: "hello from jakpat for universities"}, http.StatusOK)
	})

	pricing.SetupRoutes(r)
	formimport.SetupRoutes(r, deps.Importer)
	drafts.SetupRoutes(r, deps.Drafts, deps.Submissions, deps.Checkout, deps.Notifier, deps.Importer)
	submissions.SetupRoutes(r, deps.Submissions, deps.Checkout)
	payments.SetupRoutes(r, deps.Submissions, deps.PaymentServerKey, deps.PaymentProduction)
	admin.SetupRoutes(r, deps.Admin, invoices.Routes(deps.Invoices), placements.Routes(deps.Placements))

	return r
}
