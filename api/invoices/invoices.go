package invoices

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/Adedunmol/jakpat-univ/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SubmissionGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (database.FormSubmission, error)
}

type Handler struct {
	Store       Store
	Submissions SubmissionGetter
	Documents   storage.ObjectStore
	Queue       queue.Queue
	Now         func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// CreateInvoiceHandler bills a submission. Rendering and upload problems are logged; the
// invoice row is kept without a document in that case.
func (h *Handler) CreateInvoiceHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	data, err := jsonutil.UnmarshalJsonResponse[CreateInvoiceBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	submissionID, ok := parseID(responseWriter, request, "invalid submission id")
	if !ok {
		return
	}

	submission, err := h.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		writeStoreError(responseWriter, err, "submission not found")
		return
	}

	switch submission.Status {
	case database.SubmissionStatusRejected, database.SubmissionStatusCancelled:
		jsonutil.WriteError(responseWriter, "cannot invoice a "+submission.Status+" submission", http.StatusConflict)
		return
	}

	invoice, err := h.Store.Create(ctx, Build(submission, data.DueInDays, data.Notes, h.now()))
	if err != nil {
		writeStoreError(responseWriter, err, "invoice not found")
		return
	}

	entry := logger.WithFields(map[string]any{"submission_id": submission.ID, "invoice": invoice.InvoiceNumber})
	document := NewDocument(submission, invoice)

	if key, err := h.storeDocument(ctx, invoice, document); err != nil {
		entry.WithError(err).Warn("invoice document not stored")
	} else if key != "" {
		invoice.DocumentKey.String, invoice.DocumentKey.Valid = key, true
	}

	payload := &queue.EmailDeliveryPayload{
		Name:     "invoice",
		Template: mail.TemplateInvoice,
		Subject:  "Invoice " + invoice.InvoiceNumber,
		Email:    submission.Email,
		Data:     document,
	}
	if err := h.Queue.Enqueue(payload); err != nil {
		entry.WithError(err).Error("error queueing invoice mail")
	}

	entry.Info("invoice created")

	response := jsonutil.Response{
		Status:  "success",
		Message: "invoice created",
		Data:    invoice,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

func (h *Handler) storeDocument(ctx context.Context, invoice database.Invoice, document Document) (string, error) {
	if h.Documents == nil {
		return "", nil
	}

	body, err := mail.Render(mail.TemplateInvoice, document)
	if err != nil {
		return "", err
	}

	key := DocumentKey(invoice)
	if err := h.Documents.Upload(ctx, key, "text/html; charset=utf-8", []byte(body)); err != nil {
		return "", err
	}

	if err := h.Store.SetDocumentKey(ctx, invoice.ID, key); err != nil {
		return "", err
	}
	return key, nil
}

func (h *Handler) ListInvoicesHandler(responseWriter http.ResponseWriter, request *http.Request) {
	submissionID, ok := parseID(responseWriter, request, "invalid submission id")
	if !ok {
		return
	}

	data, err := h.Store.ListBySubmission(request.Context(), submissionID)
	if err != nil {
		writeStoreError(responseWriter, err, "invoice not found")
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved invoices successfully",
		Data:    data,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) UpdateStatusHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[StatusBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	id, ok := parseID(responseWriter, request, "invalid invoice id")
	if !ok {
		return
	}

	invoice, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err, "invoice not found")
		return
	}

	if !canTransition(invoice.Status, data.Status) {
		jsonutil.WriteError(responseWriter, "invoice is already "+invoice.Status, http.StatusConflict)
		return
	}

	updated, err := h.Store.UpdateStatus(request.Context(), id, data.Status)
	if err != nil {
		writeStoreError(responseWriter, err, "invoice not found")
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "invoice status updated",
		Data:    updated,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// DocumentHandler streams the stored HTML invoice.
func (h *Handler) DocumentHandler(responseWriter http.ResponseWriter, request *http.Request) {
	id, ok := parseID(responseWriter, request, "invalid invoice id")
	if !ok {
		return
	}

	invoice, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err, "invoice not found")
		return
	}

	if !invoice.DocumentKey.Valid || h.Documents == nil {
		jsonutil.WriteError(responseWriter, "invoice has no stored document", http.StatusNotFound)
		return
	}

	body, err := h.Documents.Download(request.Context(), invoice.DocumentKey.String)
	if err != nil {
		writeStoreError(responseWriter, err, "invoice document not found")
		return
	}

	responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	responseWriter.WriteHeader(http.StatusOK)
	if _, err := responseWriter.Write(body); err != nil {
		logger.WithError(err).Warn("error writing invoice document")
	}
}

func parseID(responseWriter http.ResponseWriter, request *http.Request, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.WriteError(responseWriter, message, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(responseWriter http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, custom_errors.ErrNotFound):
		jsonutil.WriteError(responseWriter, notFound, http.StatusNotFound)
	case errors.Is(err, custom_errors.ErrConflict):
		jsonutil.WriteError(responseWriter, "invoice number already used, please retry", http.StatusConflict)
	default:
		logger.WithError(err).Error("invoice store error")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
	}
}
