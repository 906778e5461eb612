package submissions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	Store    Store
	Checkout *Checkout
}

func (h *Handler) ListByEmailHandler(responseWriter http.ResponseWriter, request *http.Request) {
	email := strings.TrimSpace(request.URL.Query().Get("email"))
	if email == "" {
		jsonutil.WriteError(responseWriter, "email query parameter is required", http.StatusBadRequest)
		return
	}

	data, err := h.Store.GetByEmail(request.Context(), email)
	if err != nil {
		logger.WithError(err).Error("error listing submissions by email")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved submissions successfully",
		Data:    data,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) GetSubmissionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.WriteError(responseWriter, "invalid submission id", http.StatusBadRequest)
		return
	}

	data, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved submission successfully",
		Data:    data,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// RetryPaymentHandler opens a fresh payment for a submission whose first attempt did not go through.
func (h *Handler) RetryPaymentHandler(responseWriter http.ResponseWriter, request *http.Request) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.WriteError(responseWriter, "invalid submission id", http.StatusBadRequest)
		return
	}

	submission, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	if !Payable(submission.PaymentStatus) {
		jsonutil.WriteError(responseWriter, "submission is already "+submission.PaymentStatus, http.StatusConflict)
		return
	}

	data, err := h.Checkout.StartPayment(request.Context(), submission)
	if err != nil {
		logger.WithField("submission_id", id).WithError(err).Error("payment retry failed")
		response := jsonutil.Response{
			Status:  "error",
			Message: "payment could not be created, please retry",
			Data:    PaymentFailedResponse{SubmissionID: id.String(), RetryURL: RetryPath(id)},
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadGateway)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "payment created successfully",
		Data:    data,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func writeStoreError(responseWriter http.ResponseWriter, err error) {
	if errors.Is(err, custom_errors.ErrNotFound) {
		jsonutil.WriteError(responseWriter, "submission not found", http.StatusNotFound)
		return
	}
	logger.WithError(err).Error("submission store error")
	jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
}
