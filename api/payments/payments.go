package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// Store is the slice of the submission store that payment callbacks need.
type Store interface {
	GetByPaymentReference(ctx context.Context, reference string) (database.FormSubmission, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (database.FormSubmission, error)
}

type Handler struct {
	Store      Store
	ServerKey  string
	Production bool
}

type paymentStatusResponse struct {
	SubmissionID  uuid.UUID `json:"submission_id"`
	OrderID       string    `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
}

func (h *Handler) NotificationHandler(responseWriter http.ResponseWriter, request *http.Request) {
	var notification Notification
	if err := render.DecodeJSON(request.Body, &notification); err != nil {
		jsonutil.WriteError(responseWriter, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !notification.Verify(h.ServerKey) {
		logger.WithField("order_id", notification.OrderID).Warn("rejected payment notification with invalid signature")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInvalidSignature.Error(), http.StatusUnauthorized)
		return
	}

	submission, err := h.Store.GetByPaymentReference(request.Context(), notification.OrderID)
	if err != nil {
		// acknowledge anyway so the provider stops redelivering
		logger.WithField("order_id", notification.OrderID).WithError(err).Warn("payment notification for unknown order")
		jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{Status: "success", Message: "ignored: order not found"}, http.StatusOK)
		return
	}

	status, ok := MapStatus(notification.TransactionStatus, notification.FraudStatus)
	current := submission.PaymentReference.String == notification.OrderID
	if ok && status != submission.PaymentStatus && (!Accepts(submission.PaymentStatus, status) || (!current && !settles(status))) {
		logger.WithFields(map[string]any{
			"order_id":           notification.OrderID,
			"transaction_status": notification.TransactionStatus,
			"payment_status":     submission.PaymentStatus,
		}).Info("payment notification does not change the recorded status")
		ok = false
	}
	if !ok || status == submission.PaymentStatus {
		jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{
			Status:  "success",
			Message: "no payment status change",
			Data:    paymentStatusResponse{SubmissionID: submission.ID, OrderID: notification.OrderID, PaymentStatus: submission.PaymentStatus},
		}, http.StatusOK)
		return
	}

	updated, err := h.Store.UpdatePaymentStatus(request.Context(), submission.ID, status)
	if err != nil {
		logger.WithField("order_id", notification.OrderID).WithError(err).Error("error updating payment status")
		jsonutil.WriteError(responseWriter, "error updating payment status", http.StatusInternalServerError)
		return
	}

	logger.WithFields(map[string]any{
		"order_id":           notification.OrderID,
		"transaction_status": notification.TransactionStatus,
		"payment_status":     updated.PaymentStatus,
	}).Info("payment status updated")

	response := jsonutil.Response{
		Status:  "success",
		Message: "payment status updated",
		Data:    paymentStatusResponse{SubmissionID: updated.ID, OrderID: notification.OrderID, PaymentStatus: updated.PaymentStatus},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// SimulateHandler completes a simulated payment; it does not exist in production.
func (h *Handler) SimulateHandler(responseWriter http.ResponseWriter, request *http.Request) {
	if h.Production {
		jsonutil.WriteError(responseWriter, custom_errors.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	orderID := chi.URLParam(request, "orderID")
	if !IsSimulatedOrder(orderID) {
		jsonutil.WriteError(responseWriter, "only simulated orders can be completed here", http.StatusBadRequest)
		return
	}

	submission, err := h.Store.GetByPaymentReference(request.Context(), orderID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, custom_errors.ErrNotFound) {
			code = http.StatusNotFound
		}
		jsonutil.WriteError(responseWriter, err.Error(), code)
		return
	}

	updated, err := h.Store.UpdatePaymentStatus(request.Context(), submission.ID, database.PaymentStatusSimulated)
	if err != nil {
		jsonutil.WriteError(responseWriter, "error updating payment status", http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "simulated payment completed",
		Data:    paymentStatusResponse{SubmissionID: updated.ID, OrderID: orderID, PaymentStatus: updated.PaymentStatus},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
