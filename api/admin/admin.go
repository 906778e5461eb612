package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/notifications"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/tokens"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

type Handler struct {
	Store             submissions.Store
	Token             tokens.TokenService
	AdminEmail        string
	AdminPasswordHash string
	Notifier          notifications.Sink
	Queue             queue.Queue
}

func (h *Handler) LoginHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[LoginBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if h.AdminEmail == "" || h.AdminPasswordHash == "" {
		logger.Warnf("admin login attempted but no admin account is configured")
		jsonutil.WriteError(responseWriter, custom_errors.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	emailMatch := strings.EqualFold(strings.TrimSpace(data.Email), h.AdminEmail)
	if !h.Token.ComparePasswords(h.AdminPasswordHash, data.Password) || !emailMatch {
		jsonutil.WriteError(responseWriter, custom_errors.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := h.Token.GenerateToken(h.AdminEmail, tokens.RoleAdmin)
	if err != nil {
		logger.WithError(err).Error("error generating admin token")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "admin logged in",
		Data:    LoginResponse{Token: token, ExpiresAt: expiresAt},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) ListSubmissionsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	params, err := listParams(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.Store.ListPaginated(request.Context(), params)
	if err != nil {
		logger.WithError(err).Error("error listing submissions")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved submissions successfully",
		Data:    page,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// listParams reads page, size, search, from and to. Dates are YYYY-MM-DD and to is inclusive.
func listParams(request *http.Request) (submissions.ListParams, error) {
	query := request.URL.Query()

	params := submissions.ListParams{
		Page:   cast.ToInt(query.Get("page")),
		Size:   cast.ToInt(query.Get("size")),
		Search: query.Get("search"),
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(wizard.DateLayout, raw)
		if err != nil {
			return params, errors.New("from must be a date in YYYY-MM-DD format")
		}
		params.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(wizard.DateLayout, raw)
		if err != nil {
			return params, errors.New("to must be a date in YYYY-MM-DD format")
		}
		to = to.AddDate(0, 0, 1)
		params.To = &to
	}

	if params.From != nil && params.To != nil && !params.From.Before(*params.To) {
		return params, errors.New("from must not be after to")
	}

	return params.Normalize(), nil
}

func (h *Handler) GetSubmissionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	submission, ok := h.load(responseWriter, request)
	if !ok {
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved submission successfully",
		Data:    submission,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) UpdateStatusHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[StatusBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	submission, ok := h.load(responseWriter, request)
	if !ok {
		return
	}

	if err := submissions.CheckTransition(submission.Status, data.Status); err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusConflict)
		return
	}

	updated, err := h.Store.UpdateStatus(request.Context(), submission.ID, data.Status, data.Notes)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	logger.WithFields(map[string]any{
		"submission_id": updated.ID,
		"from":          submission.Status,
		"to":            updated.Status,
	}).Info("submission status changed")

	h.mailStatus(updated)

	response := jsonutil.Response{
		Status:  "success",
		Message: "submission status updated",
		Data:    updated,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) UpdatePaymentStatusHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[PaymentStatusBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if !submissions.ValidPaymentStatus(data.PaymentStatus) {
		jsonutil.WriteError(responseWriter, "unknown payment status "+data.PaymentStatus, http.StatusBadRequest)
		return
	}

	id, ok := submissionID(responseWriter, request)
	if !ok {
		return
	}

	updated, err := h.Store.UpdatePaymentStatus(request.Context(), id, data.PaymentStatus)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "payment status updated",
		Data:    updated,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) UpdateCriteriaHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[CriteriaBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	id, ok := submissionID(responseWriter, request)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateCriteria(request.Context(), id, strings.TrimSpace(data.CriteriaResponden))
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "respondent criteria updated",
		Data:    updated,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// NotifyHandler queues the sheet row and admin email again for a stored submission.
func (h *Handler) NotifyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	submission, ok := h.load(responseWriter, request)
	if !ok {
		return
	}

	h.Notifier.Notify(request.Context(), submission)

	response := jsonutil.Response{
		Status:  "success",
		Message: "notification queued",
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusAccepted)
}

func (h *Handler) mailStatus(submission database.FormSubmission) {
	if h.Queue == nil {
		return
	}

	payload := &queue.EmailDeliveryPayload{
		Name:     "status_update",
		Template: mail.TemplateStatusUpdate,
		Subject:  "Status pengajuan survei: " + submission.Title,
		Email:    submission.Email,
		Data: StatusMail{
			FullName: submission.FullName,
			Title:    submission.Title,
			Status:   submission.Status,
			Notes:    submission.AdminNotes.String,
		},
	}

	if err := h.Queue.Enqueue(payload); err != nil {
		logger.WithField("submission_id", submission.ID).WithError(err).Warn("error queueing status update mail")
	}
}

func (h *Handler) load(responseWriter http.ResponseWriter, request *http.Request) (database.FormSubmission, bool) {
	id, ok := submissionID(responseWriter, request)
	if !ok {
		return database.FormSubmission{}, false
	}

	submission, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err)
		return database.FormSubmission{}, false
	}
	return submission, true
}

func submissionID(responseWriter http.ResponseWriter, request *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.WriteError(responseWriter, "invalid submission id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(responseWriter http.ResponseWriter, err error) {
	if errors.Is(err, custom_errors.ErrNotFound) {
		jsonutil.WriteError(responseWriter, "submission not found", http.StatusNotFound)
		return
	}
	logger.WithError(err).Error("submission store error")
	jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
}
