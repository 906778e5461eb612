package drafts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/formimport"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/notifications"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type FormExtractor interface {
	ExtractForm(ctx context.Context, token *oauth2.Token, formID string) (formimport.Extraction, error)
}

type Handler struct {
	Drafts      wizard.DraftRepository
	Submissions submissions.Store
	Checkout    *submissions.Checkout
	Notifier    notifications.Sink
	Forms       FormExtractor
	Now         func() time.Time
}

func (h *Handler) options() []wizard.Option {
	if h.Now == nil {
		return nil
	}
	return []wizard.Option{wizard.WithClock(h.Now)}
}

func (h *Handler) restore(responseWriter http.ResponseWriter, request *http.Request) (*wizard.Wizard, bool) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		jsonutil.WriteError(responseWriter, "invalid draft id", http.StatusBadRequest)
		return nil, false
	}

	w, err := wizard.Restore(request.Context(), id, h.Drafts, h.options()...)
	if err != nil {
		writeError(responseWriter, err)
		return nil, false
	}
	return w, true
}

func writeSuccess(responseWriter http.ResponseWriter, message string, data any) {
	jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{Status: "success", Message: message, Data: data}, http.StatusOK)
}

func writeError(responseWriter http.ResponseWriter, err error) {
	var validationErr *wizard.ValidationError
	switch {
	case errors.As(err, &validationErr):
		jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{
			Status:  "error",
			Message: "please complete the current step",
			Data:    validationErr,
		}, http.StatusUnprocessableEntity)
	case errors.Is(err, custom_errors.ErrNotFound):
		jsonutil.WriteError(responseWriter, "draft not found", http.StatusNotFound)
	case errors.Is(err, custom_errors.ErrConfirmationRequired):
		jsonutil.WriteError(responseWriter, "this action discards entered data, confirm to continue", http.StatusConflict)
	case errors.Is(err, wizard.ErrInvalidMethod):
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
	default:
		logger.WithError(err).Error("draft operation failed")
		jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateDraftHandler(responseWriter http.ResponseWriter, request *http.Request) {
	w := wizard.New(uuid.NewString(), h.Drafts, h.options()...)
	if err := w.Save(request.Context()); err != nil {
		writeError(responseWriter, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{
		Status:  "success",
		Message: "draft created",
		Data:    draftResponse(w, nil),
	}, http.StatusCreated)
}

func (h *Handler) GetDraftHandler(responseWriter http.ResponseWriter, request *http.Request) {
	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}
	writeSuccess(responseWriter, "draft restored", draftResponse(w, nil))
}

func (h *Handler) UpdateDraftHandler(responseWriter http.ResponseWriter, request *http.Request) {
	patch, err := jsonutil.UnmarshalJsonResponse[wizard.FormPatch](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	if err := w.Update(request.Context(), patch); err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "draft updated", draftResponse(w, nil))
}

func (h *Handler) NextStepHandler(responseWriter http.ResponseWriter, request *http.Request) {
	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	transition, err := w.Next(request.Context())
	if err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "moved to "+transition.To.String(), draftResponse(w, &transition))
}

func (h *Handler) PrevStepHandler(responseWriter http.ResponseWriter, request *http.Request) {
	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	transition, err := w.Prev(request.Context())
	if err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "moved to "+transition.To.String(), draftResponse(w, &transition))
}

func (h *Handler) ResetDraftHandler(responseWriter http.ResponseWriter, request *http.Request) {
	var body ConfirmBody
	if request.ContentLength != 0 {
		decoded, err := jsonutil.UnmarshalJsonResponse[ConfirmBody](request)
		if err != nil {
			jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
			return
		}
		body = decoded
	}

	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	if err := w.Reset(request.Context(), body.Confirmed); err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "draft reset", draftResponse(w, nil))
}

func (h *Handler) SelectMethodHandler(responseWriter http.ResponseWriter, request *http.Request) {
	body, err := jsonutil.UnmarshalJsonResponse[MethodBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	if err := w.SelectMethod(request.Context(), body.Method, body.Confirmed); err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "entry method selected", draftResponse(w, nil))
}

func (h *Handler) ImportFormHandler(responseWriter http.ResponseWriter, request *http.Request) {
	token, err := formimport.TokenFromRequest(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusUnauthorized)
		return
	}

	body, err := jsonutil.UnmarshalJsonResponse[ImportBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	extraction, err := h.Forms.ExtractForm(request.Context(), token, body.FormID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			jsonutil.WriteError(responseWriter, "form not found", http.StatusNotFound)
			return
		}
		logger.WithError(err).Warn("error importing google form")
		jsonutil.WriteError(responseWriter, "could not read google form", http.StatusBadGateway)
		return
	}

	err = w.ApplyImport(request.Context(), wizard.ImportedForm{
		FormID:           extraction.FormID,
		Title:            extraction.Title,
		Description:      extraction.Description,
		QuestionCount:    extraction.QuestionCount,
		ResponderURL:     extraction.ResponderURL,
		DetectedKeywords: extraction.DetectedPersonalDataKeywords,
	})
	if err != nil {
		writeError(responseWriter, err)
		return
	}
	writeSuccess(responseWriter, "form imported", draftResponse(w, nil))
}
