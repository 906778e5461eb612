package formimport

import (
	"errors"
	"net/http"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	Importer *Importer
}

func (h *Handler) AuthURLHandler(responseWriter http.ResponseWriter, request *http.Request) {
	state := request.URL.Query().Get("state")
	if state == "" {
		state = uuid.NewString()
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "authorization url created",
		Data:    AuthURLResponse{URL: h.Importer.AuthURL(state), State: state},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) AuthenticateHandler(responseWriter http.ResponseWriter, request *http.Request) {
	body, err := jsonutil.UnmarshalJsonResponse[AuthenticateBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.Importer.Authenticate(request.Context(), body.Code)
	if err != nil {
		logger.WithError(err).Warn("google authentication failed")
		jsonutil.WriteError(responseWriter, "google authentication failed", http.StatusBadGateway)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "authenticated with google",
		Data:    TokenResponse{AccessToken: token.AccessToken, TokenType: token.Type(), Expiry: token.Expiry},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) ListFormsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	token, err := TokenFromRequest(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusUnauthorized)
		return
	}

	files, err := h.Importer.ListForms(request.Context(), token, request.URL.Query().Get("q"))
	if err != nil {
		logger.WithError(err).Warn("error listing google forms")
		jsonutil.WriteError(responseWriter, "could not list google forms", http.StatusBadGateway)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved forms successfully",
		Data:    files,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) PickFormHandler(responseWriter http.ResponseWriter, request *http.Request) {
	token, err := TokenFromRequest(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusUnauthorized)
		return
	}

	body, err := jsonutil.UnmarshalJsonResponse[PickBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	formID, err := h.Importer.PickForm(request.Context(), token, body.Query)
	if err != nil {
		logger.WithError(err).Warn("error picking google form")
		jsonutil.WriteError(responseWriter, "could not list google forms", http.StatusBadGateway)
		return
	}

	message := "form picked"
	if formID == nil {
		message = "no form matched"
	}
	response := jsonutil.Response{
		Status:  "success",
		Message: message,
		Data:    PickResponse{FormID: formID},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) ExtractFormHandler(responseWriter http.ResponseWriter, request *http.Request) {
	token, err := TokenFromRequest(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusUnauthorized)
		return
	}

	extraction, err := h.Importer.ExtractForm(request.Context(), token, chi.URLParam(request, "formID"))
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			jsonutil.WriteError(responseWriter, "form not found", http.StatusNotFound)
			return
		}
		logger.WithError(err).Warn("error extracting google form")
		jsonutil.WriteError(responseWriter, "could not read google form", http.StatusBadGateway)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "form extracted successfully",
		Data:    extraction,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
