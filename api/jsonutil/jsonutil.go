package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var Validate = validator.New(validator.WithRequiredStructEnabled())

func WriteJSONResponse(responseWriter http.ResponseWriter, data interface{}, statusCode int) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)

	if err := json.NewEncoder(responseWriter).Encode(data); err != nil {
		logger.Errorf("error encoding response: %s", err)
	}
}

// WriteError writes the standard error envelope.
func WriteError(responseWriter http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(responseWriter, Response{Status: "error", Message: message}, statusCode)
}

// UnmarshalJsonResponse decodes the request body into T and runs struct validation on it.
func UnmarshalJsonResponse[T any](request *http.Request) (T, error) {
	var data T

	if request.Body == nil {
		return data, errors.New("request body is empty")
	}

	if err := render.DecodeJSON(request.Body, &data); err != nil {
		return data, fmt.Errorf("invalid request body: %w", err)
	}

	if err := Validate.Struct(data); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return data, nil
		}
		return data, errors.New(ValidationMessage(err))
	}

	return data, nil
}

// ValidationMessage flattens validator errors into "field: rule" pairs.
func ValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(messages, ", ")
}
