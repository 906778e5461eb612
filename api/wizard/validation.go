package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError blocks a step transition; Messages are meant for the user.
type ValidationError struct {
	Step     Step     `json:"step"`
	Messages []string `json:"messages"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d is incomplete: %s", e.Step, strings.Join(e.Messages, "; "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

var stepFields = map[Step][]string{
	StepSurveyDetails: {"SurveyURL", "Title", "Description", "QuestionCount", "Duration", "StartDate"},
	StepCriteria:      {"CriteriaResponden", "WinnerCount", "PrizePerWinner", "VoucherCode"},
	StepReview:        {"FullName", "Email", "PhoneNumber", "University", "Department"},
}

// ValidateStep runs the predicate guarding the transition out of step.
func ValidateStep(step Step, data SurveyFormData) error {
	var messages []string

	if step == StepSurveyDetails {
		messages = append(messages, detailsPhaseMessages(data)...)
	}

	var fields []string
	if step == StepPayment {
		for _, s := range []Step{StepSurveyDetails, StepCriteria, StepReview} {
			fields = append(fields, stepFields[s]...)
		}
		messages = append(messages, detailsPhaseMessages(data)...)
	} else {
		fields = stepFields[step]
	}

	if len(fields) > 0 {
		if err := validate.StructPartial(data, fields...); err != nil {
			messages = append(messages, fieldMessages(err)...)
		}
	}

	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Step: step, Messages: messages}
}

func detailsPhaseMessages(data SurveyFormData) []string {
	switch data.DetailsPhase {
	case PhaseManualEntry, PhaseFormFieldsReview:
		return nil
	case PhaseGoogleFormImport:
		return []string{"import a Google Form or switch to manual entry"}
	default:
		return []string{"choose how to enter the survey details"}
	}
}

func fieldMessages(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "gte":
		if bound, ok := upperBound(field); ok {
			return fmt.Sprintf("%s must be between %s and %s", field, fe.Param(), bound)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func upperBound(field string) (string, bool) {
	switch field {
	case "winnerCount":
		return "5", true
	case "duration":
		return "30", true
	}
	return "", false
}
