package drafts

import (
	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
)

type DraftResponse struct {
	ID          string                  `json:"id"`
	CurrentStep wizard.Step             `json:"currentStep"`
	StepName    string                  `json:"stepName"`
	FormData    wizard.SurveyFormData   `json:"formData"`
	Cost        pricing.CostCalculation `json:"cost"`
	Transition  *wizard.Transition      `json:"transition,omitempty"`
}

type ConfirmBody struct {
	Confirmed bool `json:"confirmed"`
}

type MethodBody struct {
	Method    wizard.EntryMethod `json:"method" validate:"required,oneof=google_form manual"`
	Confirmed bool               `json:"confirmed"`
}

type ImportBody struct {
	FormID string `json:"formId" validate:"required"`
}

func draftResponse(w *wizard.Wizard, transition *wizard.Transition) DraftResponse {
	state := w.State()
	return DraftResponse{
		ID:          w.ID(),
		CurrentStep: state.CurrentStep,
		StepName:    state.CurrentStep.String(),
		FormData:    state.FormData,
		Cost:        w.Cost(),
		Transition:  transition,
	}
}
