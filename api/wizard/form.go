package wizard

import (
	"time"
)

const DateLayout = "2006-01-02"

var jakarta = time.FixedZone("WIB", 7*60*60)

type EntryMethod string

const (
	MethodNone       EntryMethod = ""
	MethodGoogleForm EntryMethod = "google_form"
	MethodManual     EntryMethod = "manual"
)

// DetailsPhase is the position inside the survey-details step.
type DetailsPhase string

const (
	PhaseMethodSelection  DetailsPhase = "method_selection"
	PhaseGoogleFormImport DetailsPhase = "google_form_import"
	PhaseManualEntry      DetailsPhase = "manual_entry"
	PhaseFormFieldsReview DetailsPhase = "form_fields_review"
)

const (
	DefaultDuration       = 1
	DefaultWinnerCount    = 2
	DefaultPrizePerWinner = int64(25_000)
)

type SurveyFormData struct {
	EntryMethod  EntryMethod  `json:"entryMethod"`
	DetailsPhase DetailsPhase `json:"detailsPhase"`
	GoogleFormID string       `json:"googleFormId,omitempty"`

	SurveyURL                string   `json:"surveyUrl" validate:"required,url"`
	Title                    string   `json:"title" validate:"required,max=200"`
	Description              string   `json:"description" validate:"required"`
	QuestionCount            int      `json:"questionCount" validate:"gte=1"`
	Duration                 int      `json:"duration" validate:"gte=1,lte=30"`
	StartDate                string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate                  string   `json:"endDate"`
	IsManualEntry            bool     `json:"isManualEntry"`
	HasPersonalDataQuestions bool     `json:"hasPersonalDataQuestions"`
	DetectedKeywords         []string `json:"detectedKeywords"`

	CriteriaResponden string `json:"criteriaResponden" validate:"required"`
	WinnerCount       int    `json:"winnerCount" validate:"gte=2,lte=5"`
	PrizePerWinner    int64  `json:"prizePerWinner" validate:"gte=25000"`
	VoucherCode       string `json:"voucherCode,omitempty" validate:"omitempty,max=32"`

	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,min=8,max=20"`
	University     string `json:"university" validate:"required"`
	Department     string `json:"department" validate:"required"`
	ReferralSource string `json:"referralSource,omitempty"`
}

// FormPatch carries the fields a client changed; nil means untouched.
type FormPatch struct {
	SurveyURL         *string `json:"surveyUrl"`
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	QuestionCount     *int    `json:"questionCount" validate:"omitempty,gte=0"`
	Duration          *int    `json:"duration" validate:"omitempty,gte=1,lte=30"`
	StartDate         *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	CriteriaResponden *string `json:"criteriaResponden"`
	WinnerCount       *int    `json:"winnerCount" validate:"omitempty,gte=0"`
	PrizePerWinner    *int64  `json:"prizePerWinner" validate:"omitempty,gte=0"`
	VoucherCode       *string `json:"voucherCode"`
	FullName          *string `json:"fullName"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phoneNumber"`
	University        *string `json:"university"`
	Department        *string `json:"department"`
	ReferralSource    *string `json:"referralSource"`
}

// ImportedForm is what a form-source extraction contributes to the draft.
type ImportedForm struct {
	FormID           string
	Title            string
	Description      string
	QuestionCount    int
	ResponderURL     string
	DetectedKeywords []string
}

func DefaultFormData(now time.Time) SurveyFormData {
	data := SurveyFormData{
		DetailsPhase:     PhaseMethodSelection,
		Duration:         DefaultDuration,
		StartDate:        now.In(jakarta).Format(DateLayout),
		IsManualEntry:    true,
		DetectedKeywords: []string{},
		WinnerCount:      DefaultWinnerCount,
		PrizePerWinner:   DefaultPrizePerWinner,
	}
	data.syncEndDate()
	return data
}

// syncEndDate keeps endDate = startDate + duration days.
func (f *SurveyFormData) syncEndDate() {
	start, err := time.Parse(DateLayout, f.StartDate)
	if err != nil || f.Duration <= 0 {
		f.EndDate = ""
		return
	}
	f.EndDate = start.AddDate(0, 0, f.Duration).Format(DateLayout)
}

func (f *SurveyFormData) hasSurveyFields() bool {
	return f.SurveyURL != "" || f.Title != "" || f.Description != "" ||
		f.QuestionCount > 0 || f.GoogleFormID != ""
}

func (f *SurveyFormData) clearSurveyFields() {
	f.GoogleFormID = ""
	f.SurveyURL = ""
	f.Title = ""
	f.Description = ""
	f.QuestionCount = 0
	f.HasPersonalDataQuestions = false
	f.DetectedKeywords = []string{}
}

func (f *SurveyFormData) apply(p FormPatch) {
	if p.SurveyURL != nil {
		f.SurveyURL = *p.SurveyURL
	}
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.QuestionCount != nil {
		f.QuestionCount = *p.QuestionCount
	}
	if p.Duration != nil {
		f.Duration = *p.Duration
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.CriteriaResponden != nil {
		f.CriteriaResponden = *p.CriteriaResponden
	}
	if p.WinnerCount != nil {
		f.WinnerCount = *p.WinnerCount
	}
	if p.PrizePerWinner != nil {
		f.PrizePerWinner = *p.PrizePerWinner
	}
	if p.VoucherCode != nil {
		f.VoucherCode = *p.VoucherCode
	}
	if p.FullName != nil {
		f.FullName = *p.FullName
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		f.PhoneNumber = *p.PhoneNumber
	}
	if p.University != nil {
		f.University = *p.University
	}
	if p.Department != nil {
		f.Department = *p.Department
	}
	if p.ReferralSource != nil {
		f.ReferralSource = *p.ReferralSource
	}

	if p.Duration != nil || p.StartDate != nil {
		f.syncEndDate()
	}
}
