package submissions

import (
	"time"

	"github.com/Adedunmol/jakpat-univ/database"
)

// NewSubmission is a priced, validated form ready to be stored.
type NewSubmission struct {
	SurveyURL         string
	Title             string
	Description       string
	QuestionCount     int
	CriteriaResponden string
	Duration          int
	StartDate         time.Time
	EndDate           time.Time
	FullName          string
	Email             string
	PhoneNumber       string
	University        string
	Department        string
	ReferralSource    string
	WinnerCount       int
	PrizePerWinner    int64
	VoucherCode       string
	TotalCost         int64
	SubmissionMethod  string
	DetectedKeywords  []string
	GoogleFormID      string
}

type ListParams struct {
	Page   int
	Size   int
	Search string
	From   *time.Time
	To     *time.Time
}

type Page struct {
	Items      []database.FormSubmission `json:"items"`
	TotalCount int64                     `json:"totalCount"`
	Page       int                       `json:"page"`
	Size       int                       `json:"size"`
}

type CheckoutResponse struct {
	Submission  database.FormSubmission `json:"submission"`
	OrderID     string                  `json:"orderId"`
	RedirectURL string                  `json:"redirectUrl"`
	Simulated   bool                    `json:"simulated"`
}

type PaymentFailedResponse struct {
	SubmissionID string `json:"submissionId"`
	RetryURL     string `json:"retryUrl"`
}
