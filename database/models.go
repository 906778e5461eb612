package database

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusInReview  = "in_review"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusScheduled = "scheduled"
	SubmissionStatusLive      = "live"
	SubmissionStatusCompleted = "completed"
	SubmissionStatusRejected  = "rejected"
	SubmissionStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusSimulated = "simulated"
)

const (
	SubmissionMethodGoogleForm = "google_form"
	SubmissionMethodManual     = "manual"
)

const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

const (
	PlacementStatusScheduled = "scheduled"
	PlacementStatusLive      = "live"
	PlacementStatusCompleted = "completed"
	PlacementStatusCancelled = "cancelled"
)

type FormSubmission struct {
	ID                uuid.UUID          `json:"id"`
	SurveyUrl         string             `json:"survey_url"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	QuestionCount     int32              `json:"question_count"`
	CriteriaResponden string             `json:"criteria_responden"`
	Duration          int32              `json:"duration"`
	StartDate         pgtype.Date        `json:"start_date"`
	EndDate           pgtype.Date        `json:"end_date"`
	FullName          string             `json:"full_name"`
	Email             string             `json:"email"`
	PhoneNumber       string             `json:"phone_number"`
	University        string             `json:"university"`
	Department        string             `json:"department"`
	Status            string             `json:"status"`
	ReferralSource    pgtype.Text        `json:"referral_source"`
	WinnerCount       int32              `json:"winner_count"`
	PrizePerWinner    int64              `json:"prize_per_winner"`
	VoucherCode       pgtype.Text        `json:"voucher_code"`
	TotalCost         int64              `json:"total_cost"`
	PaymentStatus     string             `json:"payment_status"`
	PaymentReference  pgtype.Text        `json:"payment_reference"`
	SubmissionMethod  string             `json:"submission_method"`
	DetectedKeywords  []string           `json:"detected_keywords"`
	GoogleFormID      pgtype.Text        `json:"google_form_id"`
	AdminNotes        pgtype.Text        `json:"admin_notes"`
	AdStartDate       pgtype.Date        `json:"ad_start_date"`
	AdEndDate         pgtype.Date        `json:"ad_end_date"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type Invoice struct {
	ID            uuid.UUID          `json:"id"`
	SubmissionID  uuid.UUID          `json:"submission_id"`
	InvoiceNumber string             `json:"invoice_number"`
	AdCost        int64              `json:"ad_cost"`
	IncentiveCost int64              `json:"incentive_cost"`
	Discount      int64              `json:"discount"`
	TotalAmount   int64              `json:"total_amount"`
	Status        string             `json:"status"`
	DueDate       pgtype.Date        `json:"due_date"`
	Notes         pgtype.Text        `json:"notes"`
	DocumentKey   pgtype.Text        `json:"document_key"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type AdPlacement struct {
	ID           uuid.UUID          `json:"id"`
	SubmissionID uuid.UUID          `json:"submission_id"`
	Channel      string             `json:"channel"`
	StartAt      pgtype.Timestamptz `json:"start_at"`
	EndAt        pgtype.Timestamptz `json:"end_at"`
	Status       string             `json:"status"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}
