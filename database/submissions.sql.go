package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const submissionColumns = `id, survey_url, title, description, question_count, criteria_responden, duration,
	start_date, end_date, full_name, email, phone_number, university, department, status,
	referral_source, winner_count, prize_per_winner, voucher_code, total_cost, payment_status,
	payment_reference, submission_method, detected_keywords, google_form_id, admin_notes,
	ad_start_date, ad_end_date, created_at, updated_at`

func scanSubmission(row pgx.Row) (FormSubmission, error) {
	var i FormSubmission
	err := row.Scan(
		&i.ID,
		&i.SurveyUrl,
		&i.Title,
		&i.Description,
		&i.QuestionCount,
		&i.CriteriaResponden,
		&i.Duration,
		&i.StartDate,
		&i.EndDate,
		&i.FullName,
		&i.Email,
		&i.PhoneNumber,
		&i.University,
		&i.Department,
		&i.Status,
		&i.ReferralSource,
		&i.WinnerCount,
		&i.PrizePerWinner,
		&i.VoucherCode,
		&i.TotalCost,
		&i.PaymentStatus,
		&i.PaymentReference,
		&i.SubmissionMethod,
		&i.DetectedKeywords,
		&i.GoogleFormID,
		&i.AdminNotes,
		&i.AdStartDate,
		&i.AdEndDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectSubmissions(rows pgx.Rows) ([]FormSubmission, error) {
	defer rows.Close()

	items := []FormSubmission{}
	for rows.Next() {
		i, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSubmission = `-- name: CreateSubmission :one
INSERT INTO form_submissions (
	survey_url, title, description, question_count, criteria_responden, duration,
	start_date, end_date, full_name, email, phone_number, university, department,
	referral_source, winner_count, prize_per_winner, voucher_code, total_cost,
	submission_method, detected_keywords, google_form_id
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
)
RETURNING ` + submissionColumns

type CreateSubmissionParams struct {
	SurveyUrl         string
	Title             string
	Description       string
	QuestionCount     int32
	CriteriaResponden string
	Duration          int32
	StartDate         pgtype.Date
	EndDate           pgtype.Date
	FullName          string
	Email             string
	PhoneNumber       string
	University        string
	Department        string
	ReferralSource    pgtype.Text
	WinnerCount       int32
	PrizePerWinner    int64
	VoucherCode       pgtype.Text
	TotalCost         int64
	SubmissionMethod  string
	DetectedKeywords  []string
	GoogleFormID      pgtype.Text
}

func (q *Queries) CreateSubmission(ctx context.Context, arg CreateSubmissionParams) (FormSubmission, error) {
	row := q.db.QueryRow(ctx, createSubmission,
		arg.SurveyUrl,
		arg.Title,
		arg.Description,
		arg.QuestionCount,
		arg.CriteriaResponden,
		arg.Duration,
		arg.StartDate,
		arg.EndDate,
		arg.FullName,
		arg.Email,
		arg.PhoneNumber,
		arg.University,
		arg.Department,
		arg.ReferralSource,
		arg.WinnerCount,
		arg.PrizePerWinner,
		arg.VoucherCode,
		arg.TotalCost,
		arg.SubmissionMethod,
		arg.DetectedKeywords,
		arg.GoogleFormID,
	)
	return scanSubmission(row)
}

const getSubmissionByID = `-- name: GetSubmissionByID :one
SELECT ` + submissionColumns + ` FROM form_submissions WHERE id = $1`

func (q *Queries) GetSubmissionByID(ctx context.Context, id uuid.UUID) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, getSubmissionByID, id))
}

const getSubmissionByPaymentReference = `-- name: GetSubmissionByPaymentReference :one
SELECT ` + submissionColumns + ` FROM form_submissions
WHERE id = (SELECT submission_id FROM payment_orders WHERE order_id = $1)
   OR payment_reference = $1
LIMIT 1`

func (q *Queries) GetSubmissionByPaymentReference(ctx context.Context, paymentReference string) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, getSubmissionByPaymentReference, paymentReference))
}

const listSubmissionsByEmail = `-- name: ListSubmissionsByEmail :many
SELECT ` + submissionColumns + ` FROM form_submissions
WHERE lower(email) = lower($1)
ORDER BY created_at DESC`

func (q *Queries) ListSubmissionsByEmail(ctx context.Context, email string) ([]FormSubmission, error) {
	rows, err := q.db.Query(ctx, listSubmissionsByEmail, email)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

const submissionFilter = `
WHERE ($1::text = '' OR title ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
	OR full_name ILIKE '%' || $1 || '%' OR university ILIKE '%' || $1 || '%')
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)`

const listSubmissions = `-- name: ListSubmissions :many
SELECT ` + submissionColumns + ` FROM form_submissions` + submissionFilter + `
ORDER BY created_at DESC
LIMIT $4 OFFSET $5`

type ListSubmissionsParams struct {
	Search      string
	CreatedFrom pgtype.Timestamptz
	CreatedTo   pgtype.Timestamptz
	Limit       int32
	Offset      int32
}

func (q *Queries) ListSubmissions(ctx context.Context, arg ListSubmissionsParams) ([]FormSubmission, error) {
	rows, err := q.db.Query(ctx, listSubmissions,
		arg.Search,
		arg.CreatedFrom,
		arg.CreatedTo,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

const countSubmissions = `-- name: CountSubmissions :one
SELECT count(*) FROM form_submissions` + submissionFilter

type CountSubmissionsParams struct {
	Search      string
	CreatedFrom pgtype.Timestamptz
	CreatedTo   pgtype.Timestamptz
}

func (q *Queries) CountSubmissions(ctx context.Context, arg CountSubmissionsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countSubmissions, arg.Search, arg.CreatedFrom, arg.CreatedTo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateSubmissionPaymentStatus = `-- name: UpdateSubmissionPaymentStatus :one
UPDATE form_submissions SET payment_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

type UpdateSubmissionPaymentStatusParams struct {
	ID            uuid.UUID
	PaymentStatus string
}

func (q *Queries) UpdateSubmissionPaymentStatus(ctx context.Context, arg UpdateSubmissionPaymentStatusParams) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, updateSubmissionPaymentStatus, arg.ID, arg.PaymentStatus))
}

const updateSubmissionPaymentReference = `-- name: UpdateSubmissionPaymentReference :one
WITH recorded AS (
    INSERT INTO payment_orders (order_id, submission_id) VALUES ($2, $1)
    ON CONFLICT (order_id) DO NOTHING
)
UPDATE form_submissions SET payment_reference = $2, updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

type UpdateSubmissionPaymentReferenceParams struct {
	ID               uuid.UUID
	PaymentReference string
}

func (q *Queries) UpdateSubmissionPaymentReference(ctx context.Context, arg UpdateSubmissionPaymentReferenceParams) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, updateSubmissionPaymentReference, arg.ID, arg.PaymentReference))
}

const updateSubmissionStatus = `-- name: UpdateSubmissionStatus :one
UPDATE form_submissions
SET status = $2, admin_notes = COALESCE($3, admin_notes), updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

type UpdateSubmissionStatusParams struct {
	ID         uuid.UUID
	Status     string
	AdminNotes pgtype.Text
}

func (q *Queries) UpdateSubmissionStatus(ctx context.Context, arg UpdateSubmissionStatusParams) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, updateSubmissionStatus, arg.ID, arg.Status, arg.AdminNotes))
}

const updateSubmissionCriteria = `-- name: UpdateSubmissionCriteria :one
UPDATE form_submissions SET criteria_responden = $2, updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

type UpdateSubmissionCriteriaParams struct {
	ID                uuid.UUID
	CriteriaResponden string
}

func (q *Queries) UpdateSubmissionCriteria(ctx context.Context, arg UpdateSubmissionCriteriaParams) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, updateSubmissionCriteria, arg.ID, arg.CriteriaResponden))
}

const updateSubmissionSchedule = `-- name: UpdateSubmissionSchedule :one
UPDATE form_submissions
SET ad_start_date = $2, ad_end_date = $3, status = $4, updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

type UpdateSubmissionScheduleParams struct {
	ID          uuid.UUID
	AdStartDate pgtype.Date
	AdEndDate   pgtype.Date
	Status      string
}

func (q *Queries) UpdateSubmissionSchedule(ctx context.Context, arg UpdateSubmissionScheduleParams) (FormSubmission, error) {
	return scanSubmission(q.db.QueryRow(ctx, updateSubmissionSchedule, arg.ID, arg.AdStartDate, arg.AdEndDate, arg.Status))
}
