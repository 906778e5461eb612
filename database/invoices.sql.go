package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const invoiceColumns = `id, submission_id, invoice_number, ad_cost, incentive_cost, discount,
	total_amount, status, due_date, notes, document_key, created_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var i Invoice
	err := row.Scan(
		&i.ID,
		&i.SubmissionID,
		&i.InvoiceNumber,
		&i.AdCost,
		&i.IncentiveCost,
		&i.Discount,
		&i.TotalAmount,
		&i.Status,
		&i.DueDate,
		&i.Notes,
		&i.DocumentKey,
		&i.CreatedAt,
	)
	return i, err
}

const createInvoice = `-- name: CreateInvoice :one
INSERT INTO invoices (
	submission_id, invoice_number, ad_cost, incentive_cost, discount, total_amount, due_date, notes, document_key
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + invoiceColumns

type CreateInvoiceParams struct {
	SubmissionID  uuid.UUID
	InvoiceNumber string
	AdCost        int64
	IncentiveCost int64
	Discount      int64
	TotalAmount   int64
	DueDate       pgtype.Date
	Notes         pgtype.Text
	DocumentKey   pgtype.Text
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, createInvoice,
		arg.SubmissionID,
		arg.InvoiceNumber,
		arg.AdCost,
		arg.IncentiveCost,
		arg.Discount,
		arg.TotalAmount,
		arg.DueDate,
		arg.Notes,
		arg.DocumentKey,
	)
	return scanInvoice(row)
}

const getInvoice = `-- name: GetInvoice :one
SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

func (q *Queries) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoice, id))
}

const listInvoicesBySubmission = `-- name: ListInvoicesBySubmission :many
SELECT ` + invoiceColumns + ` FROM invoices WHERE submission_id = $1 ORDER BY created_at DESC`

func (q *Queries) ListInvoicesBySubmission(ctx context.Context, submissionID uuid.UUID) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoicesBySubmission, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Invoice{}
	for rows.Next() {
		i, err := scanInvoice(rows)
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

const updateInvoiceStatus = `-- name: UpdateInvoiceStatus :one
UPDATE invoices SET status = $2 WHERE id = $1
RETURNING ` + invoiceColumns

type UpdateInvoiceStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, updateInvoiceStatus, arg.ID, arg.Status))
}

const setInvoiceDocumentKey = `-- name: SetInvoiceDocumentKey :exec
UPDATE invoices SET document_key = $2 WHERE id = $1`

type SetInvoiceDocumentKeyParams struct {
	ID          uuid.UUID
	DocumentKey pgtype.Text
}

func (q *Queries) SetInvoiceDocumentKey(ctx context.Context, arg SetInvoiceDocumentKeyParams) error {
	_, err := q.db.Exec(ctx, setInvoiceDocumentKey, arg.ID, arg.DocumentKey)
	return err
}
