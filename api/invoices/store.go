package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type Store interface {
	Create(ctx context.Context, params database.CreateInvoiceParams) (database.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (database.Invoice, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]database.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (database.Invoice, error)
	SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error
}

type Repository struct {
	queries *database.Queries
}

func NewInvoiceStore(queries *database.Queries) *Repository {
	return &Repository{queries: queries}
}

func (r *Repository) Create(ctx context.Context, params database.CreateInvoiceParams) (database.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.CreateInvoice(ctx, params)
	if err != nil {
		return database.Invoice{}, fmt.Errorf("error creating invoice: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (database.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.GetInvoice(ctx, id)
	if err != nil {
		return database.Invoice{}, fmt.Errorf("error getting invoice: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]database.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	data, err := r.queries.ListInvoicesBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}
	return data, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (database.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateInvoiceStatus(ctx, database.UpdateInvoiceStatusParams{ID: id, Status: status})
	if err != nil {
		return database.Invoice{}, fmt.Errorf("error updating invoice status: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.queries.SetInvoiceDocumentKey(ctx, database.SetInvoiceDocumentKeyParams{
		ID:          id,
		DocumentKey: pgtype.Text{String: key, Valid: key != ""},
	})
	if err != nil {
		return fmt.Errorf("error setting invoice document: %w", err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.ErrNotFound
	}
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == "23505" {
		return custom_errors.ErrConflict
	}
	return err
}
