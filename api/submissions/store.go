package submissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type Store interface {
	Save(ctx context.Context, submission NewSubmission) (database.FormSubmission, error)
	GetByID(ctx context.Context, id uuid.UUID) (database.FormSubmission, error)
	GetByEmail(ctx context.Context, email string) ([]database.FormSubmission, error)
	// GetByPaymentReference matches any order id ever issued for the submission.
	GetByPaymentReference(ctx context.Context, reference string) (database.FormSubmission, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (database.FormSubmission, error)
	// UpdatePaymentReference makes reference the current order and keeps earlier ones resolvable.
	UpdatePaymentReference(ctx context.Context, id uuid.UUID, reference string) (database.FormSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (database.FormSubmission, error)
	UpdateCriteria(ctx context.Context, id uuid.UUID, criteria string) (database.FormSubmission, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, start, end time.Time, status string) (database.FormSubmission, error)
	ListPaginated(ctx context.Context, params ListParams) (Page, error)
}

type Repository struct {
	queries *database.Queries
}

func NewSubmissionStore(queries *database.Queries) *Repository {
	return &Repository{queries: queries}
}

const UniqueViolation = "23505"

func (r *Repository) Save(ctx context.Context, s NewSubmission) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	keywords := s.DetectedKeywords
	if keywords == nil {
		keywords = []string{}
	}

	data, err := r.queries.CreateSubmission(ctx, database.CreateSubmissionParams{
		SurveyUrl:         s.SurveyURL,
		Title:             s.Title,
		Description:       s.Description,
		QuestionCount:     int32(s.QuestionCount),
		CriteriaResponden: s.CriteriaResponden,
		Duration:          int32(s.Duration),
		StartDate:         pgtype.Date{Time: s.StartDate, Valid: true},
		EndDate:           pgtype.Date{Time: s.EndDate, Valid: true},
		FullName:          s.FullName,
		Email:             s.Email,
		PhoneNumber:       s.PhoneNumber,
		University:        s.University,
		Department:        s.Department,
		ReferralSource:    text(s.ReferralSource),
		WinnerCount:       int32(s.WinnerCount),
		PrizePerWinner:    s.PrizePerWinner,
		VoucherCode:       text(s.VoucherCode),
		TotalCost:         s.TotalCost,
		SubmissionMethod:  s.SubmissionMethod,
		DetectedKeywords:  keywords,
		GoogleFormID:      text(s.GoogleFormID),
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error creating submission: %w", translate(err))
	}

	return data, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.GetSubmissionByID(ctx, id)
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error getting submission by id: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) ([]database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	data, err := r.queries.ListSubmissionsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("error getting submissions by email: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) GetByPaymentReference(ctx context.Context, reference string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.GetSubmissionByPaymentReference(ctx, reference)
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error getting submission by payment reference: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateSubmissionPaymentStatus(ctx, database.UpdateSubmissionPaymentStatusParams{
		ID:            id,
		PaymentStatus: status,
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error updating payment status: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) UpdatePaymentReference(ctx context.Context, id uuid.UUID, reference string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateSubmissionPaymentReference(ctx, database.UpdateSubmissionPaymentReferenceParams{
		ID:               id,
		PaymentReference: reference,
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error updating payment reference: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var adminNotes pgtype.Text
	if notes != nil {
		adminNotes = pgtype.Text{String: *notes, Valid: true}
	}

	data, err := r.queries.UpdateSubmissionStatus(ctx, database.UpdateSubmissionStatusParams{
		ID:         id,
		Status:     status,
		AdminNotes: adminNotes,
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error updating submission status: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) UpdateCriteria(ctx context.Context, id uuid.UUID, criteria string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateSubmissionCriteria(ctx, database.UpdateSubmissionCriteriaParams{
		ID:                id,
		CriteriaResponden: criteria,
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error updating respondent criteria: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) UpdateSchedule(ctx context.Context, id uuid.UUID, start, end time.Time, status string) (database.FormSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateSubmissionSchedule(ctx, database.UpdateSubmissionScheduleParams{
		ID:          id,
		AdStartDate: pgtype.Date{Time: start, Valid: true},
		AdEndDate:   pgtype.Date{Time: end, Valid: true},
		Status:      status,
	})
	if err != nil {
		return database.FormSubmission{}, fmt.Errorf("error updating submission schedule: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) ListPaginated(ctx context.Context, params ListParams) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	params = params.Normalize()
	from, to := timestamptz(params.From), timestamptz(params.To)

	items, err := r.queries.ListSubmissions(ctx, database.ListSubmissionsParams{
		Search:      params.Search,
		CreatedFrom: from,
		CreatedTo:   to,
		Limit:       int32(params.Size),
		Offset:      int32((params.Page - 1) * params.Size),
	})
	if err != nil {
		return Page{}, fmt.Errorf("error listing submissions: %w", err)
	}

	total, err := r.queries.CountSubmissions(ctx, database.CountSubmissionsParams{
		Search:      params.Search,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return Page{}, fmt.Errorf("error counting submissions: %w", err)
	}

	return Page{Items: items, TotalCount: total, Page: params.Page, Size: params.Size}, nil
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps page to >= 1 and size to 1..MaxPageSize.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Size < 1:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.ErrNotFound
	}
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == UniqueViolation {
		return custom_errors.ErrConflict
	}
	return err
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
