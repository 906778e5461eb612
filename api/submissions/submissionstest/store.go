// Package submissionstest provides an in-memory submissions.Store for handler tests.
package submissionstest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrStore = errors.New("database error")

type Store struct {
	mu          sync.Mutex
	Submissions map[uuid.UUID]database.FormSubmission
	ShouldFail  bool
	Now         func() time.Time

	// orders maps every order id ever recorded to its submission.
	orders map[string]uuid.UUID
}

func NewStore(items ...database.FormSubmission) *Store {
	s := &Store{
		Submissions: make(map[uuid.UUID]database.FormSubmission),
		Now:         time.Now,
		orders:      make(map[string]uuid.UUID),
	}
	for _, item := range items {
		s.Submissions[item.ID] = item
		if item.PaymentReference.Valid {
			s.orders[item.PaymentReference.String] = item.ID
		}
	}
	return s
}

// Get returns the stored record, ignoring ShouldFail.
func (s *Store) Get(id uuid.UUID) database.FormSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Submissions[id]
}

func (s *Store) Save(ctx context.Context, n submissions.NewSubmission) (database.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShouldFail {
		return database.FormSubmission{}, ErrStore
	}

	now := pgtype.Timestamptz{Time: s.Now(), Valid: true}
	item := database.FormSubmission{
		ID:                uuid.New(),
		SurveyUrl:         n.SurveyURL,
		Title:             n.Title,
		Description:       n.Description,
		QuestionCount:     int32(n.QuestionCount),
		CriteriaResponden: n.CriteriaResponden,
		Duration:          int32(n.Duration),
		StartDate:         pgtype.Date{Time: n.StartDate, Valid: true},
		EndDate:           pgtype.Date{Time: n.EndDate, Valid: true},
		FullName:          n.FullName,
		Email:             n.Email,
		PhoneNumber:       n.PhoneNumber,
		University:        n.University,
		Department:        n.Department,
		Status:            database.SubmissionStatusPending,
		ReferralSource:    pgtype.Text{String: n.ReferralSource, Valid: n.ReferralSource != ""},
		WinnerCount:       int32(n.WinnerCount),
		PrizePerWinner:    n.PrizePerWinner,
		VoucherCode:       pgtype.Text{String: n.VoucherCode, Valid: n.VoucherCode != ""},
		TotalCost:         n.TotalCost,
		PaymentStatus:     database.PaymentStatusPending,
		SubmissionMethod:  n.SubmissionMethod,
		DetectedKeywords:  n.DetectedKeywords,
		GoogleFormID:      pgtype.Text{String: n.GoogleFormID, Valid: n.GoogleFormID != ""},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.Submissions[item.ID] = item
	return item, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (database.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShouldFail {
		return database.FormSubmission{}, ErrStore
	}
	item, ok := s.Submissions[id]
	if !ok {
		return database.FormSubmission{}, custom_errors.ErrNotFound
	}
	return item, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) ([]database.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShouldFail {
		return nil, ErrStore
	}
	items := []database.FormSubmission{}
	for _, item := range s.Submissions {
		if strings.EqualFold(item.Email, email) {
			items = append(items, item)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) GetByPaymentReference(ctx context.Context, reference string) (database.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.orders[reference]; ok {
		if item, ok := s.Submissions[id]; ok {
			return item, nil
		}
	}
	return database.FormSubmission{}, custom_errors.ErrNotFound
}

func (s *Store) update(id uuid.UUID, fn func(*database.FormSubmission)) (database.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShouldFail {
		return database.FormSubmission{}, ErrStore
	}
	item, ok := s.Submissions[id]
	if !ok {
		return database.FormSubmission{}, custom_errors.ErrNotFound
	}
	fn(&item)
	item.UpdatedAt = pgtype.Timestamptz{Time: s.Now(), Valid: true}
	s.Submissions[id] = item
	return item, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (database.FormSubmission, error) {
	return s.update(id, func(item *database.FormSubmission) {
		item.PaymentStatus = status
	})
}

func (s *Store) UpdatePaymentReference(ctx context.Context, id uuid.UUID, reference string) (database.FormSubmission, error) {
	updated, err := s.update(id, func(item *database.FormSubmission) {
		item.PaymentReference = pgtype.Text{String: reference, Valid: true}
	})
	if err != nil {
		return updated, err
	}

	s.mu.Lock()
	s.orders[reference] = id
	s.mu.Unlock()
	return updated, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (database.FormSubmission, error) {
	return s.update(id, func(item *database.FormSubmission) {
		item.Status = status
		if notes != nil {
			item.AdminNotes = pgtype.Text{String: *notes, Valid: true}
		}
	})
}

func (s *Store) UpdateCriteria(ctx context.Context, id uuid.UUID, criteria string) (database.FormSubmission, error) {
	return s.update(id, func(item *database.FormSubmission) {
		item.CriteriaResponden = criteria
	})
}

func (s *Store) UpdateSchedule(ctx context.Context, id uuid.UUID, start, end time.Time, status string) (database.FormSubmission, error) {
	return s.update(id, func(item *database.FormSubmission) {
		item.AdStartDate = pgtype.Date{Time: start, Valid: true}
		item.AdEndDate = pgtype.Date{Time: end, Valid: true}
		item.Status = status
	})
}

func (s *Store) ListPaginated(ctx context.Context, params submissions.ListParams) (submissions.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShouldFail {
		return submissions.Page{}, ErrStore
	}
	params = params.Normalize()
	search := strings.ToLower(params.Search)

	matched := []database.FormSubmission{}
	for _, item := range s.Submissions {
		if search != "" && !containsAny(search, item.Title, item.Email, item.FullName, item.University) {
			continue
		}
		created := item.CreatedAt.Time
		if params.From != nil && created.Before(*params.From) {
			continue
		}
		if params.To != nil && !created.Before(*params.To) {
			continue
		}
		matched = append(matched, item)
	}
	sortNewestFirst(matched)

	start := (params.Page - 1) * params.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Size
	if end > len(matched) {
		end = len(matched)
	}

	return submissions.Page{
		Items:      matched[start:end],
		TotalCount: int64(len(matched)),
		Page:       params.Page,
		Size:       params.Size,
	}, nil
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortNewestFirst(items []database.FormSubmission) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Time.After(items[j].CreatedAt.Time)
	})
}
