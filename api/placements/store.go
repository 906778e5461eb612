package placements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type NewPlacement struct {
	SubmissionID uuid.UUID
	Channel      string
	StartAt      time.Time
	EndAt        time.Time
}

// Advance moves a placement and, when SubmissionStatus is set, its submission together.
type Advance struct {
	PlacementID      uuid.UUID
	PlacementStatus  string
	SubmissionID     uuid.UUID
	SubmissionStatus string
}

type Store interface {
	Schedule(ctx context.Context, placement NewPlacement) (database.AdPlacement, error)
	GetByID(ctx context.Context, id uuid.UUID) (database.AdPlacement, error)
	List(ctx context.Context, from, to *time.Time) ([]database.AdPlacement, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (database.AdPlacement, error)
	Advance(ctx context.Context, advance Advance) (database.AdPlacement, error)
}

type Repository struct {
	queries    *database.Queries
	transactor database.Transactor
}

func NewPlacementStore(queries *database.Queries, transactor database.Transactor) *Repository {
	return &Repository{queries: queries, transactor: transactor}
}

// Schedule stores the placement and marks the submission scheduled in one transaction.
func (r *Repository) Schedule(ctx context.Context, p NewPlacement) (database.AdPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var placement database.AdPlacement
	err := r.transactor.WithTransaction(ctx, func(q *database.Queries) error {
		var err error
		placement, err = q.CreateAdPlacement(ctx, database.CreateAdPlacementParams{
			SubmissionID: p.SubmissionID,
			Channel:      p.Channel,
			StartAt:      pgtype.Timestamptz{Time: p.StartAt, Valid: true},
			EndAt:        pgtype.Timestamptz{Time: p.EndAt, Valid: true},
		})
		if err != nil {
			return err
		}

		_, err = q.UpdateSubmissionSchedule(ctx, database.UpdateSubmissionScheduleParams{
			ID:          p.SubmissionID,
			AdStartDate: pgtype.Date{Time: p.StartAt, Valid: true},
			AdEndDate:   pgtype.Date{Time: p.EndAt, Valid: true},
			Status:      database.SubmissionStatusScheduled,
		})
		return err
	})
	if err != nil {
		return database.AdPlacement{}, fmt.Errorf("error scheduling placement: %w", translate(err))
	}
	return placement, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (database.AdPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.GetAdPlacement(ctx, id)
	if err != nil {
		return database.AdPlacement{}, fmt.Errorf("error getting placement: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]database.AdPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	params := database.ListAdPlacementsParams{}
	if from != nil {
		params.From = pgtype.Timestamptz{Time: *from, Valid: true}
	}
	if to != nil {
		params.To = pgtype.Timestamptz{Time: *to, Valid: true}
	}

	data, err := r.queries.ListAdPlacements(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing placements: %w", err)
	}
	return data, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (database.AdPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpdateAdPlacementStatus(ctx, database.UpdateAdPlacementStatusParams{ID: id, Status: status})
	if err != nil {
		return database.AdPlacement{}, fmt.Errorf("error updating placement status: %w", translate(err))
	}
	return data, nil
}

func (r *Repository) Advance(ctx context.Context, a Advance) (database.AdPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var placement database.AdPlacement
	err := r.transactor.WithTransaction(ctx, func(q *database.Queries) error {
		var err error
		placement, err = q.UpdateAdPlacementStatus(ctx, database.UpdateAdPlacementStatusParams{
			ID:     a.PlacementID,
			Status: a.PlacementStatus,
		})
		if err != nil || a.SubmissionStatus == "" {
			return err
		}

		_, err = q.UpdateSubmissionStatus(ctx, database.UpdateSubmissionStatusParams{
			ID:     a.SubmissionID,
			Status: a.SubmissionStatus,
		})
		return err
	})
	if err != nil {
		return database.AdPlacement{}, fmt.Errorf("error advancing placement: %w", translate(err))
	}
	return placement, nil
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.ErrNotFound
	}
	return err
}
