package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const placementColumns = `id, submission_id, channel, start_at, end_at, status, created_at, updated_at`

func scanPlacement(row pgx.Row) (AdPlacement, error) {
	var i AdPlacement
	err := row.Scan(
		&i.ID,
		&i.SubmissionID,
		&i.Channel,
		&i.StartAt,
		&i.EndAt,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createAdPlacement = `-- name: CreateAdPlacement :one
INSERT INTO ad_placements (submission_id, channel, start_at, end_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + placementColumns

type CreateAdPlacementParams struct {
	SubmissionID uuid.UUID
	Channel      string
	StartAt      pgtype.Timestamptz
	EndAt        pgtype.Timestamptz
}

func (q *Queries) CreateAdPlacement(ctx context.Context, arg CreateAdPlacementParams) (AdPlacement, error) {
	return scanPlacement(q.db.QueryRow(ctx, createAdPlacement, arg.SubmissionID, arg.Channel, arg.StartAt, arg.EndAt))
}

const getAdPlacement = `-- name: GetAdPlacement :one
SELECT ` + placementColumns + ` FROM ad_placements WHERE id = $1`

func (q *Queries) GetAdPlacement(ctx context.Context, id uuid.UUID) (AdPlacement, error) {
	return scanPlacement(q.db.QueryRow(ctx, getAdPlacement, id))
}

const listAdPlacements = `-- name: ListAdPlacements :many
SELECT ` + placementColumns + ` FROM ad_placements
WHERE ($1::timestamptz IS NULL OR end_at >= $1)
  AND ($2::timestamptz IS NULL OR start_at < $2)
ORDER BY start_at`

type ListAdPlacementsParams struct {
	From pgtype.Timestamptz
	To   pgtype.Timestamptz
}

func (q *Queries) ListAdPlacements(ctx context.Context, arg ListAdPlacementsParams) ([]AdPlacement, error) {
	rows, err := q.db.Query(ctx, listAdPlacements, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []AdPlacement{}
	for rows.Next() {
		i, err := scanPlacement(rows)
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

const updateAdPlacementStatus = `-- name: UpdateAdPlacementStatus :one
UPDATE ad_placements SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + placementColumns

type UpdateAdPlacementStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateAdPlacementStatus(ctx context.Context, arg UpdateAdPlacementStatusParams) (AdPlacement, error) {
	return scanPlacement(q.db.QueryRow(ctx, updateAdPlacementStatus, arg.ID, arg.Status))
}
