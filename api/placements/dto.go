package placements

import "time"

type CreatePlacementBody struct {
	Channel string    `json:"channel" validate:"required,oneof=instagram tiktok twitter line newsletter"`
	StartAt time.Time `json:"startAt" validate:"required"`
	EndAt   time.Time `json:"endAt" validate:"required"`
}
