package localuser

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	LocationID *int
}

type GetListResponse struct {
	ID         int     `json:"id"`
	LocationID *int    `json:"location_id"`
	Location   *string `json:"location"`
	Name       *string `json:"name"`
}

type CreateRequest struct {
	LocationID *int    `json:"location_id" form:"location_id"`
	Name       *string `json:"name" form:"name"`
	Pin        *string `json:"pin" form:"pin"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:local_users"`

	ID         int       `json:"id" bun:"-"`
	LocationID *int      `json:"location_id" bun:"location_id"`
	Name       *string   `json:"name" bun:"name"`
	PinHash    *string   `json:"-" bun:"pin_hash"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
}

type UpdateRequest struct {
	ID   int     `json:"id" form:"id"`
	Name *string `json:"name" form:"name"`
	Pin  *string `json:"pin" form:"pin"`
}
