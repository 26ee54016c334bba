package location

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit     *int
	Offset    *int
	Page      *int
	Search    *string
	CompanyID *int
}

type GetListResponse struct {
	ID        int     `json:"id"`
	CompanyID *int    `json:"company_id"`
	Company   *string `json:"company"`
	Name      *string `json:"name"`
	Active    *bool   `json:"active"`
}

type CreateRequest struct {
	CompanyID *int    `json:"company_id" form:"company_id"`
	Name      *string `json:"name" form:"name"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:locations"`

	ID        int       `json:"id" bun:"-"`
	CompanyID *int      `json:"company_id" bun:"company_id"`
	Name      *string   `json:"name" bun:"name"`
	Active    bool      `json:"active" bun:"active"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
}

type UpdateRequest struct {
	ID     int     `json:"id" form:"id"`
	Name   *string `json:"name" form:"name"`
	Active *bool   `json:"active" form:"active"`
}
