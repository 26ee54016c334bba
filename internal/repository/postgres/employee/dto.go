package employee

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	CompanyID  *int
	LocationID *int
}

type GetListResponse struct {
	ID         int     `json:"id"`
	CompanyID  *int    `json:"company_id"`
	Company    *string `json:"company"`
	LocationID *int    `json:"location_id"`
	Location   *string `json:"location"`
	FullName   *string `json:"full_name"`
	Active     *bool   `json:"active"`
}

type GetDetailByIdResponse struct {
	ID         int     `json:"id"`
	CompanyID  *int    `json:"company_id"`
	Company    *string `json:"company"`
	LocationID *int    `json:"location_id"`
	Location   *string `json:"location"`
	FullName   *string `json:"full_name"`
	Active     *bool   `json:"active"`
}

type CreateRequest struct {
	CompanyID  *int    `json:"company_id" form:"company_id"`
	LocationID *int    `json:"location_id" form:"location_id"`
	FullName   *string `json:"full_name" form:"full_name"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:employees"`

	ID         int       `json:"id" bun:"-"`
	CompanyID  *int      `json:"company_id" bun:"company_id"`
	LocationID *int      `json:"location_id" bun:"location_id"`
	FullName   *string   `json:"full_name" bun:"full_name"`
	Active     bool      `json:"active" bun:"active"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
}

type UpdateRequest struct {
	ID         int     `json:"id" form:"id"`
	CompanyID  *int    `json:"company_id" form:"company_id"`
	LocationID *int    `json:"location_id" form:"location_id"`
	FullName   *string `json:"full_name" form:"full_name"`
	Active     *bool   `json:"active" form:"active"`
}
