package entity

import "github.com/uptrace/bun"

type Location struct {
	bun.BaseModel `bun:"table:locations"`

	BasicEntity
	CompanyID *int    `json:"company_id" bun:"company_id"`
	Name      *string `json:"name" bun:"name"`
	Active    *bool   `json:"active" bun:"active"`
}
