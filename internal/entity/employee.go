package entity

import "github.com/uptrace/bun"

type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	BasicEntity
	CompanyID  *int    `json:"company_id" bun:"company_id"`
	LocationID *int    `json:"location_id" bun:"location_id"`
	FullName   *string `json:"full_name" bun:"full_name"`
	Active     *bool   `json:"active" bun:"active"`
}

// LocalUser is a per-location user who marks tasks done from the shared
// terminal, identified by name and a PIN.
type LocalUser struct {
	bun.BaseModel `bun:"table:local_users"`

	BasicEntity
	LocationID *int    `json:"location_id" bun:"location_id"`
	Name       *string `json:"name" bun:"name"`
	PinHash    *string `json:"-" bun:"pin_hash"`
}
