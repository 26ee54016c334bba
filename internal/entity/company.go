package entity

import "github.com/uptrace/bun"

type Company struct {
	bun.BaseModel `bun:"table:companies"`

	BasicEntity
	Name *string `json:"name" bun:"name"`
}
