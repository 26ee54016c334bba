package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// CheckPoint is a physical time clock at a location.
type CheckPoint struct {
	bun.BaseModel `bun:"table:checkpoints"`

	BasicEntity
	LocationID *int    `json:"location_id" bun:"location_id"`
	Name       *string `json:"name" bun:"name"`
}

// CheckPointRecord is one check-in/check-out pair. A nil CheckOutTime means
// the shift is still open.
type CheckPointRecord struct {
	bun.BaseModel `bun:"table:checkpoint_records"`

	BasicEntity
	EmployeeID   int        `json:"employee_id" bun:"employee_id"`
	CheckPointID int        `json:"checkpoint_id" bun:"checkpoint_id"`
	CheckInTime  time.Time  `json:"check_in_time" bun:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time" bun:"check_out_time"`
}

// CheckPointOriginalRecord shadows a CheckPointRecord 1:1 with the original,
// pre-adjustment times so manual corrections never destroy the audit trail.
type CheckPointOriginalRecord struct {
	bun.BaseModel `bun:"table:checkpoint_original_records"`

	ID                   int        `json:"id" bun:"id,pk,autoincrement"`
	RecordID             int        `json:"record_id" bun:"record_id"`
	OriginalCheckInTime  time.Time  `json:"original_check_in_time" bun:"original_check_in_time"`
	OriginalCheckOutTime *time.Time `json:"original_check_out_time" bun:"original_check_out_time"`
	HoursWorked          *float64   `json:"hours_worked" bun:"hours_worked"`
}
