package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	LocationID *int
}

type RecordFilter struct {
	Limit      *int
	Offset     *int
	Page       *int
	EmployeeID *int
	Date       *string
}

type CreateRequest struct {
	LocationID *int    `json:"location_id" form:"location_id"`
	Name       *string `json:"name" form:"name"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:checkpoints"`

	ID         int       `json:"id" bun:"-"`
	LocationID *int      `json:"location_id" bun:"location_id"`
	Name       *string   `json:"name" bun:"name"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
}

type GetListResponse struct {
	ID         int     `json:"id"`
	LocationID *int    `json:"location_id"`
	Location   *string `json:"location"`
	Name       *string `json:"name"`
}

type CheckInRequest struct {
	CheckPointID *int `json:"checkpoint_id" form:"checkpoint_id"`
	EmployeeID   *int `json:"employee_id" form:"employee_id"`
}

type CheckInResponse struct {
	bun.BaseModel `bun:"table:checkpoint_records"`

	ID           int       `json:"id" bun:"-"`
	EmployeeID   int       `json:"employee_id" bun:"employee_id"`
	CheckPointID int       `json:"checkpoint_id" bun:"checkpoint_id"`
	CheckInTime  time.Time `json:"check_in_time" bun:"check_in_time"`
	CreatedAt    time.Time `json:"-" bun:"created_at"`
}

type CheckOutRequest struct {
	CheckPointID *int `json:"checkpoint_id" form:"checkpoint_id"`
	EmployeeID   *int `json:"employee_id" form:"employee_id"`
}

type CheckOutResponse struct {
	RecordID     int       `json:"record_id"`
	EmployeeID   int       `json:"employee_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	HoursWorked  float64   `json:"hours_worked"`

	// Advisory only: a check-out is never rejected over the cap.
	OverWeeklyCap bool     `json:"over_weekly_cap"`
	WeeklyCap     *float64 `json:"weekly_cap,omitempty"`
	WeeklyHours   float64  `json:"weekly_hours"`
}

type UpdateRecordRequest struct {
	ID           int     `json:"id" form:"id"`
	CheckInTime  *string `json:"check_in_time" form:"check_in_time"`
	CheckOutTime *string `json:"check_out_time" form:"check_out_time"`
}

type RecordResponse struct {
	ID           int        `json:"id"`
	EmployeeID   int        `json:"employee_id"`
	Employee     *string    `json:"employee"`
	CheckPointID int        `json:"checkpoint_id"`
	WorkDay      *date.Date `json:"work_day"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	HoursWorked  *float64   `json:"hours_worked"`
}

func (r *RecordResponse) MarshalJSON() ([]byte, error) {
	type Alias RecordResponse
	aux := &struct {
		CheckInTime  string `json:"check_in_time,omitempty"`
		CheckOutTime string `json:"check_out_time,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.CheckInTime != nil {
		aux.CheckInTime = r.CheckInTime.Format("15:04")
	}
	if r.CheckOutTime != nil {
		aux.CheckOutTime = r.CheckOutTime.Format("15:04")
	}

	return json.Marshal(aux)
}
