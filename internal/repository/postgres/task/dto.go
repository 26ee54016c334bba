package task

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	LocationID *int
	Frequency  *string
	Status     *string
}

type GetListResponse struct {
	ID                    int        `json:"id"`
	LocationID            *int       `json:"location_id"`
	Location              *string    `json:"location"`
	Title                 *string    `json:"title"`
	Frequency             *string    `json:"frequency"`
	Status                *string    `json:"status"`
	StartDate             *date.Date `json:"start_date"`
	EndDate               *date.Date `json:"end_date,omitempty"`
	CurrentWeekCompleted  *bool      `json:"current_week_completed"`
	CurrentMonthCompleted *bool      `json:"current_month_completed"`
}

type CreateRequest struct {
	LocationID *int    `json:"location_id" form:"location_id"`
	Title      *string `json:"title" form:"title"`
	Frequency  *string `json:"frequency" form:"frequency"`
	StartDate  *string `json:"start_date" form:"start_date"`
	EndDate    *string `json:"end_date" form:"end_date"`
	Weekdays   []int   `json:"weekdays" form:"weekdays"`
	MonthDays  []int   `json:"month_days" form:"month_days"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:tasks"`

	ID         int        `json:"id" bun:"-"`
	LocationID *int       `json:"location_id" bun:"location_id"`
	Title      *string    `json:"title" bun:"title"`
	Frequency  *string    `json:"frequency" bun:"frequency"`
	Status     string     `json:"status" bun:"status"`
	StartDate  *time.Time `json:"start_date" bun:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" bun:"end_date"`
	CreatedAt  time.Time  `json:"-" bun:"created_at"`
}

type UpdateRequest struct {
	ID        int     `json:"id" form:"id"`
	Title     *string `json:"title" form:"title"`
	Status    *string `json:"status" form:"status"`
	EndDate   *string `json:"end_date" form:"end_date"`
	Frequency *string `json:"frequency" form:"frequency"`
}

type CompleteRequest struct {
	TaskID      int     `json:"task_id" form:"task_id"`
	LocalUserID *int    `json:"local_user_id" form:"local_user_id"`
	Pin         *string `json:"pin" form:"pin"`
	Notes       *string `json:"notes" form:"notes"`
}

type DueTaskResponse struct {
	ID        int     `json:"id"`
	Title     *string `json:"title"`
	Frequency *string `json:"frequency"`
	Due       bool    `json:"due"`
}

type InstanceResponse struct {
	ID            int        `json:"id"`
	TaskID        int        `json:"task_id"`
	ScheduledDate *date.Date `json:"scheduled_date"`
	Status        *string    `json:"status"`
}
