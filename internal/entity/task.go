package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Task frequencies.
const (
	FrequencyDaily    = "DAILY"
	FrequencyWeekly   = "WEEKLY"
	FrequencyBiweekly = "BIWEEKLY"
	FrequencyMonthly  = "MONTHLY"
	FrequencyCustom   = "CUSTOM"
)

// Task and task-instance statuses.
const (
	TaskStatusPending   = "PENDING"
	TaskStatusCompleted = "COMPLETED"
	TaskStatusExpired   = "EXPIRED"
	TaskStatusCancelled = "CANCELLED"
)

type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	BasicEntity
	LocationID *int       `json:"location_id" bun:"location_id"`
	Title      *string    `json:"title" bun:"title"`
	Frequency  *string    `json:"frequency" bun:"frequency"`
	Status     *string    `json:"status" bun:"status"`
	StartDate  *time.Time `json:"start_date" bun:"start_date"`
	EndDate    *time.Time `json:"end_date" bun:"end_date"`

	// Cached fast-path mirrors of the completion-derived due computation.
	// The reset jobs keep them consistent; they are never the source of truth.
	CurrentWeekCompleted  *bool `json:"current_week_completed" bun:"current_week_completed"`
	CurrentMonthCompleted *bool `json:"current_month_completed" bun:"current_month_completed"`

	Weekdays    []TaskWeekday    `json:"weekdays,omitempty" bun:"rel:has-many,join:id=task_id"`
	MonthDays   []TaskMonthDay   `json:"month_days,omitempty" bun:"rel:has-many,join:id=task_id"`
	Schedules   []TaskSchedule   `json:"schedules,omitempty" bun:"rel:has-many,join:id=task_id"`
	Completions []TaskCompletion `json:"completions,omitempty" bun:"rel:has-many,join:id=task_id"`
	Instances   []TaskInstance   `json:"instances,omitempty" bun:"rel:has-many,join:id=task_id"`
}

// TaskWeekday is one weekday of a CUSTOM task's fixed pattern. Weekday is
// Monday-based: 0 = Monday .. 6 = Sunday.
type TaskWeekday struct {
	bun.BaseModel `bun:"table:task_weekdays"`

	ID      int `json:"id" bun:"id,pk,autoincrement"`
	TaskID  int `json:"task_id" bun:"task_id"`
	Weekday int `json:"weekday" bun:"weekday"`
}

// TaskMonthDay is one explicit eligible day of a MONTHLY task.
type TaskMonthDay struct {
	bun.BaseModel `bun:"table:task_monthdays"`

	ID         int `json:"id" bun:"id,pk,autoincrement"`
	TaskID     int `json:"task_id" bun:"task_id"`
	DayOfMonth int `json:"day_of_month" bun:"day_of_month"`
}

// TaskSchedule is an explicit per-slot row: a day-of-week or day-of-month plus
// time bounds. Kept as the fallback path for tasks configured slot by slot.
type TaskSchedule struct {
	bun.BaseModel `bun:"table:task_schedules"`

	ID         int     `json:"id" bun:"id,pk,autoincrement"`
	TaskID     int     `json:"task_id" bun:"task_id"`
	DayOfWeek  *int    `json:"day_of_week" bun:"day_of_week"`
	DayOfMonth *int    `json:"day_of_month" bun:"day_of_month"`
	StartTime  *string `json:"start_time" bun:"start_time"`
	EndTime    *string `json:"end_time" bun:"end_time"`
}

// TaskInstance is one materialized occurrence of a recurring task for one
// calendar date. (task_id, scheduled_date) is unique.
type TaskInstance struct {
	bun.BaseModel `bun:"table:task_instances"`

	BasicEntity
	TaskID        int       `json:"task_id" bun:"task_id"`
	ScheduledDate time.Time `json:"scheduled_date" bun:"scheduled_date"`
	Status        *string   `json:"status" bun:"status"`
}

// TaskCompletion is the append-only record of a local user marking a task
// done. It is the source of truth for "was this task done in period P".
type TaskCompletion struct {
	bun.BaseModel `bun:"table:task_completions"`

	ID             int       `json:"id" bun:"id,pk,autoincrement"`
	TaskID         int       `json:"task_id" bun:"task_id"`
	LocalUserID    *int      `json:"local_user_id" bun:"local_user_id"`
	CompletionDate time.Time `json:"completion_date" bun:"completion_date"`
	Notes          *string   `json:"notes" bun:"notes"`
}
