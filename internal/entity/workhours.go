package entity

import "github.com/uptrace/bun"

// EmployeeWorkHours is the per-employee accumulator row, keyed uniquely by
// (employee_id, year, month, week_number). The three columns are parallel
// running totals for the same key, all moved by the same delta on every
// accrual. daily_hours is deliberately never re-scoped to a single day: the
// source system accumulates it for the life of the row, and callers treat it
// that way.
type EmployeeWorkHours struct {
	bun.BaseModel `bun:"table:employee_work_hours"`

	BasicEntity
	EmployeeID   int     `json:"employee_id" bun:"employee_id"`
	Year         int     `json:"year" bun:"year"`
	Month        int     `json:"month" bun:"month"`
	WeekNumber   int     `json:"week_number" bun:"week_number"`
	DailyHours   float64 `json:"daily_hours" bun:"daily_hours"`
	WeeklyHours  float64 `json:"weekly_hours" bun:"weekly_hours"`
	MonthlyHours float64 `json:"monthly_hours" bun:"monthly_hours"`
}

// CompanyWorkHours mirrors EmployeeWorkHours at the company aggregate level,
// keyed uniquely by (company_id, year, month, week_number).
type CompanyWorkHours struct {
	bun.BaseModel `bun:"table:company_work_hours"`

	BasicEntity
	CompanyID    int     `json:"company_id" bun:"company_id"`
	Year         int     `json:"year" bun:"year"`
	Month        int     `json:"month" bun:"month"`
	WeekNumber   int     `json:"week_number" bun:"week_number"`
	WeeklyHours  float64 `json:"weekly_hours" bun:"weekly_hours"`
	MonthlyHours float64 `json:"monthly_hours" bun:"monthly_hours"`
}

// EmployeeContractHours is the per-employee configured caps used to flag
// excess hours. Absence of a row means no constraint applies.
type EmployeeContractHours struct {
	bun.BaseModel `bun:"table:employee_contract_hours"`

	BasicEntity
	EmployeeID  int      `json:"employee_id" bun:"employee_id"`
	DailyHours  *float64 `json:"daily_hours" bun:"daily_hours"`
	WeeklyHours *float64 `json:"weekly_hours" bun:"weekly_hours"`
}
