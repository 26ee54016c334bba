package workhours

type UpsertContractHoursRequest struct {
	EmployeeID  *int     `json:"employee_id" form:"employee_id"`
	DailyHours  *float64 `json:"daily_hours" form:"daily_hours"`
	WeeklyHours *float64 `json:"weekly_hours" form:"weekly_hours"`
}
