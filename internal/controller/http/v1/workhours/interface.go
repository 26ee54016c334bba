package workhours

import (
	"context"
	"time"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/repository/postgres/workhours"
)

type WorkHours interface {
	GetEmployeeSummary(ctx context.Context, employeeID int) ([]entity.EmployeeWorkHours, error)
	GetCompanySummary(ctx context.Context, companyID int) ([]entity.CompanyWorkHours, error)
	GetContractHours(ctx context.Context, employeeID int) (*entity.EmployeeContractHours, error)
	UpsertContractHours(ctx context.Context, request workhours.UpsertContractHoursRequest) error
	CheckWeeklyHoursLimit(ctx context.Context, employeeID int, checkInTime time.Time, proposedHours float64) (workhours.CapCheck, error)
}
