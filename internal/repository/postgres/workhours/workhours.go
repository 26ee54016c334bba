package workhours

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/entity"
	"productiva/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// UpdateEmployeeWorkHours additively applies hoursDelta to the employee's
// accumulator row for the ISO period of checkInTime, creating the row on first
// accrual, then cascades the same delta to the company-level row. A negative
// delta reverses a previous accrual; the sign is never special-cased here.
// Returns false after logging and rolling back on any database error; it
// never raises past its boundary.
func (r Repository) UpdateEmployeeWorkHours(ctx context.Context, employeeID int, checkInTime time.Time, hoursDelta float64) bool {
	var companyID int
	err := r.QueryRowContext(ctx,
		`SELECT company_id FROM employees WHERE deleted_at IS NULL AND id = ?`,
		employeeID,
	).Scan(&companyID)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", employeeID).Error("work hours: resolving company")
		return false
	}

	year, month, week := PeriodKey(checkInTime)

	tx, err := r.DB.DB.BeginTx(ctx, nil)
	if err != nil {
		logrus.WithError(err).Error("work hours: begin tx")
		return false
	}

	// Find-or-create, then a single atomic increment. All three columns are
	// parallel running totals moved by the same delta; daily_hours is never
	// re-scoped to a single day.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO employee_work_hours (employee_id, year, month, week_number, daily_hours, weekly_hours, monthly_hours, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, now())
		ON CONFLICT (employee_id, year, month, week_number) DO NOTHING
	`, employeeID, year, month, week)
	if err == nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE employee_work_hours
			SET daily_hours = daily_hours + $1,
			    weekly_hours = weekly_hours + $1,
			    monthly_hours = monthly_hours + $1,
			    updated_at = now()
			WHERE employee_id = $2 AND year = $3 AND month = $4 AND week_number = $5
		`, hoursDelta, employeeID, year, month, week)
	}
	if err == nil {
		err = r.updateCompanyWorkHours(ctx, tx, companyID, year, month, week, hoursDelta)
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID,
			"year":        year,
			"week":        week,
		}).Error("work hours: accrual failed")
		_ = tx.Rollback()
		return false
	}

	if err := tx.Commit(); err != nil {
		logrus.WithError(err).Error("work hours: commit")
		return false
	}

	return true
}

func (r Repository) updateCompanyWorkHours(ctx context.Context, tx *sql.Tx, companyID, year, month, week int, hoursDelta float64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO company_work_hours (company_id, year, month, week_number, weekly_hours, monthly_hours, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, now())
		ON CONFLICT (company_id, year, month, week_number) DO NOTHING
	`, companyID, year, month, week)
	if err != nil {
		return errors.Wrap(err, "ensuring company work hours row")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE company_work_hours
		SET weekly_hours = weekly_hours + $1,
		    monthly_hours = monthly_hours + $1,
		    updated_at = now()
		WHERE company_id = $2 AND year = $3 AND month = $4 AND week_number = $5
	`, hoursDelta, companyID, year, month, week)
	return errors.Wrap(err, "updating company work hours")
}

// CheckWeeklyHoursLimit is advisory: it reads the employee's accumulated
// weekly hours for the ISO week of checkInTime and evaluates the proposed
// additional hours against the configured cap. No cap configured means always
// compliant. It mutates nothing.
func (r Repository) CheckWeeklyHoursLimit(ctx context.Context, employeeID int, checkInTime time.Time, proposedHours float64) (CapCheck, error) {
	var capHours *float64
	err := r.QueryRowContext(ctx,
		`SELECT weekly_hours FROM employee_contract_hours WHERE deleted_at IS NULL AND employee_id = ?`,
		employeeID,
	).Scan(&capHours)
	if errors.Is(err, sql.ErrNoRows) {
		capHours = nil
	} else if err != nil {
		return CapCheck{}, web.NewRequestError(errors.Wrap(err, "selecting contract hours"), http.StatusInternalServerError)
	}

	year, month, week := PeriodKey(checkInTime)

	var current float64
	err = r.QueryRowContext(ctx, `
		SELECT weekly_hours FROM employee_work_hours
		WHERE employee_id = ? AND year = ? AND month = ? AND week_number = ?
	`, employeeID, year, month, week).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		current = 0
	} else if err != nil {
		return CapCheck{}, web.NewRequestError(errors.Wrap(err, "selecting accumulated weekly hours"), http.StatusInternalServerError)
	}

	return EvaluateWeeklyCap(current, proposedHours, capHours), nil
}

// GetEmployeeSummary returns the employee's accumulator rows, newest first.
func (r Repository) GetEmployeeSummary(ctx context.Context, employeeID int) ([]entity.EmployeeWorkHours, error) {
	var list []entity.EmployeeWorkHours

	err := r.NewSelect().Model(&list).
		Where("employee_id = ?", employeeID).
		Order("year DESC", "week_number DESC").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting employee work hours"), http.StatusInternalServerError)
	}

	return list, nil
}

// GetCompanySummary returns the company's accumulator rows, newest first.
func (r Repository) GetCompanySummary(ctx context.Context, companyID int) ([]entity.CompanyWorkHours, error) {
	var list []entity.CompanyWorkHours

	err := r.NewSelect().Model(&list).
		Where("company_id = ?", companyID).
		Order("year DESC", "week_number DESC").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting company work hours"), http.StatusInternalServerError)
	}

	return list, nil
}

// GetContractHours returns the employee's configured caps, or nil if none are
// configured (absence is not an error: no constraint applies).
func (r Repository) GetContractHours(ctx context.Context, employeeID int) (*entity.EmployeeContractHours, error) {
	var detail entity.EmployeeContractHours

	err := r.NewSelect().Model(&detail).
		Where("deleted_at IS NULL AND employee_id = ?", employeeID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting contract hours"), http.StatusInternalServerError)
	}

	return &detail, nil
}

// UpsertContractHours creates or replaces the employee's configured caps.
func (r Repository) UpsertContractHours(ctx context.Context, request UpsertContractHoursRequest) error {
	if err := r.ValidateStruct(&request, "EmployeeID"); err != nil {
		return err
	}

	_, err := r.ExecContext(ctx, `
		INSERT INTO employee_contract_hours (employee_id, daily_hours, weekly_hours, created_at)
		VALUES (?, ?, ?, now())
		ON CONFLICT (employee_id) DO UPDATE
		SET daily_hours = EXCLUDED.daily_hours,
		    weekly_hours = EXCLUDED.weekly_hours,
		    updated_at = now(),
		    deleted_at = NULL
	`, request.EmployeeID, request.DailyHours, request.WeeklyHours)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "upserting contract hours"), http.StatusBadRequest)
	}

	return nil
}
