package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/entity"
	"productiva/backend/internal/pkg/repository/postgresql"
	"productiva/backend/internal/repository/postgres"
	"productiva/backend/internal/repository/postgres/workhours"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Repository struct {
	*postgresql.Database
	hours *workhours.Repository
}

func NewRepository(database *postgresql.Database, hours *workhours.Repository) *Repository {
	return &Repository{Database: database, hours: hours}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	whereQuery := `WHERE c.deleted_at IS NULL`

	if filter.LocationID != nil {
		whereQuery += fmt.Sprintf(` AND c.location_id = %d`, *filter.LocationID)
	}

	var limitQuery, offsetQuery string
	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			c.id,
			c.location_id,
			l.name,
			c.name
		FROM checkpoints c
		LEFT JOIN locations l ON c.location_id = l.id
		%s ORDER BY c.created_at desc %s %s
	`, whereQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting checkpoints"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(&detail.ID, &detail.LocationID, &detail.Location, &detail.Name); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning checkpoint list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	count := 0
	countQuery := fmt.Sprintf(`SELECT count(c.id) FROM checkpoints c %s`, whereQuery)
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting checkpoints"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (entity.CheckPoint, error) {
	var detail entity.CheckPoint

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.CheckPoint{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.CheckPoint{}, web.NewRequestError(errors.Wrap(err, "selecting checkpoint"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	if err := r.ValidateStruct(&request, "LocationID", "Name"); err != nil {
		return CreateResponse{}, err
	}

	response := CreateResponse{
		LocationID: request.LocationID,
		Name:       request.Name,
		CreatedAt:  time.Now(),
	}

	_, err := r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating checkpoint"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "checkpoints", id)
}

// CheckIn opens a shift. An employee with an open record cannot open another;
// the original-record shadow is written alongside so later adjustments keep
// the as-clocked times.
func (r Repository) CheckIn(ctx context.Context, request CheckInRequest) (CheckInResponse, error) {
	if err := r.ValidateStruct(&request, "CheckPointID", "EmployeeID"); err != nil {
		return CheckInResponse{}, err
	}

	var open int
	err := r.QueryRowContext(ctx, `
		SELECT count(id) FROM checkpoint_records
		WHERE deleted_at IS NULL AND employee_id = ? AND check_out_time IS NULL
	`, *request.EmployeeID).Scan(&open)
	if err != nil {
		return CheckInResponse{}, web.NewRequestError(errors.Wrap(err, "checking open shift"), http.StatusInternalServerError)
	}
	if open > 0 {
		return CheckInResponse{}, web.NewRequestError(errors.New("employee already has an open shift"), http.StatusBadRequest)
	}

	response := CheckInResponse{
		EmployeeID:   *request.EmployeeID,
		CheckPointID: *request.CheckPointID,
		CheckInTime:  time.Now(),
		CreatedAt:    time.Now(),
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CheckInResponse{}, web.NewRequestError(errors.Wrap(err, "creating checkpoint record"), http.StatusBadRequest)
	}

	original := entity.CheckPointOriginalRecord{
		RecordID:            response.ID,
		OriginalCheckInTime: response.CheckInTime,
	}
	if _, err = r.NewInsert().Model(&original).Exec(ctx); err != nil {
		return CheckInResponse{}, web.NewRequestError(errors.Wrap(err, "creating original record"), http.StatusBadRequest)
	}

	return response, nil
}

// CheckOut closes the employee's open shift: it stamps the checkout, persists
// the rounded hours on the shadow row, accrues the hours into the period
// accumulators, and runs the weekly cap check. The cap result is advisory;
// an over-cap checkout still lands.
func (r Repository) CheckOut(ctx context.Context, request CheckOutRequest) (CheckOutResponse, error) {
	if err := r.ValidateStruct(&request, "CheckPointID", "EmployeeID"); err != nil {
		return CheckOutResponse{}, err
	}

	var record entity.CheckPointRecord
	err := r.NewSelect().Model(&record).
		Where("deleted_at IS NULL AND employee_id = ? AND check_out_time IS NULL", *request.EmployeeID).
		Order("check_in_time DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return CheckOutResponse{}, web.NewRequestError(errors.New("no open shift for employee"), http.StatusBadRequest)
	}
	if err != nil {
		return CheckOutResponse{}, web.NewRequestError(errors.Wrap(err, "selecting open record"), http.StatusInternalServerError)
	}

	now := time.Now()
	hoursWorked := workhours.Round2(workhours.CalculateHoursWorked(&record.CheckInTime, &now))

	capCheck, err := r.hours.CheckWeeklyHoursLimit(ctx, record.EmployeeID, record.CheckInTime, hoursWorked)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", record.EmployeeID).
			Warn("checkpoint: weekly cap check failed, continuing")
	}

	q := r.NewUpdate().Table("checkpoint_records").Where("deleted_at IS NULL AND id = ?", record.ID)
	q.Set("check_out_time = ?", now)
	q.Set("updated_at = ?", now)
	if _, err = q.Exec(ctx); err != nil {
		return CheckOutResponse{}, web.NewRequestError(errors.Wrap(err, "updating checkpoint record"), http.StatusBadRequest)
	}

	_, err = r.ExecContext(ctx, `
		UPDATE checkpoint_original_records
		SET original_check_out_time = ?, hours_worked = ?
		WHERE record_id = ? AND original_check_out_time IS NULL
	`, now, hoursWorked, record.ID)
	if err != nil {
		return CheckOutResponse{}, web.NewRequestError(errors.Wrap(err, "updating original record"), http.StatusBadRequest)
	}

	if ok := r.hours.UpdateEmployeeWorkHours(ctx, record.EmployeeID, record.CheckInTime, hoursWorked); !ok {
		logrus.WithField("record_id", record.ID).Warn("checkpoint: accrual failed, hours not accumulated")
	}

	response := CheckOutResponse{
		RecordID:     record.ID,
		EmployeeID:   record.EmployeeID,
		CheckInTime:  record.CheckInTime,
		CheckOutTime: now,
		HoursWorked:  hoursWorked,
		WeeklyHours:  capCheck.ProposedTotal,
	}
	if capCheck.HasCap {
		response.WeeklyCap = capCheck.CapHours
		response.OverWeeklyCap = !capCheck.Compliant
	}

	return response, nil
}

func (r Repository) GetRecords(ctx context.Context, filter RecordFilter) ([]RecordResponse, int, error) {
	whereQuery := `WHERE r.deleted_at IS NULL`

	if filter.EmployeeID != nil {
		whereQuery += fmt.Sprintf(` AND r.employee_id = %d`, *filter.EmployeeID)
	}
	if filter.Date != nil {
		day, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(` AND r.check_in_time::date = '%s'`, day.Format("2006-01-02"))
	}

	var limitQuery, offsetQuery string
	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			r.id,
			r.employee_id,
			e.full_name,
			r.checkpoint_id,
			r.check_in_time::date,
			r.check_in_time,
			r.check_out_time,
			o.hours_worked
		FROM checkpoint_records r
		LEFT JOIN employees e ON r.employee_id = e.id
		LEFT JOIN checkpoint_original_records o ON o.record_id = r.id
		%s ORDER BY r.check_in_time desc %s %s
	`, whereQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting checkpoint records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []RecordResponse
	for rows.Next() {
		var detail RecordResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.Employee,
			&detail.CheckPointID,
			&workDayString,
			&detail.CheckInTime,
			&detail.CheckOutTime,
			&detail.HoursWorked,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning checkpoint record"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(strings.SplitN(workDayString, "T", 2)[0])
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "parsing work day"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay

		list = append(list, detail)
	}

	count := 0
	countQuery := fmt.Sprintf(`SELECT count(r.id) FROM checkpoint_records r %s`, whereQuery)
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting checkpoint records"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// UpdateRecord applies a manual correction to a closed record. The shadow row
// keeps the as-clocked times untouched; only the accrued-hours cache and the
// period accumulators move, by the delta between old and new hours.
func (r Repository) UpdateRecord(ctx context.Context, request UpdateRecordRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	var record entity.CheckPointRecord
	err := r.NewSelect().Model(&record).
		Where("deleted_at IS NULL AND id = ?", request.ID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "selecting checkpoint record"), http.StatusInternalServerError)
	}

	oldHours := workhours.Round2(workhours.CalculateHoursWorked(&record.CheckInTime, record.CheckOutTime))

	newCheckIn := record.CheckInTime
	newCheckOut := record.CheckOutTime
	if request.CheckInTime != nil {
		t, err := parseClockOn(record.CheckInTime, *request.CheckInTime)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing check_in_time"), http.StatusBadRequest)
		}
		newCheckIn = t
	}
	if request.CheckOutTime != nil {
		t, err := parseClockOn(record.CheckInTime, *request.CheckOutTime)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing check_out_time"), http.StatusBadRequest)
		}
		newCheckOut = &t
	}

	newHours := workhours.Round2(workhours.CalculateHoursWorked(&newCheckIn, newCheckOut))

	q := r.NewUpdate().Table("checkpoint_records").Where("deleted_at IS NULL AND id = ?", request.ID)
	q.Set("check_in_time = ?", newCheckIn)
	q.Set("check_out_time = ?", newCheckOut)
	q.Set("updated_at = ?", time.Now())
	if _, err = q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating checkpoint record"), http.StatusBadRequest)
	}

	if newCheckOut != nil {
		_, err = r.ExecContext(ctx,
			`UPDATE checkpoint_original_records SET hours_worked = ? WHERE record_id = ?`,
			newHours, request.ID)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "updating hours cache"), http.StatusBadRequest)
		}
	}

	if delta := workhours.Round2(newHours - oldHours); delta != 0 {
		if ok := r.hours.UpdateEmployeeWorkHours(ctx, record.EmployeeID, record.CheckInTime, delta); !ok {
			logrus.WithField("record_id", record.ID).Warn("checkpoint: adjustment accrual failed")
		}
	}

	return nil
}

// DeleteRecord soft-deletes a record. Hours already accrued from it are
// reversed first with a negative delta so the accumulators stay honest.
func (r Repository) DeleteRecord(ctx context.Context, id int) error {
	var record entity.CheckPointRecord
	err := r.NewSelect().Model(&record).
		Where("deleted_at IS NULL AND id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "selecting checkpoint record"), http.StatusInternalServerError)
	}

	if record.CheckOutTime != nil {
		hours := workhours.Round2(workhours.CalculateHoursWorked(&record.CheckInTime, record.CheckOutTime))
		if hours != 0 {
			if ok := r.hours.UpdateEmployeeWorkHours(ctx, record.EmployeeID, record.CheckInTime, -hours); !ok {
				logrus.WithField("record_id", id).Warn("checkpoint: reversal accrual failed")
			}
		}
	}

	return r.DeleteRow(ctx, "checkpoint_records", id)
}

// parseClockOn interprets an "HH:MM" wall-clock value on the record's
// calendar day. Overnight interpretation is left to the hours calculation.
func parseClockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
