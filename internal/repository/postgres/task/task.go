package task

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/entity"
	"productiva/backend/internal/jobs"
	"productiva/backend/internal/pkg/repository/postgresql"
	"productiva/backend/internal/recurrence"
	"productiva/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// txKey carries an open transaction through context so the store methods the
// scheduler calls inside InTx run on it.
type txKey struct{}

func (r Repository) idb(ctx context.Context) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return r.DB
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	whereQuery := `WHERE t.deleted_at IS NULL`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND t.title ilike '%s'`, "%"+search+"%")
	}
	if filter.LocationID != nil {
		whereQuery += fmt.Sprintf(` AND t.location_id = %d`, *filter.LocationID)
	}
	if filter.Frequency != nil {
		whereQuery += fmt.Sprintf(` AND t.frequency = '%s'`, strings.ToUpper(*filter.Frequency))
	}
	if filter.Status != nil {
		whereQuery += fmt.Sprintf(` AND t.status = '%s'`, strings.ToUpper(*filter.Status))
	}

	orderQuery := "ORDER BY t.created_at desc"

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
			t.id,
			t.location_id,
			l.name,
			t.title,
			t.frequency,
			t.status,
			t.start_date,
			t.end_date,
			t.current_week_completed,
			t.current_month_completed
		FROM tasks t
		LEFT JOIN locations l ON t.location_id = l.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting tasks"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		var startDate, endDate *string

		if err = rows.Scan(
			&detail.ID,
			&detail.LocationID,
			&detail.Location,
			&detail.Title,
			&detail.Frequency,
			&detail.Status,
			&startDate,
			&endDate,
			&detail.CurrentWeekCompleted,
			&detail.CurrentMonthCompleted,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning task list"), http.StatusBadRequest)
		}

		if detail.StartDate, err = parseDate(startDate); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting start_date"), http.StatusBadRequest)
		}
		if detail.EndDate, err = parseDate(endDate); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting end_date"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT count(t.id)
		FROM tasks t
		LEFT JOIN locations l ON t.location_id = l.id
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting tasks"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func parseDate(s *string) (*date.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	// Timestamps come back with a time part when the driver fills them in.
	d, err := date.ParseDate(strings.SplitN(*s, "T", 2)[0])
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (entity.Task, error) {
	var detail entity.Task

	err := r.NewSelect().Model(&detail).
		Relation("Weekdays").
		Relation("MonthDays").
		Relation("Schedules").
		Where("t.deleted_at IS NULL AND t.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Task{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Task{}, web.NewRequestError(errors.Wrap(err, "selecting task"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	if err := r.ValidateStruct(&request, "LocationID", "Title", "Frequency"); err != nil {
		return CreateResponse{}, err
	}

	var response CreateResponse
	response.LocationID = request.LocationID
	response.Title = request.Title
	frequency := strings.ToUpper(*request.Frequency)
	response.Frequency = &frequency
	response.Status = entity.TaskStatusPending
	response.CreatedAt = time.Now()

	if request.StartDate != nil {
		d, err := time.Parse("2006-01-02", *request.StartDate)
		if err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "parsing start_date"), http.StatusBadRequest)
		}
		response.StartDate = &d
	} else {
		d := response.CreatedAt
		response.StartDate = &d
	}
	if request.EndDate != nil {
		d, err := time.Parse("2006-01-02", *request.EndDate)
		if err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "parsing end_date"), http.StatusBadRequest)
		}
		response.EndDate = &d
	}

	_, err := r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating task"), http.StatusBadRequest)
	}

	for _, wd := range request.Weekdays {
		row := entity.TaskWeekday{TaskID: response.ID, Weekday: wd}
		if _, err := r.NewInsert().Model(&row).Exec(ctx); err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating task weekday"), http.StatusBadRequest)
		}
	}
	for _, md := range request.MonthDays {
		row := entity.TaskMonthDay{TaskID: response.ID, DayOfMonth: md}
		if _, err := r.NewInsert().Model(&row).Exec(ctx); err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating task month day"), http.StatusBadRequest)
		}
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("tasks").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Title != nil {
		q.Set("title = ?", *request.Title)
	}
	if request.Status != nil {
		q.Set("status = ?", strings.ToUpper(*request.Status))
	}
	if request.Frequency != nil {
		q.Set("frequency = ?", strings.ToUpper(*request.Frequency))
	}
	if request.EndDate != nil {
		d, err := time.Parse("2006-01-02", *request.EndDate)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing end_date"), http.StatusBadRequest)
		}
		q.Set("end_date = ?", d)
	}
	q.Set("updated_at = ?", time.Now())

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating task"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "tasks", id)
}

// Complete records a local user marking the task done: PIN check, an
// append-only completion row, the cached period flags, and today's instance
// status. Completions are never edited afterwards.
func (r Repository) Complete(ctx context.Context, request CompleteRequest) error {
	if err := r.ValidateStruct(&request, "TaskID", "LocalUserID", "Pin"); err != nil {
		return err
	}

	var pinHash string
	err := r.QueryRowContext(ctx,
		`SELECT pin_hash FROM local_users WHERE deleted_at IS NULL AND id = ?`,
		*request.LocalUserID,
	).Scan(&pinHash)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "selecting local user"), http.StatusInternalServerError)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(*request.Pin)); err != nil {
		return web.NewRequestError(errors.New("incorrect pin"), http.StatusBadRequest)
	}

	task, err := r.GetDetailById(ctx, request.TaskID)
	if err != nil {
		return err
	}

	now := time.Now()
	completion := entity.TaskCompletion{
		TaskID:         request.TaskID,
		LocalUserID:    request.LocalUserID,
		CompletionDate: now,
		Notes:          request.Notes,
	}
	if _, err := r.NewInsert().Model(&completion).Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "creating task completion"), http.StatusBadRequest)
	}

	// The cached flags mirror the completion-derived computation; set the one
	// matching the task's frequency so the fast path agrees immediately.
	q := r.NewUpdate().Table("tasks").Where("deleted_at IS NULL AND id = ?", request.TaskID)
	switch deref(task.Frequency) {
	case entity.FrequencyWeekly:
		q.Set("current_week_completed = true")
	case entity.FrequencyMonthly:
		q.Set("current_month_completed = true")
	default:
		q.Set("status = ?", entity.TaskStatusCompleted)
	}
	q.Set("updated_at = ?", now)
	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating task flags"), http.StatusBadRequest)
	}

	_, err = r.ExecContext(ctx, `
		UPDATE task_instances SET status = ?, updated_at = now()
		WHERE task_id = ? AND scheduled_date = ?
	`, entity.TaskStatusCompleted, request.TaskID, now.Format("2006-01-02"))
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating task instance"), http.StatusBadRequest)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DueTasks evaluates the live due predicate for every pending task of a
// location on a date. This is the display path: unlike instance scheduling it
// applies completion suppression.
func (r Repository) DueTasks(ctx context.Context, locationID int, on time.Time) ([]DueTaskResponse, error) {
	var tasks []entity.Task

	err := r.NewSelect().Model(&tasks).
		Relation("Weekdays").
		Relation("MonthDays").
		Relation("Schedules").
		Relation("Completions").
		Where("t.deleted_at IS NULL AND t.location_id = ?", locationID).
		Where("t.status NOT IN (?, ?)", entity.TaskStatusExpired, entity.TaskStatusCancelled).
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting location tasks"), http.StatusInternalServerError)
	}

	var list []DueTaskResponse
	for _, t := range tasks {
		if !recurrence.IsDue(taskConfig(t), completionTimes(t.Completions), on) {
			continue
		}
		list = append(list, DueTaskResponse{
			ID:        t.ID,
			Title:     t.Title,
			Frequency: t.Frequency,
			Due:       true,
		})
	}

	return list, nil
}

func (r Repository) GetInstances(ctx context.Context, taskID int, from, to time.Time) ([]InstanceResponse, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, task_id, scheduled_date, status
		FROM task_instances
		WHERE deleted_at IS NULL AND task_id = ? AND scheduled_date BETWEEN ? AND ?
		ORDER BY scheduled_date
	`, taskID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting task instances"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []InstanceResponse
	for rows.Next() {
		var detail InstanceResponse
		var scheduled string
		if err = rows.Scan(&detail.ID, &detail.TaskID, &scheduled, &detail.Status); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning task instance"), http.StatusBadRequest)
		}
		if detail.ScheduledDate, err = parseDate(&scheduled); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "converting scheduled_date"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	return list, nil
}

// taskConfig maps a task row plus its schedule sub-entities to the pure
// engine's configuration.
func taskConfig(t entity.Task) recurrence.Config {
	cfg := recurrence.Config{
		Frequency: recurrence.Frequency(deref(t.Frequency)),
		CreatedAt: t.CreatedAt,
		EndDate:   t.EndDate,
	}
	if t.StartDate != nil {
		cfg.StartDate = *t.StartDate
	}
	for _, wd := range t.Weekdays {
		cfg.Weekdays = append(cfg.Weekdays, wd.Weekday)
	}
	for _, md := range t.MonthDays {
		cfg.MonthDays = append(cfg.MonthDays, md.DayOfMonth)
	}
	for _, s := range t.Schedules {
		cfg.Slots = append(cfg.Slots, recurrence.Slot{DayOfWeek: s.DayOfWeek, DayOfMonth: s.DayOfMonth})
	}
	return cfg
}

func completionTimes(completions []entity.TaskCompletion) []time.Time {
	times := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		times = append(times, c.CompletionDate)
	}
	return times
}

// --- jobs.TaskStore ---

func (r Repository) ActiveLocations(ctx context.Context) ([]int, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT id FROM locations WHERE deleted_at IS NULL AND active = true ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting active locations")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning location id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r Repository) ActiveTasksByLocation(ctx context.Context, locationID int) ([]jobs.ScheduledTask, error) {
	var tasks []entity.Task

	err := r.NewSelect().Model(&tasks).
		Relation("Weekdays").
		Relation("MonthDays").
		Relation("Schedules").
		Where("t.deleted_at IS NULL AND t.location_id = ?", locationID).
		Where("t.status NOT IN (?, ?)", entity.TaskStatusExpired, entity.TaskStatusCancelled).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "selecting schedulable tasks")
	}

	list := make([]jobs.ScheduledTask, 0, len(tasks))
	for _, t := range tasks {
		list = append(list, jobs.ScheduledTask{ID: t.ID, Config: taskConfig(t)})
	}
	return list, nil
}

func (r Repository) InstanceExists(ctx context.Context, taskID int, day time.Time) (bool, error) {
	// Checked by lookup before insert; the unique constraint is a backstop.
	count, err := r.idb(ctx).NewSelect().
		Table("task_instances").
		Where("task_id = ? AND scheduled_date = ?", taskID, day.Format("2006-01-02")).
		Count(ctx)
	if err != nil {
		return false, errors.Wrap(err, "checking task instance")
	}
	return count > 0, nil
}

func (r Repository) CreateInstance(ctx context.Context, taskID int, day time.Time) error {
	_, err := r.idb(ctx).NewRaw(`
		INSERT INTO task_instances (task_id, scheduled_date, status, created_at)
		VALUES (?, ?, ?, now())
		ON CONFLICT (task_id, scheduled_date) DO NOTHING
	`, taskID, day.Format("2006-01-02"), entity.TaskStatusPending).Exec(ctx)
	return errors.Wrap(err, "creating task instance")
}

func (r Repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r Repository) ClearStaleWeeklyFlags(ctx context.Context, weekStart time.Time) (int64, error) {
	result, err := r.ExecContext(ctx, `
		UPDATE tasks SET current_week_completed = false, updated_at = now()
		WHERE deleted_at IS NULL
		  AND frequency = ?
		  AND current_week_completed = true
		  AND NOT EXISTS (
			SELECT 1 FROM task_completions c
			WHERE c.task_id = tasks.id AND c.completion_date >= ?
		  )
	`, entity.FrequencyWeekly, weekStart)
	if err != nil {
		return 0, errors.Wrap(err, "clearing weekly flags")
	}
	return result.RowsAffected()
}

func (r Repository) ClearStaleMonthlyFlags(ctx context.Context, monthStart time.Time) (int64, error) {
	result, err := r.ExecContext(ctx, `
		UPDATE tasks SET current_month_completed = false, updated_at = now()
		WHERE deleted_at IS NULL
		  AND frequency = ?
		  AND current_month_completed = true
		  AND NOT EXISTS (
			SELECT 1 FROM task_completions c
			WHERE c.task_id = tasks.id AND c.completion_date >= ?
		  )
	`, entity.FrequencyMonthly, monthStart)
	if err != nil {
		return 0, errors.Wrap(err, "clearing monthly flags")
	}
	return result.RowsAffected()
}

func (r Repository) ResetAllWeeklyFlags(ctx context.Context) (int64, error) {
	result, err := r.ExecContext(ctx, `
		UPDATE tasks SET current_week_completed = false, updated_at = now()
		WHERE deleted_at IS NULL AND frequency = ? AND current_week_completed = true
	`, entity.FrequencyWeekly)
	if err != nil {
		return 0, errors.Wrap(err, "resetting weekly flags")
	}
	return result.RowsAffected()
}
