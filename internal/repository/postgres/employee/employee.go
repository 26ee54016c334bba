package employee

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

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Employee{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return detail, err
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	whereQuery := `WHERE e.deleted_at IS NULL`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND e.full_name ilike '%s'`, "%"+search+"%")
	}
	if filter.CompanyID != nil {
		whereQuery += fmt.Sprintf(` AND e.company_id = %d`, *filter.CompanyID)
	}
	if filter.LocationID != nil {
		whereQuery += fmt.Sprintf(` AND e.location_id = %d`, *filter.LocationID)
	}

	orderQuery := "ORDER BY e.created_at desc"

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
			e.id,
			e.company_id,
			c.name,
			e.location_id,
			l.name,
			e.full_name,
			e.active
		FROM employees e
		LEFT JOIN companies c ON e.company_id = c.id
		LEFT JOIN locations l ON e.location_id = l.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting employees"), http.StatusBadRequest)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.CompanyID,
			&detail.Company,
			&detail.LocationID,
			&detail.Location,
			&detail.FullName,
			&detail.Active,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning employee list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`SELECT count(e.id) FROM employees e %s`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning employee count"), http.StatusBadRequest)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	query := fmt.Sprintf(`
		SELECT
			e.id,
			e.company_id,
			c.name,
			e.location_id,
			l.name,
			e.full_name,
			e.active
		FROM employees e
		LEFT JOIN companies c ON e.company_id = c.id
		LEFT JOIN locations l ON e.location_id = l.id
		WHERE e.deleted_at IS NULL AND e.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err := r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.CompanyID,
		&detail.Company,
		&detail.LocationID,
		&detail.Location,
		&detail.FullName,
		&detail.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting employee detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	if err := r.ValidateStruct(&request, "CompanyID", "FullName"); err != nil {
		return CreateResponse{}, err
	}

	response := CreateResponse{
		CompanyID:  request.CompanyID,
		LocationID: request.LocationID,
		FullName:   request.FullName,
		Active:     true,
		CreatedAt:  time.Now(),
	}

	_, err := r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating employee"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("employees").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.CompanyID != nil {
		q.Set("company_id = ?", request.CompanyID)
	}
	if request.LocationID != nil {
		q.Set("location_id = ?", request.LocationID)
	}
	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.Active != nil {
		q.Set("active = ?", request.Active)
	}
	q.Set("updated_at = ?", time.Now())

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating employee"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "employees", id)
}
