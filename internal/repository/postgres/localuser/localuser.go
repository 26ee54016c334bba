package localuser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	whereQuery := `WHERE u.deleted_at IS NULL`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND u.name ilike '%s'`, "%"+search+"%")
	}
	if filter.LocationID != nil {
		whereQuery += fmt.Sprintf(` AND u.location_id = %d`, *filter.LocationID)
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
			u.id,
			u.location_id,
			l.name,
			u.name
		FROM local_users u
		LEFT JOIN locations l ON u.location_id = l.id
		%s ORDER BY u.created_at desc %s %s
	`, whereQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting local users"), http.StatusBadRequest)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(&detail.ID, &detail.LocationID, &detail.Location, &detail.Name); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning local user list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	count := 0
	countQuery := fmt.Sprintf(`SELECT count(u.id) FROM local_users u %s`, whereQuery)
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning local user count"), http.StatusBadRequest)
	}

	return list, count, nil
}

// Create stores the PIN as a bcrypt hash. The PIN itself never lands in the
// database or the response.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	if err := r.ValidateStruct(&request, "LocationID", "Name", "Pin"); err != nil {
		return CreateResponse{}, err
	}

	nameUsed := true
	if err := r.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT CASE WHEN
		(SELECT id FROM local_users WHERE location_id = %d AND name = '%s' AND deleted_at IS NULL) IS NOT NULL
		THEN true ELSE false END`,
		*request.LocationID, strings.Replace(*request.Name, "'", "''", -1))).Scan(&nameUsed); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "name check"), http.StatusInternalServerError)
	}
	if nameUsed {
		return CreateResponse{}, web.NewRequestError(errors.New("name is used at this location"), http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Pin), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing pin"), http.StatusInternalServerError)
	}
	hashed := string(hash)

	response := CreateResponse{
		LocationID: request.LocationID,
		Name:       request.Name,
		PinHash:    &hashed,
		CreatedAt:  time.Now(),
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating local user"), http.StatusBadRequest)
	}

	response.PinHash = nil

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("local_users").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", request.Name)
	}
	if request.Pin != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Pin), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing pin"), http.StatusInternalServerError)
		}
		q.Set("pin_hash = ?", string(hash))
	}
	q.Set("updated_at = ?", time.Now())

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating local user"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "local_users", id)
}
