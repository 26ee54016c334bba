// Package postgresql owns the bun database handle shared by every repository.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"productiva/backend/foundation/web"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Database struct {
	*bun.DB
}

// NewDatabase opens the postgres connection and wraps it with bun.
func NewDatabase(host, port, username, password, dbName string, disableTLS bool) *Database {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", username, password, host, port, dbName)
	if disableTLS {
		dsn += "?sslmode=disable"
	}

	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqlDB, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(false)))

	return &Database{DB: db}
}

// DeleteRow soft-deletes by id: rows are never removed, only stamped.
func (d *Database) DeleteRow(ctx context.Context, table string, id int) error {
	q := fmt.Sprintf(`UPDATE %s SET deleted_at = ? WHERE deleted_at IS NULL AND id = ?`, table)

	result, err := d.ExecContext(ctx, q, time.Now(), id)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusInternalServerError)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "reading rows affected"), http.StatusInternalServerError)
	}
	if rowsAffected == 0 {
		return web.NewRequestError(errors.Errorf("no row with id %d in %s", id, table), http.StatusNotFound)
	}

	return nil
}

// ValidateStruct checks that the named fields of a request struct were
// provided (non-nil pointers, non-zero values).
func (d *Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return web.NewRequestError(errors.New("validate: expected a struct"), http.StatusInternalServerError)
	}

	for _, name := range requiredFields {
		field := v.FieldByName(name)
		if !field.IsValid() {
			return web.NewRequestError(errors.Errorf("validate: unknown field %s", name), http.StatusInternalServerError)
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return web.NewRequestError(errors.Errorf("field %s is required", name), http.StatusBadRequest)
			}
			continue
		}
		if field.IsZero() {
			return web.NewRequestError(errors.Errorf("field %s is required", name), http.StatusBadRequest)
		}
	}

	return nil
}
