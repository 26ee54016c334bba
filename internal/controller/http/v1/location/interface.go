package location

import (
	"context"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/repository/postgres/location"
)

type Location interface {
	GetById(ctx context.Context, id int) (entity.Location, error)
	GetList(ctx context.Context, filter location.Filter) ([]location.GetListResponse, int, error)
	Create(ctx context.Context, request location.CreateRequest) (location.CreateResponse, error)
	UpdateColumns(ctx context.Context, request location.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
