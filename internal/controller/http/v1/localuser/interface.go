package localuser

import (
	"context"

	"productiva/backend/internal/repository/postgres/localuser"
)

type LocalUser interface {
	GetList(ctx context.Context, filter localuser.Filter) ([]localuser.GetListResponse, int, error)
	Create(ctx context.Context, request localuser.CreateRequest) (localuser.CreateResponse, error)
	UpdateColumns(ctx context.Context, request localuser.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
