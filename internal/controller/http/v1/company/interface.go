package company

import (
	"context"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/repository/postgres/company"
)

type Company interface {
	GetById(ctx context.Context, id int) (entity.Company, error)
	GetList(ctx context.Context, filter company.Filter) ([]company.GetListResponse, int, error)
	Create(ctx context.Context, request company.CreateRequest) (company.CreateResponse, error)
	UpdateColumns(ctx context.Context, request company.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
