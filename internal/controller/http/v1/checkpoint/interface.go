package checkpoint

import (
	"context"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/repository/postgres/checkpoint"
)

type CheckPoint interface {
	GetList(ctx context.Context, filter checkpoint.Filter) ([]checkpoint.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (entity.CheckPoint, error)
	Create(ctx context.Context, request checkpoint.CreateRequest) (checkpoint.CreateResponse, error)
	Delete(ctx context.Context, id int) error

	CheckIn(ctx context.Context, request checkpoint.CheckInRequest) (checkpoint.CheckInResponse, error)
	CheckOut(ctx context.Context, request checkpoint.CheckOutRequest) (checkpoint.CheckOutResponse, error)
	GetRecords(ctx context.Context, filter checkpoint.RecordFilter) ([]checkpoint.RecordResponse, int, error)
	UpdateRecord(ctx context.Context, request checkpoint.UpdateRecordRequest) error
	DeleteRecord(ctx context.Context, id int) error
}
