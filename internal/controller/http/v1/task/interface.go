package task

import (
	"context"
	"time"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/repository/postgres/task"
)

type Task interface {
	GetList(ctx context.Context, filter task.Filter) ([]task.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (entity.Task, error)
	Create(ctx context.Context, request task.CreateRequest) (task.CreateResponse, error)
	UpdateColumns(ctx context.Context, request task.UpdateRequest) error
	Delete(ctx context.Context, id int) error
	Complete(ctx context.Context, request task.CompleteRequest) error
	DueTasks(ctx context.Context, locationID int, on time.Time) ([]task.DueTaskResponse, error)
	GetInstances(ctx context.Context, taskID int, from, to time.Time) ([]task.InstanceResponse, error)
}
