package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/repository/postgres/task"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// dueCacheTTL bounds how stale the terminal's due list can be. Completions
// invalidate the location's entry immediately; the TTL covers everything else
// (edits, the daily reset).
const dueCacheTTL = 5 * time.Minute

type Controller struct {
	task    Task
	redisDB *redis.Client
}

func NewController(task Task, redisDB *redis.Client) *Controller {
	return &Controller{task, redisDB}
}

// task

func (uc Controller) GetList(c *web.Context) error {
	var filter task.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if locationID, ok := c.GetQueryFunc(reflect.Int, "location_id").(*int); ok {
		filter.LocationID = locationID
	}
	if frequency, ok := c.GetQueryFunc(reflect.String, "frequency").(*string); ok {
		filter.Frequency = frequency
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.task.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.task.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request task.CreateRequest

	if err := c.BindFunc(&request, "LocationID", "Title", "Frequency"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.task.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	uc.invalidateDueCache(c, response.LocationID)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request task.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	if err := uc.task.UpdateColumns(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.task.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// Complete records a completion from the location terminal and drops the
// location's cached due list so the next poll reflects it.
func (uc Controller) Complete(c *web.Context) error {
	var request task.CompleteRequest

	if err := c.BindFunc(&request, "TaskID", "LocalUserID", "Pin"); err != nil {
		return c.RespondError(err)
	}

	if err := uc.task.Complete(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.task.GetDetailById(c.Ctx, request.TaskID)
	if err == nil {
		uc.invalidateDueCache(c, detail.LocationID)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// DueList serves the terminal's polling endpoint from redis when a fresh
// entry exists, falling back to the live computation.
func (uc Controller) DueList(c *web.Context) error {
	locationID := c.GetParam(reflect.Int, "location_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	on := time.Now()
	if dateQ, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok && dateQ != nil {
		parsed, err := time.Parse("2006-01-02", *dateQ)
		if err != nil {
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		on = parsed
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	key := dueCacheKey(locationID, on)

	if cached, err := uc.redisDB.Get(c.Ctx, key).Bytes(); err == nil {
		var list []task.DueTaskResponse
		if err := json.Unmarshal(cached, &list); err == nil {
			return c.Respond(map[string]interface{}{
				"data": map[string]interface{}{
					"results": list,
					"cached":  true,
				},
				"status": true,
			}, http.StatusOK)
		}
	}

	list, err := uc.task.DueTasks(c.Ctx, locationID, on)
	if err != nil {
		return c.RespondError(err)
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := uc.redisDB.Set(c.Ctx, key, payload, dueCacheTTL).Err(); err != nil {
			logrus.WithError(err).Warn("task: caching due list failed")
		}
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"cached":  false,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetInstances(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	now := time.Now()
	from := now
	to := now.AddDate(0, 0, 7)

	if fromQ, ok := c.GetQueryFunc(reflect.String, "from").(*string); ok && fromQ != nil {
		parsed, err := time.Parse("2006-01-02", *fromQ)
		if err != nil {
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		from = parsed
	}
	if toQ, ok := c.GetQueryFunc(reflect.String, "to").(*string); ok && toQ != nil {
		parsed, err := time.Parse("2006-01-02", *toQ)
		if err != nil {
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		to = parsed
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.task.GetInstances(c.Ctx, id, from, to)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) invalidateDueCache(c *web.Context, locationID *int) {
	if locationID == nil {
		return
	}
	key := dueCacheKey(*locationID, time.Now())
	if err := uc.redisDB.Del(c.Ctx, key).Err(); err != nil {
		logrus.WithError(err).Warn("task: due cache invalidation failed")
	}
}

func dueCacheKey(locationID int, on time.Time) string {
	return fmt.Sprintf("due_tasks:%d:%s", locationID, on.Format("2006-01-02"))
}
