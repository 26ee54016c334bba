package jobs

import (
	"net/http"
	"reflect"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/jobs"
)

// Controller exposes the background runners over HTTP so operators can see
// job state and trigger a pass without waiting for the clock.
type Controller struct {
	runners map[string]*jobs.Runner
}

func NewController(runners ...*jobs.Runner) *Controller {
	byName := make(map[string]*jobs.Runner, len(runners))
	for _, r := range runners {
		byName[r.Name()] = r
	}
	return &Controller{runners: byName}
}

func (uc Controller) GetStatus(c *web.Context) error {
	statuses := make(map[string]jobs.Status, len(uc.runners))
	for name, r := range uc.runners {
		statuses[name] = r.Status()
	}

	return c.Respond(map[string]interface{}{
		"data":   statuses,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) RunNow(c *web.Context) error {
	name := c.GetParam(reflect.String, "name").(string)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	runner, ok := uc.runners[name]
	if !ok {
		return c.RespondError(web.NewRequestError(jobs.ErrUnknownJob, http.StatusNotFound))
	}

	if err := runner.RunNow(c.Ctx); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   runner.Status(),
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Start(c *web.Context) error {
	name := c.GetParam(reflect.String, "name").(string)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	runner, ok := uc.runners[name]
	if !ok {
		return c.RespondError(web.NewRequestError(jobs.ErrUnknownJob, http.StatusNotFound))
	}

	started := runner.Start()

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"started": started,
			"state":   runner.Status(),
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Stop(c *web.Context) error {
	name := c.GetParam(reflect.String, "name").(string)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	runner, ok := uc.runners[name]
	if !ok {
		return c.RespondError(web.NewRequestError(jobs.ErrUnknownJob, http.StatusNotFound))
	}

	runner.Stop()

	return c.Respond(map[string]interface{}{
		"data":   runner.Status(),
		"status": true,
	}, http.StatusOK)
}
