package workhours

import (
	"net/http"
	"reflect"
	"time"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/repository/postgres/workhours"
)

type Controller struct {
	workHours WorkHours
}

func NewController(workHours WorkHours) *Controller {
	return &Controller{workHours}
}

func (uc Controller) GetEmployeeSummary(c *web.Context) error {
	id := c.GetParam(reflect.Int, "employee_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.workHours.GetEmployeeSummary(c.Ctx, id)
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

func (uc Controller) GetCompanySummary(c *web.Context) error {
	id := c.GetParam(reflect.Int, "company_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.workHours.GetCompanySummary(c.Ctx, id)
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

func (uc Controller) GetContractHours(c *web.Context) error {
	id := c.GetParam(reflect.Int, "employee_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.workHours.GetContractHours(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   detail,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpsertContractHours(c *web.Context) error {
	var request workhours.UpsertContractHoursRequest

	if err := c.BindFunc(&request, "EmployeeID", "WeeklyHours"); err != nil {
		return c.RespondError(err)
	}

	if err := uc.workHours.UpsertContractHours(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// CheckCap answers "would adding these hours this week cross the contract
// cap". Purely informational; nothing is persisted.
func (uc Controller) CheckCap(c *web.Context) error {
	id := c.GetParam(reflect.Int, "employee_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	proposed := 0.0
	if hoursQ, ok := c.GetQueryFunc(reflect.String, "hours").(*string); ok && hoursQ != nil {
		parsed, err := time.ParseDuration(*hoursQ + "h")
		if err != nil {
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		proposed = parsed.Hours()
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	check, err := uc.workHours.CheckWeeklyHoursLimit(c.Ctx, id, time.Now(), proposed)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   check,
		"status": true,
	}, http.StatusOK)
}
