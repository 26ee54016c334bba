package router

import (
	"productiva/backend/foundation/web"
	"productiva/backend/internal/jobs"
	"productiva/backend/internal/middleware"
	"productiva/backend/internal/pkg/repository/postgresql"

	"productiva/backend/internal/repository/postgres/checkpoint"
	"productiva/backend/internal/repository/postgres/company"
	"productiva/backend/internal/repository/postgres/employee"
	"productiva/backend/internal/repository/postgres/localuser"
	"productiva/backend/internal/repository/postgres/location"
	"productiva/backend/internal/repository/postgres/task"
	"productiva/backend/internal/repository/postgres/workhours"

	checkpoint_controller "productiva/backend/internal/controller/http/v1/checkpoint"
	company_controller "productiva/backend/internal/controller/http/v1/company"
	employee_controller "productiva/backend/internal/controller/http/v1/employee"
	jobs_controller "productiva/backend/internal/controller/http/v1/jobs"
	localuser_controller "productiva/backend/internal/controller/http/v1/localuser"
	location_controller "productiva/backend/internal/controller/http/v1/location"
	task_controller "productiva/backend/internal/controller/http/v1/task"
	workhours_controller "productiva/backend/internal/controller/http/v1/workhours"

	"github.com/redis/go-redis/v9"
)

type Router struct {
	*web.App
	postgresDB     *postgresql.Database
	redisDB        *redis.Client
	port           string
	baseURL        string
	allowedOrigins []string
	jobRunners     []*jobs.Runner
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	baseURL string,
	allowedOrigins []string,
	jobRunners []*jobs.Runner,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		baseURL,
		allowedOrigins,
		jobRunners,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(r.allowedOrigins))

	// - postgresql
	companyPostgres := company.NewRepository(r.postgresDB)
	locationPostgres := location.NewRepository(r.postgresDB)
	employeePostgres := employee.NewRepository(r.postgresDB)
	localUserPostgres := localuser.NewRepository(r.postgresDB)
	workHoursPostgres := workhours.NewRepository(r.postgresDB)
	checkpointPostgres := checkpoint.NewRepository(r.postgresDB, workHoursPostgres)
	taskPostgres := task.NewRepository(r.postgresDB)

	// controller
	companyController := company_controller.NewController(companyPostgres)
	locationController := location_controller.NewController(locationPostgres, r.baseURL)
	employeeController := employee_controller.NewController(employeePostgres)
	localUserController := localuser_controller.NewController(localUserPostgres)
	workHoursController := workhours_controller.NewController(workHoursPostgres)
	checkpointController := checkpoint_controller.NewController(checkpointPostgres)
	taskController := task_controller.NewController(taskPostgres, r.redisDB)
	jobsController := jobs_controller.NewController(r.jobRunners...)

	// #company
	r.Get("/api/v1/company/list", companyController.GetList)
	r.Get("/api/v1/company/:id", companyController.GetDetailById)
	r.Post("/api/v1/company/create", companyController.Create)
	r.Patch("/api/v1/company/:id", companyController.UpdateColumns)
	r.Delete("/api/v1/company/:id", companyController.Delete)

	// #location
	r.Get("/api/v1/location/list", locationController.GetList)
	r.Get("/api/v1/location/:id", locationController.GetDetailById)
	r.Get("/api/v1/location/:id/qrcode", locationController.GetQrCode)
	r.Post("/api/v1/location/create", locationController.Create)
	r.Patch("/api/v1/location/:id", locationController.UpdateColumns)
	r.Delete("/api/v1/location/:id", locationController.Delete)

	// #employee
	r.Get("/api/v1/employee/list", employeeController.GetList)
	r.Get("/api/v1/employee/:id", employeeController.GetDetailById)
	r.Post("/api/v1/employee/create", employeeController.Create)
	r.Patch("/api/v1/employee/:id", employeeController.UpdateColumns)
	r.Delete("/api/v1/employee/:id", employeeController.Delete)

	// #local user
	r.Get("/api/v1/local_user/list", localUserController.GetList)
	r.Post("/api/v1/local_user/create", localUserController.Create)
	r.Patch("/api/v1/local_user/:id", localUserController.UpdateColumns)
	r.Delete("/api/v1/local_user/:id", localUserController.Delete)

	// #checkpoint
	r.Get("/api/v1/checkpoint/list", checkpointController.GetList)
	r.Get("/api/v1/checkpoint/:id", checkpointController.GetDetailById)
	r.Post("/api/v1/checkpoint/create", checkpointController.Create)
	r.Delete("/api/v1/checkpoint/:id", checkpointController.Delete)
	r.Post("/api/v1/checkpoint/checkin", checkpointController.CheckIn)
	r.Post("/api/v1/checkpoint/checkout", checkpointController.CheckOut)
	r.Get("/api/v1/checkpoint/records", checkpointController.GetRecords)
	r.Patch("/api/v1/checkpoint/records/:id", checkpointController.UpdateRecord)
	r.Delete("/api/v1/checkpoint/records/:id", checkpointController.DeleteRecord)

	// #work hours
	r.Get("/api/v1/workhours/employee/:employee_id", workHoursController.GetEmployeeSummary)
	r.Get("/api/v1/workhours/company/:company_id", workHoursController.GetCompanySummary)
	r.Get("/api/v1/workhours/contract/:employee_id", workHoursController.GetContractHours)
	r.Post("/api/v1/workhours/contract", workHoursController.UpsertContractHours)
	r.Get("/api/v1/workhours/cap/:employee_id", workHoursController.CheckCap)

	// #task
	r.Get("/api/v1/task/list", taskController.GetList)
	r.Get("/api/v1/task/:id", taskController.GetDetailById)
	r.Get("/api/v1/task/:id/instances", taskController.GetInstances)
	r.Post("/api/v1/task/create", taskController.Create)
	r.Patch("/api/v1/task/:id", taskController.UpdateColumns)
	r.Delete("/api/v1/task/:id", taskController.Delete)
	r.Post("/api/v1/task/complete", taskController.Complete)
	r.Get("/api/v1/task/due/:location_id", taskController.DueList)

	// #jobs
	r.Get("/api/v1/jobs/status", jobsController.GetStatus)
	r.Post("/api/v1/jobs/:name/run", jobsController.RunNow)
	r.Post("/api/v1/jobs/:name/start", jobsController.Start)
	r.Post("/api/v1/jobs/:name/stop", jobsController.Stop)

	return r.Run(r.port)
}
