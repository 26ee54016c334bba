package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productiva/backend/foundation/web"
	"productiva/backend/internal/commands"
	"productiva/backend/internal/jobs"
	"productiva/backend/internal/pkg/config"
	"productiva/backend/internal/pkg/repository/postgresql"
	"productiva/backend/internal/repository/postgres/task"
	"productiva/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("startup failed")
	}
}

func run() error {
	var flags struct {
		conf.Version
		Migrate bool   `conf:"default:true,help:apply pending schema migrations on startup"`
		Port    string `conf:"help:override the listen port from config.yaml"`
	}
	flags.SVN = "v1"
	flags.Desc = "workforce management backend"

	if err := conf.Parse(os.Args[1:], "PRODUCTIVA", &flags); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("PRODUCTIVA", &flags)
			if err != nil {
				return errors.Wrap(err, "generating usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "parsing flags")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if flags.Port != "" {
		cfg.ServerPort = flags.Port
	}

	postgresDB := postgresql.NewDatabase(
		cfg.DBHost, cfg.DBPort, cfg.DBUsername, cfg.DBPassword, cfg.DBName, cfg.DisableTLS,
	)

	if flags.Migrate {
		commands.MigrateUP(postgresDB)
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	taskPostgres := task.NewRepository(postgresDB)

	// Each job takes a file lock so that extra processes on the same host
	// skip the work instead of doubling it.
	scheduler := jobs.NewInstanceSchedulerJob(taskPostgres,
		jobs.NewFileGuard(cfg.LockDir, "instance_scheduler"), cfg.SchedulerTime)
	dailyReset := jobs.NewDailyResetJob(taskPostgres,
		jobs.NewFileGuard(cfg.LockDir, "daily_reset"), cfg.DailyResetTime)
	weeklyReset := jobs.NewWeeklyResetJob(taskPostgres,
		jobs.NewFileGuard(cfg.LockDir, "weekly_reset"), cfg.WeeklyResetTime)

	runners := []*jobs.Runner{scheduler, dailyReset, weeklyReset}
	for _, r := range runners {
		if !r.Start() {
			logrus.WithField("job", r.Name()).Info("job not started, lock held elsewhere")
		}
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		for _, r := range runners {
			r.Stop()
		}
		os.Exit(0)
	}()

	r := router.NewRouter(
		web.NewApp(),
		postgresDB,
		redisDB,
		cfg.ServerPort,
		cfg.BaseUrl,
		cfg.AllowedOrigins,
		runners,
	)

	return r.Init()
}
