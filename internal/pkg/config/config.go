package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`
	BaseUrl    string `yaml:"base_url"`

	ServerPort     string   `yaml:"server_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// Background job settings. Times are "HH:MM" local wall clock.
	LockDir         string `yaml:"lock_dir"`
	DailyResetTime  string `yaml:"daily_reset_time"`
	WeeklyResetTime string `yaml:"weekly_reset_time"`
	SchedulerTime   string `yaml:"scheduler_time"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	if c.ServerPort == "" {
		c.ServerPort = ":8080"
	}
	if c.LockDir == "" {
		c.LockDir = os.TempDir()
	}
	if c.DailyResetTime == "" {
		c.DailyResetTime = "05:00"
	}
	if c.WeeklyResetTime == "" {
		c.WeeklyResetTime = "04:00"
	}
	if c.SchedulerTime == "" {
		c.SchedulerTime = "03:00"
	}

	return &c, nil
}
