package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

type Config struct {
	AppURL                 string
	DatabaseDriver         string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	LockBackend            string
	LockPrefix             string
	LockTTL                time.Duration
	LockWait               time.Duration
	JWTSecret              string
	AuditSchedule          string
	ShutdownTimeoutSeconds int
}

// fileConfig is the optional YAML file. Its values replace the built-in
// defaults and are themselves overridden by environment variables.
type fileConfig struct {
	App struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"app"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"redis"`
	TaskLock struct {
		Backend string `yaml:"backend"`
		Prefix  string `yaml:"prefix"`
		TTLMs   int    `yaml:"ttl_ms"`
		WaitMs  int    `yaml:"wait_ms"`
	} `yaml:"task_lock"`
	RateLimitPerMinute     int    `yaml:"rate_limit_per_minute"`
	JWTSecret              string `yaml:"jwt_secret"`
	AuditSchedule          string `yaml:"audit_schedule"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

func defaults() fileConfig {
	var f fileConfig
	f.App.Host = "127.0.0.1"
	f.App.Port = "8080"
	f.Database.Driver = DriverSQLite
	f.Database.DSN = "marketplace.db"
	f.Redis.Host = "127.0.0.1"
	f.Redis.Port = "6379"
	f.TaskLock.Backend = LockBackendRedis
	f.TaskLock.Prefix = "task_lock:"
	f.TaskLock.TTLMs = 10000
	f.TaskLock.WaitMs = 3000
	f.RateLimitPerMinute = 60
	f.AuditSchedule = "@every 10m"
	f.ShutdownTimeoutSeconds = 20
	return f
}

// Load reads the file named by CONFIG_FILE, if any, then the environment.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	file := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	var errs []error
	intEnv := func(key string, fallback int) int {
		v, err := getEnvAsInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	appHost := getEnv("APP_HOST", file.App.Host)
	appPort := getEnv("APP_PORT", file.App.Port)
	redisHost := getEnv("REDIS_HOST", file.Redis.Host)
	redisPort := getEnv("REDIS_PORT", file.Redis.Port)

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDriver:         getEnv("DATABASE_DRIVER", file.Database.Driver),
		DatabaseDSN:            getEnv("DATABASE_DSN", file.Database.DSN),
		RateLimit:              intEnv("RATE_LIMIT_PER_MINUTE", file.RateLimitPerMinute),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		LockBackend:            getEnv("TASK_LOCK_BACKEND", file.TaskLock.Backend),
		LockPrefix:             getEnv("TASK_LOCK_PREFIX", file.TaskLock.Prefix),
		LockTTL:                time.Duration(intEnv("TASK_LOCK_TTL_MS", file.TaskLock.TTLMs)) * time.Millisecond,
		LockWait:               time.Duration(intEnv("TASK_LOCK_WAIT_MS", file.TaskLock.WaitMs)) * time.Millisecond,
		JWTSecret:              getEnv("JWT_SECRET", file.JWTSecret),
		AuditSchedule:          getEnvAllowEmpty("AUDIT_SCHEDULE", file.AuditSchedule),
		ShutdownTimeoutSeconds: intEnv("SHUTDOWN_TIMEOUT_SECONDS", file.ShutdownTimeoutSeconds),
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.AppURL == "" || cfg.AppURL == ":" {
		return errors.New("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	switch cfg.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %s or %s, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	switch cfg.LockBackend {
	case LockBackendRedis, LockBackendMemory:
	default:
		return fmt.Errorf("TASK_LOCK_BACKEND must be %s or %s, got %q", LockBackendRedis, LockBackendMemory, cfg.LockBackend)
	}
	if cfg.LockTTL <= 0 {
		return errors.New("TASK_LOCK_TTL_MS must be greater than 0")
	}
	if cfg.LockWait < 0 {
		return errors.New("TASK_LOCK_WAIT_MS must not be negative")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvAllowEmpty lets a variable that is set but empty clear the default.
func getEnvAllowEmpty(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}
