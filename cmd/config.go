package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
)

const DefaultClaimLockTimeout = 3 * time.Second

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	JWTSecret  string
	LogFormat  string

	ClaimLockTimeout   time.Duration
	ReconcileSchedule  string
	EventsChannel      string
	LocationRatePerSec float64
}

// LoadConfig reads the environment after loading envFile. A missing file is fine: in
// containers everything comes from the environment, and real variables always win.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		HTTPPort:          getenv("HTTP_PORT", "8080"),
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBSslMode:         getenv("DB_SSLMODE", "disable"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		ReconcileSchedule: getenv("RECONCILE_SCHEDULE", jobs.DefaultReconcileSchedule),
		EventsChannel:     getenv("EVENTS_CHANNEL", postgres.DefaultEventsChannel),
	}

	var lockErr, rateErr error
	cfg.ClaimLockTimeout, lockErr = durationEnv("CLAIM_LOCK_TIMEOUT", DefaultClaimLockTimeout)
	cfg.LocationRatePerSec, rateErr = floatEnv("LOCATION_RATE_PER_SEC", ws.DefaultLocationRate)

	if err := errors.Join(lockErr, rateErr, cfg.validate()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errList []error
	for name, value := range map[string]string{
		"DB_USER":    c.DBUser,
		"DB_NAME":    c.DBName,
		"JWT_SECRET": c.JWTSecret,
	} {
		if value == "" {
			errList = append(errList, errs.NewValueIsRequiredError(name))
		}
	}
	return errors.Join(errList...)
}

// DSN is used both by gorm and by the LISTEN connection of the notify relay.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a positive duration", raw))
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a positive number", raw))
	}
	return f, nil
}
