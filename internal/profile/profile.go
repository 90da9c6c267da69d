package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/pengingat/server/timezone"
)

const (
	// DefaultActivityLabel is used when a message carries no activity text.
	DefaultActivityLabel = "Pengingat"
	// DefaultRateLimit is the per-IP request rate, in requests per second.
	DefaultRateLimit = 10.0
	// DefaultRateBurst is the per-IP burst size.
	DefaultRateBurst = 20
	// DefaultReminderInterval is how often due reminders are checked.
	DefaultReminderInterval = time.Minute
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where pengingat stores its reminders
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Timezone is the civil zone reminders are resolved in (PENGINGAT_TIMEZONE)
	Timezone string
	// ActivityLabel replaces an empty activity text (PENGINGAT_ACTIVITY_LABEL)
	ActivityLabel string

	// RateLimit is the per-IP request rate in req/s (PENGINGAT_RATE_LIMIT)
	RateLimit float64
	// RateBurst is the per-IP burst (PENGINGAT_RATE_BURST)
	RateBurst int

	// ReminderInterval is the due-reminder poll period (PENGINGAT_REMINDER_INTERVAL)
	ReminderInterval time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the resolver, rate-limit and scheduler settings from PENGINGAT_* variables.
// Unset or unparsable values keep the defaults.
func (p *Profile) FromEnv() {
	p.Timezone = getEnvOrDefault("PENGINGAT_TIMEZONE", timezone.DefaultTimezone)
	p.ActivityLabel = getEnvOrDefault("PENGINGAT_ACTIVITY_LABEL", DefaultActivityLabel)

	p.RateLimit = DefaultRateLimit
	if v, err := strconv.ParseFloat(os.Getenv("PENGINGAT_RATE_LIMIT"), 64); err == nil && v > 0 {
		p.RateLimit = v
	}
	p.RateBurst = DefaultRateBurst
	if v, err := strconv.Atoi(os.Getenv("PENGINGAT_RATE_BURST")); err == nil && v > 0 {
		p.RateBurst = v
	}
	p.ReminderInterval = DefaultReminderInterval
	if v, err := time.ParseDuration(os.Getenv("PENGINGAT_REMINDER_INTERVAL")); err == nil && v > 0 {
		p.ReminderInterval = v
	}
}

// Location returns the configured timezone, falling back to Asia/Jakarta.
func (p *Profile) Location() *time.Location {
	loc, _ := timezone.ParseTimezone(p.Timezone)
	return loc
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q: only sqlite and postgres are supported", p.Driver)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "pengingat")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/pengingat"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("pengingat_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Timezone == "" {
		p.Timezone = timezone.DefaultTimezone
	}
	if _, err := timezone.ParseTimezone(p.Timezone); err != nil {
		return errors.Wrap(err, "invalid timezone")
	}
	if p.ActivityLabel == "" {
		p.ActivityLabel = DefaultActivityLabel
	}
	if p.RateLimit <= 0 {
		p.RateLimit = DefaultRateLimit
	}
	if p.RateBurst <= 0 {
		p.RateBurst = DefaultRateBurst
	}
	if p.ReminderInterval <= 0 {
		p.ReminderInterval = DefaultReminderInterval
	}

	return nil
}
