package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/pengingat/internal/profile"
	"github.com/hrygo/pengingat/plugin/ai/aitime"
	"github.com/hrygo/pengingat/server"
	"github.com/hrygo/pengingat/server/timezone"
	"github.com/hrygo/pengingat/store"
	"github.com/hrygo/pengingat/store/db"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "pengingat",
		Short: `A reminder service that understands "besok jam 6 sore" style times.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}

	parseCmd = &cobra.Command{
		Use:   "parse [message]",
		Short: "Resolve a temporal expression and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, strings.Join(args, " "))
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetDefault("timezone", timezone.DefaultTimezone)
	viper.SetDefault("activity-label", profile.DefaultActivityLabel)
	viper.SetDefault("rate-limit", profile.DefaultRateLimit)
	viper.SetDefault("rate-burst", profile.DefaultRateBurst)
	viper.SetDefault("reminder-interval", profile.DefaultReminderInterval)

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", "database driver, sqlite or postgres")
	flags.String("dsn", "", "database source name (derived from data for sqlite)")
	flags.String("timezone", timezone.DefaultTimezone, "IANA timezone reminders are resolved in")
	flags.String("activity-label", profile.DefaultActivityLabel, "activity text used when a message has none")
	flags.Float64("rate-limit", profile.DefaultRateLimit, "per-IP request rate in requests per second")
	flags.Int("rate-burst", profile.DefaultRateBurst, "per-IP request burst")
	flags.Duration("reminder-interval", profile.DefaultReminderInterval, "how often due reminders are checked")
	flags.Bool("verbose", false, "enable debug logging")

	for _, name := range []string{
		"mode", "addr", "port", "data", "driver", "dsn", "timezone",
		"activity-label", "rate-limit", "rate-burst", "reminder-interval", "verbose",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	parseCmd.Flags().String("reference", "", "reference instant in RFC3339 (default now)")

	viper.SetEnvPrefix("pengingat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(parseCmd)
}

func loadProfile() *profile.Profile {
	return &profile.Profile{
		Mode:             viper.GetString("mode"),
		Addr:             viper.GetString("addr"),
		Port:             viper.GetInt("port"),
		Data:             viper.GetString("data"),
		Driver:           viper.GetString("driver"),
		DSN:              viper.GetString("dsn"),
		Version:          version,
		Timezone:         viper.GetString("timezone"),
		ActivityLabel:    viper.GetString("activity-label"),
		RateLimit:        viper.GetFloat64("rate-limit"),
		RateBurst:        viper.GetInt("rate-burst"),
		ReminderInterval: viper.GetDuration("reminder-interval"),
	}
}

func newLogger(p *profile.Profile) *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if p.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func runServer(ctx context.Context) error {
	instanceProfile := loadProfile()
	if err := instanceProfile.Validate(); err != nil {
		return err
	}
	logger := newLogger(instanceProfile)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	defer storeInstance.Close()

	if err := storeInstance.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return s.Start(ctx)
}

type parseOutput struct {
	aitime.ResolutionResult
	Reference   string `json:"reference"`
	TriggerTime string `json:"trigger_time,omitempty"`
	Display     string `json:"display,omitempty"`
}

func runParse(cmd *cobra.Command, message string) error {
	instanceProfile := loadProfile()
	loc, err := timezone.ParseTimezone(instanceProfile.Timezone)
	if err != nil {
		return err
	}

	reference := time.Now()
	if raw, _ := cmd.Flags().GetString("reference"); raw != "" {
		reference, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --reference: %w", err)
		}
	}

	svc := aitime.NewService(
		aitime.WithLocation(loc),
		aitime.WithActivityLabel(instanceProfile.ActivityLabel),
		aitime.WithLogger(newLogger(instanceProfile)),
	)
	result := svc.ParseTemporalExpression(cmd.Context(), message, &reference)

	out := parseOutput{ResolutionResult: result, Reference: reference.In(loc).Format(time.RFC3339)}
	if result.IsResolved() {
		instant, err := timezone.ToAbsoluteInstant(result.IsoDate, result.IsoTime, loc)
		if err != nil {
			return err
		}
		out.TriggerTime = instant.Format(time.RFC3339)
		out.Display = timezone.FormatInstant(instant, loc)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
