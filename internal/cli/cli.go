package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VAlux/power-outage-scraper/internal/app"
	"github.com/VAlux/power-outage-scraper/internal/caldav"
	"github.com/VAlux/power-outage-scraper/internal/config"
	"github.com/VAlux/power-outage-scraper/internal/logging"
	"github.com/VAlux/power-outage-scraper/internal/notify"
	"github.com/VAlux/power-outage-scraper/internal/render"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUpdated = 2
)

var (
	flagDryRun bool
	flagCron   string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power-outage-scraper",
		Short: "Mirror the LOE power-outage schedule into a CalDAV calendar",
		Long: `Fetches the rendered power-outage schedule page, extracts the outage
windows for the configured queue, and mirrors them as calendar events.
A fingerprint per day is kept between runs so unchanged schedules are
left alone. Configuration comes from environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSync,
	}

	cmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Log planned changes without touching the calendar or notifying")
	cmd.AddCommand(newWatchCmd())

	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run sync repeatedly on a cron schedule",
		RunE:  runWatch,
	}
	cmd.Flags().StringVar(&flagCron, "cron", "*/30 * * * *", "Cron expression controlling how often to sync")
	return cmd
}

// runSync performs a single fetch-diff-apply cycle.
func runSync(cmd *cobra.Command, args []string) error {
	a, log, err := buildApp(flagDryRun)
	if err != nil {
		return err
	}

	res, err := a.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, caldav.ErrServiceUnavailable) {
			// iCloud throws intermittent 503s; the next scheduled run picks it up.
			log.Warn("calendar host temporarily unavailable, skipping this run", zap.Error(err))
			_ = log.Sync()
			return nil
		}
		_ = log.Sync()
		return err
	}

	_ = log.Sync()
	if res.Updated > 0 || res.Cleared > 0 {
		os.Exit(ExitUpdated)
	}
	return nil
}

// runWatch runs sync on a cron cadence until interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	a, log, err := buildApp(flagDryRun)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		switch _, err := a.Run(ctx); {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, caldav.ErrServiceUnavailable):
			log.Warn("calendar host temporarily unavailable, will retry on the next tick", zap.Error(err))
		default:
			log.Error("sync run failed", zap.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(flagCron, runOnce); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", flagCron, err)
	}

	runOnce()
	c.Start()
	log.Info("watching schedule", zap.String("cron", flagCron))

	<-ctx.Done()
	log.Info("shutting down")
	<-c.Stop().Done()
	return nil
}

// buildApp assembles the application from environment configuration.
// With dryRun set, the calendar and notifier sinks only log.
func buildApp(dryRun bool) (*app.App, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logging.New(cfg.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving timezone: %w", err)
	}

	renderer := render.New(render.Options{
		ChromiumPath:  cfg.ChromiumExecutable,
		LaunchTimeout: cfg.ChromiumLaunchTimeout(),
	}, log)

	var (
		calendar  app.Calendar
		notifiers []notify.Notifier
	)
	if dryRun {
		calendar = app.NewDryRunCalendar(log)
		notifiers = append(notifiers, notify.NewDryRunNotifier(log))
	} else {
		client, err := caldav.New(caldav.Config{
			URL:          cfg.CalDAVURL,
			Username:     cfg.CalDAVUser,
			Password:     cfg.CalDAVPassword,
			CalendarName: cfg.CalendarName,
			EventPrefix:  cfg.EventPrefix,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing caldav client: %w", err)
		}
		calendar = client

		if cfg.EmailEnabled() {
			email, err := notify.NewEmailNotifier(notify.EmailConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				UseTLS:   cfg.SMTPUseTLS,
				From:     cfg.NotifyEmailFrom,
				To:       cfg.NotifyEmailTo,
			}, log)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing e-mail notifier: %w", err)
			}
			notifiers = append(notifiers, email)
		}
		if cfg.TelegramEnabled() {
			tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing telegram notifier: %w", err)
			}
			notifiers = append(notifiers, tg)
		}
	}

	return app.New(cfg, loc, renderer, calendar, notifiers, log), log, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
