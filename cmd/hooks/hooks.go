package hooks

import (
	"time"

	"github.com/eventangle/edge/config"
	"github.com/eventangle/edge/internal/pkg/cli"
	"github.com/eventangle/edge/log_hooks"
	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// PreRun loads configuration and prepares process-wide concerns (log
// level, error reporting) before any subcommand runs.
func PreRun(app *cli.App) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		err = config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		cfg, err := config.Get()
		if err != nil {
			return err
		}

		if lo, ok := app.Logger.(*log.Logger); ok {
			lvl, err := log.ParseLevel(cfg.Logger.Level)
			if err != nil {
				return err
			}

			lo.SetLevel(lvl)
		}

		if !util.IsStringEmpty(cfg.Sentry.Dsn) {
			err = sentry.Init(sentry.ClientOptions{
				Dsn:         cfg.Sentry.Dsn,
				ServerName:  cfg.Host,
				Environment: cfg.Environment,
				Release:     app.Version,
			})
			if err != nil {
				return err
			}

			hook := log_hooks.NewSentryHook(log_hooks.DefaultLevels)
			logrus.AddHook(hook)

			if lo, ok := app.Logger.(*log.Logger); ok {
				lo.WithLogger().AddHook(hook)
			}
		}

		return nil
	}
}

func PostRun(app *cli.App) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sentry.Flush(2 * time.Second)
		return nil
	}
}
