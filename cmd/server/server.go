package server

import (
	"time"

	"github.com/eventangle/edge/api"
	"github.com/eventangle/edge/config"
	"github.com/eventangle/edge/internal/pkg/cli"
	"github.com/eventangle/edge/internal/pkg/metrics"
	"github.com/eventangle/edge/internal/pkg/server"
	"github.com/eventangle/edge/net"
	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"
	"github.com/spf13/cobra"
)

func AddServerCommand(a *cli.App) *cobra.Command {
	var env string
	var host string
	var sentry string
	var logLevel string
	var sslKeyFile string
	var sslCertFile string
	var upstreamURL string

	var ssl bool
	var port uint32

	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"serve", "s"},
		Short:   "Start the edge HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// override config with cli flags
			cliConfig, err := buildServerCliConfiguration(cmd)
			if err != nil {
				return err
			}

			config.Override(cliConfig)

			err = StartEdgeServer(a)
			if err != nil {
				a.Logger.Errorf("Error starting edge server: %v", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "Edge environment")
	cmd.Flags().StringVar(&host, "host", "", "Host - The application host name")
	cmd.Flags().StringVar(&sentry, "sentry", "", "Sentry DSN")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level")
	cmd.Flags().StringVar(&sslCertFile, "ssl-cert-file", "", "SSL certificate file")
	cmd.Flags().StringVar(&sslKeyFile, "ssl-key-file", "", "SSL key file")
	cmd.Flags().StringVar(&upstreamURL, "upstream-url", "", "EventAngle application server the edge forwards to")
	cmd.Flags().BoolVar(&ssl, "ssl", false, "Configure SSL")
	cmd.Flags().Uint32Var(&port, "port", 0, "Server port")

	return cmd
}

func StartEdgeServer(a *cli.App) error {
	cfg, err := config.Get()
	if err != nil {
		a.Logger.WithError(err).Fatal("failed to load configuration")
	}

	start := time.Now()

	if lo, ok := a.Logger.(*log.Logger); ok {
		lvl, err := log.ParseLevel(cfg.Logger.Level)
		if err != nil {
			return err
		}

		lo.SetLevel(lvl)
	}

	apiOpts := &api.APIOptions{
		Logger:  a.Logger,
		Metrics: metrics.GetInstance(),
	}

	if util.IsStringEmpty(cfg.Upstream.URL) {
		a.Logger.Warn("no upstream configured; the edge will only answer its own routes")
	} else {
		fwd, err := net.NewForwarder(cfg.Upstream.URL, cfg.Upstream.Timeout)
		if err != nil {
			return err
		}

		apiOpts.Forwarder = fwd
	}

	ah := api.NewApplicationHandler(apiOpts)

	srv := server.NewServer(cfg.Server.HTTP.Port, func() {})
	srv.SetHandler(ah.BuildRoutes())

	a.Logger.Infof("Started EventAngle Edge in %s", time.Since(start))

	httpConfig := cfg.Server.HTTP
	if httpConfig.SSL {
		a.Logger.Infof("Edge server running on port %v with SSL", httpConfig.Port)
		srv.ListenAndServeTLS(httpConfig.SSLCertFile, httpConfig.SSLKeyFile)
		return nil
	}

	a.Logger.Infof("Edge server running on port %v", httpConfig.Port)
	srv.Listen()

	return nil
}

func buildServerCliConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	c, err := config.Get()
	if err != nil {
		return nil, err
	}

	env, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(env) {
		c.Environment = env
	}

	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(host) {
		c.Host = host
	}

	sentry, err := cmd.Flags().GetString("sentry")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(sentry) {
		c.Sentry.Dsn = sentry
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(logLevel) {
		c.Logger.Level = logLevel
	}

	upstreamURL, err := cmd.Flags().GetString("upstream-url")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(upstreamURL) {
		c.Upstream.URL = upstreamURL
	}

	port, err := cmd.Flags().GetUint32("port")
	if err != nil {
		return nil, err
	}

	if port != 0 {
		c.Server.HTTP.Port = port
	}

	if cmd.Flags().Changed("ssl") {
		ssl, err := cmd.Flags().GetBool("ssl")
		if err != nil {
			return nil, err
		}

		c.Server.HTTP.SSL = ssl
	}

	sslCertFile, err := cmd.Flags().GetString("ssl-cert-file")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(sslCertFile) {
		c.Server.HTTP.SSLCertFile = sslCertFile
	}

	sslKeyFile, err := cmd.Flags().GetString("ssl-key-file")
	if err != nil {
		return nil, err
	}

	if !util.IsStringEmpty(sslKeyFile) {
		c.Server.HTTP.SSLKeyFile = sslKeyFile
	}

	return &c, nil
}
