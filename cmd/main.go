package main

import (
	"os"
	_ "time/tzdata"

	"github.com/eventangle/edge"
	"github.com/eventangle/edge/cmd/hooks"
	"github.com/eventangle/edge/cmd/keys"
	"github.com/eventangle/edge/cmd/server"
	"github.com/eventangle/edge/cmd/version"
	"github.com/eventangle/edge/internal/pkg/cli"
	"github.com/eventangle/edge/pkg/log"
)

func main() {
	slog := log.NewLogger(os.Stdout)

	err := os.Setenv("TZ", "") // Use UTC by default :)
	if err != nil {
		slog.Fatal("failed to set env - ", err)
	}

	app := &cli.App{
		Version: edge.GetVersion(),
		Logger:  slog,
	}

	c := cli.NewCli(app)

	var configFile string
	c.Flags().StringVar(&configFile, "config", "./edge.json", "Configuration file for the edge")

	c.PersistentPreRunE(hooks.PreRun(app))
	c.PersistentPostRunE(hooks.PostRun(app))

	c.AddCommand(server.AddServerCommand(app))
	c.AddCommand(version.AddVersionCommand())
	c.AddCommand(keys.AddKeysCommand(app))

	if err := c.Execute(); err != nil {
		slog.Fatal(err)
	}
}
