package cli

import (
	"github.com/eventangle/edge/pkg/log"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

// App is the core dependency of the entire binary.
type App struct {
	Version string
	Logger  log.StdLogger
}

type EdgeCli struct {
	cmd *cobra.Command
}

func NewCli(app *App) *EdgeCli {
	cmd := &cobra.Command{
		Use:     "edge",
		Version: app.Version,
		Short:   "EventAngle edge gateway",
	}

	return &EdgeCli{cmd: cmd}
}

func (c *EdgeCli) Flags() *flag.FlagSet {
	return c.cmd.PersistentFlags()
}

func (c *EdgeCli) PersistentPreRunE(fn func(*cobra.Command, []string) error) {
	c.cmd.PersistentPreRunE = fn
}

func (c *EdgeCli) PersistentPostRunE(fn func(*cobra.Command, []string) error) {
	c.cmd.PersistentPostRunE = fn
}

func (c *EdgeCli) AddCommand(subCmd *cobra.Command) {
	c.cmd.AddCommand(subCmd)
}

func (c *EdgeCli) Execute() error {
	return c.cmd.Execute()
}
