package keys

import (
	"fmt"

	"github.com/eventangle/edge/internal/pkg/cli"
	"github.com/eventangle/edge/util"
	"github.com/spf13/cobra"
)

func AddKeysCommand(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage admin tokens",
	}

	cmd.AddCommand(addGenerateCommand())

	return cmd
}

func addGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Mint a fresh admin token for the ADMIN_TOKEN secret",
		// Token generation needs no configuration; skip the root hooks.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, token := util.GenerateAdminToken()

			fmt.Printf("Mask: %s\n", mask)
			fmt.Printf("Token: %s\n", token)
			fmt.Println("Store the token in your platform's secret store; it is not shown again.")

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	}

	return cmd
}
