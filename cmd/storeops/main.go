package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/cli"
	"github.com/example/storeops/internal/version"
	"github.com/example/storeops/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "storeops",
		Short:   "storeops - store counting tools",
		Version: version.String(),
		Long: `storeops runs the store's counting workflows: the nightly/morning milk
order and the RTD&E restock pull list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.Bootstrap(cmd)
		},
	}
	rootCmd.PersistentFlags().StringP("user", "u", "", "Acting staff id (default: workstation profile)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default: ./.env if present)")

	// Counting tools
	rootCmd.AddCommand(cli.MilkCmd())
	rootCmd.AddCommand(cli.RTDECmd())
	rootCmd.AddCommand(cli.ActivityCmd())

	// Administration
	rootCmd.AddCommand(cli.CatalogCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.DBCmd())
	rootCmd.AddCommand(cli.SweeperCmd())

	err := rootCmd.Execute()
	wire.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
