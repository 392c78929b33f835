package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"breakerbox/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "panelctl",
		Short: "Inspect breaker panel snapshots",
		Long: `panelctl lays out breaker panel snapshot files as a slot grid, traces
breakers to the devices they feed, and mints tokens for the edit API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.GridCmd())
	rootCmd.AddCommand(cli.HighlightCmd())
	rootCmd.AddCommand(cli.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
