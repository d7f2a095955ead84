package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/figures-analytics/figures/internal/interfaces/cli/migrate"
	"github.com/figures-analytics/figures/internal/interfaces/cli/pipeline"
	"github.com/figures-analytics/figures/internal/interfaces/cli/seed"
	"github.com/figures-analytics/figures/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "figures",
		Short:        "Figures - learning metrics for Open edX sites",
		Long:         `Figures collects daily site and course metrics for Open edX sites and serves them over a read-only API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		pipeline.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
