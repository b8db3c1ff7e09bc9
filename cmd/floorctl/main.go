// Command floorctl operates the attendance registry from the shell: seeding demo data,
// toggling employees, reading presence and exporting reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dcrew/floortrack/internal/bootstrap"
	"github.com/spf13/cobra"
)

var app *bootstrap.App

// rootCmd wires the same services as the HTTP server before any subcommand runs.
var rootCmd = &cobra.Command{
	Use:           "floorctl",
	Short:         "Operate the factory attendance registry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		app = bootstrap.NewApp()
		return app.Setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(presentCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reindexCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if app != nil {
			app.Close()
		}
		stop()
		os.Exit(1)
	}
}
