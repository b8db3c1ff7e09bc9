package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dcrew/floortrack/internal/database"
	"github.com/dcrew/floortrack/internal/service"
	"github.com/spf13/cobra"
)

var (
	seedPreset string
	seedCount  int
	seedDays   int
	seedValue  int64

	exportOut    string
	exportFrom   string
	exportTo     string
	exportFormat string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Append synthetic employees with attendance history",
	Long: `Append synthetic employees with closed shifts for the days before today.

Presets:
  small  - 10 employees, 7 days
  medium - 100 employees, 30 days
  large  - 1000 employees, 90 days

--count and --days override the preset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, days, err := database.GetPresetConfig(database.SeedPreset(seedPreset))
		if err != nil {
			return err
		}
		if seedCount > 0 {
			n = seedCount
		}
		if seedDays >= 0 {
			days = seedDays
		}
		if seedValue == 0 {
			seedValue = time.Now().UnixNano()
		}

		ctx := cmd.Context()
		s := app.Services
		seeder := database.NewDataSeeder(s.Store, s.StockStore, seedValue)
		summary, err := seeder.SeedData(ctx, n, days, s.Clock.Now())
		if err != nil {
			return err
		}
		invalidateStats(cmd)
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d employees, %d attendance records, %d stock items in %v\n",
			summary.Employees, summary.Records, summary.StockItems, summary.Elapsed.Round(time.Millisecond))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every employee from the registry",
	Long: `Remove every employee and attendance record from the registry.

This is a full reset. Ids are assigned as the highest existing id plus one, so after a
clear numbering restarts at 1 and ids from before the clear are reused. Badges, exported
reports and the search index that still name old ids refer to other people afterwards;
run "floorctl reindex" once the registry is populated again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder := database.NewDataSeeder(app.Services.Store, nil, 0)
		if err := seeder.ClearData(cmd.Context()); err != nil {
			return err
		}
		invalidateStats(cmd)
		fmt.Fprintln(cmd.OutOrStdout(), "Registry cleared; ids restart at 1")
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id|badge>",
	Short: "Check an employee in or out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := app.Services.Attendance.ToggleRaw(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "checked out"
		if res.Working {
			state = "checked in"
		}
		fmt.Fprintln(cmd.OutOrStdout(), state)
		return nil
	},
}

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Print how many employees attended today",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := app.Services.Attendance.PresentToday(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard stats as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := app.Services.Attendance.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the attendance report to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		r := service.ExportRange{From: exportFrom, To: exportTo}
		if err := app.Services.Reports.ExportAttendance(cmd.Context(), f, r, exportFormat); err != nil {
			f.Close()
			os.Remove(exportOut)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", exportOut)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the identity search index from the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := app.Services.Search.Reindex(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d employees\n", n)
		return nil
	},
}

// invalidateStats drops the shared stats snapshot after a write that bypassed the attendance service.
func invalidateStats(cmd *cobra.Command) {
	if c := app.Services.Cache; c != nil {
		if err := c.Invalidate(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: failed to invalidate stats cache:", err)
		}
	}
}

func init() {
	seedCmd.Flags().StringVar(&seedPreset, "preset", string(database.PresetSmall), "Data preset: small, medium, large")
	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Number of employees (overrides preset)")
	seedCmd.Flags().IntVar(&seedDays, "days", -1, "Days of history (overrides preset)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (default: current time)")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "attendance.xlsx", "Output file")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First date, YYYY-MM-DD (default: 29 days before --to)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last date, YYYY-MM-DD (default: today)")
	exportCmd.Flags().StringVar(&exportFormat, "format", service.FormatXLSX, "Output format: xlsx or csv")
}
