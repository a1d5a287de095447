package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/infrastructure/sqlite"
	"github.com/wardwatch/wardwatch/internal/presentation"
)

var (
	historyLimit int
	historyJSON  bool
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Inspect the stored dashboard location",
}

var locationHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the location history, newest first",
	Long: `Print the location history kept in the SQLite location store.

Examples:
  wardwatch location history
  wardwatch location history --limit 5 --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		if cfg.Location.Store != config.StoreSQLite {
			return fmt.Errorf("location.store is %q; history is only kept by the %q store", cfg.Location.Store, config.StoreSQLite)
		}

		db, err := sqlite.NewDB(cfg.Location.Path)
		if err != nil {
			return fmt.Errorf("opening location database: %w", err)
		}
		defer func() { _ = db.Close() }()

		entries, err := db.LocationRepository().History(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("reading location history: %w", err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), historyJSON).
			FormatHistory(presentation.FromEntries(entries))
	},
}

func init() {
	locationHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to print")
	locationHistoryCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON instead of a table")
	locationCmd.AddCommand(locationHistoryCmd)
	rootCmd.AddCommand(locationCmd)
}
