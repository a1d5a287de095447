package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardwatch/wardwatch/internal/presentation"
)

var viewsJSON bool

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the configured dashboard views",
	Long: `List the dashboard views in tab order with their shortcuts.

Views come from the views: section of the config file, or the built-in
catalog when none are configured.

Examples:
  wardwatch views
  wardwatch views --json | jq '.[].id'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		reg, err := cfg.Registry()
		if err != nil {
			return fmt.Errorf("invalid view configuration: %w", err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), viewsJSON).
			FormatViews(presentation.FromRegistry(reg))
	},
}

func init() {
	viewsCmd.Flags().BoolVar(&viewsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(viewsCmd)
}
