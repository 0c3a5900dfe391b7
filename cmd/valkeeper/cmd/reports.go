package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/solatis/valkeeper/internal/core/db"
	"github.com/solatis/valkeeper/internal/types"
)

var (
	reportsOutput    string
	reportsSchema    string
	reportsLimit     int
	reportsOlderThan time.Duration
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect stored validation reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store *db.ReportStore) error {
			reports, err := store.List(cmd.Context(), reportsSchema, reportsLimit)
			if err != nil {
				return err
			}
			return renderReportList(cmd.OutOrStdout(), reportsOutput, reports, time.Now())
		})
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := types.ParseReportID(args[0])
		if err != nil {
			return fmt.Errorf("invalid report id %q: %w", args[0], err)
		}
		return withStore(cmd, func(store *db.ReportStore) error {
			report, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), reportsOutput, report, true)
		})
	},
}

var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports older than --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportsOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %v", reportsOlderThan)
		}
		cutoff := time.Now().Add(-reportsOlderThan)
		return withStore(cmd, func(store *db.ReportStore) error {
			removed, err := store.Prune(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %s %s created before %s\n",
				humanize.Comma(removed), plural(int(removed), "report"), cutoff.Format(time.RFC3339))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsPruneCmd)

	reportsCmd.PersistentFlags().StringVarP(&reportsOutput, "output", "o", outputText, "output format (text, json, yaml)")
	reportsListCmd.Flags().StringVarP(&reportsSchema, "schema", "s", "", "only reports for this schema")
	reportsListCmd.Flags().IntVarP(&reportsLimit, "limit", "n", db.DefaultListLimit, "maximum number of reports")
	reportsPruneCmd.Flags().DurationVar(&reportsOlderThan, "older-than", 30*24*time.Hour, "age of the newest report to delete")
}

// withStore opens the report store (applying migrations) for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*db.ReportStore) error) error {
	if err := validateOutput(reportsOutput); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	url, err := storeURL(cfg)
	if err != nil {
		return err
	}
	store, err := db.OpenReportStore(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer store.Close()
	return fn(store)
}
