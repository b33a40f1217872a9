package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func refreshCmd() *cobra.Command {
	refreshRoot := &cobra.Command{
		Use:   "refresh",
		Short: "Trigger and inspect price refresh passes",
	}

	refreshRoot.AddCommand(
		refreshRunCmd(),
		refreshHistoryCmd(),
	)

	return refreshRoot
}

func refreshRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a refresh pass now (admin only)",
		Long: "Polls the pricing service for every tracked game, records deal\n" +
			"history, and sends notifications for qualifying price drops. Waits\n" +
			"for the pass to finish.",
		RunE: func(_ *cobra.Command, _ []string) error {
			result, err := newClient().TriggerRefresh(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			fmt.Printf("Refresh complete: %d games, %d deals written, %d notifications, %d banners backfilled.\n",
				result.Stats.GamesProcessed,
				result.Stats.DealsWritten,
				result.Stats.NotificationsSent,
				result.Stats.BannersBackfilled,
			)
			return nil
		},
	}
}

func refreshHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent refresh job runs (admin only)",
		RunE: func(_ *cobra.Command, _ []string) error {
			runs, err := newClient().RefreshHistory(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No refresh runs recorded.")
				return nil
			}
			return printJobRunsTable(runs)
		},
	}
}
