package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func dealsCmd() *cobra.Command {
	dealsRoot := &cobra.Command{
		Use:   "deals",
		Short: "Browse deals across tracked games",
	}

	dealsRoot.AddCommand(
		dealsBestCmd(),
		dealsLatestCmd(),
	)

	return dealsRoot
}

func dealsBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show the lowest stored price per game",
		Long: "Lists every tracked game with its lowest recorded deal.\n" +
			"Games at a historical low are marked with *.",
		Example: `  dwc deals best
  dwc deals best --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			deals, err := newClient().BestDeals(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(deals)
			}
			if len(deals) == 0 {
				fmt.Println("No deals recorded yet.")
				return nil
			}
			return printBestDealsTable(deals)
		},
	}
}

func dealsLatestCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "latest",
		Short: "Show recent deal observations",
		RunE: func(_ *cobra.Command, _ []string) error {
			deals, err := newClient().LatestDeals(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(deals)
			}
			if len(deals) == 0 {
				fmt.Println("No deals recorded yet.")
				return nil
			}
			return printDealsTable(deals)
		},
	}
	c.Flags().IntVar(&limit, "limit", 50, "max rows to fetch")
	return c
}
