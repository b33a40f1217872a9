package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func gamesCmd() *cobra.Command {
	gamesRoot := &cobra.Command{
		Use:   "games",
		Short: "Manage tracked games",
	}

	gamesRoot.AddCommand(
		gamesListCmd(),
		gamesShowCmd(),
		gamesAddCmd(),
		gamesThresholdCmd(),
		gamesRemoveCmd(),
		gamesDealsCmd(),
		gamesHistoryCmd(),
	)

	return gamesRoot
}

func gamesListCmd() *cobra.Command {
	var search string

	c := &cobra.Command{
		Use:   "list",
		Short: "List tracked games",
		Example: `  dwc games list
  dwc games list --search hades`,
		RunE: func(_ *cobra.Command, _ []string) error {
			list, err := newClient().ListGames(context.Background(), search)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(list)
			}
			if len(list.Games) == 0 {
				fmt.Println("No tracked games.")
				return nil
			}
			return printGamesTable(list.Games)
		},
	}
	c.Flags().StringVar(&search, "search", "", "filter by title")
	return c
}

func gamesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a tracked game",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			g, err := newClient().GetGame(context.Background(), id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(g)
			}
			return printGameDetail(g)
		},
	}
}

func gamesAddCmd() *cobra.Command {
	var (
		title     string
		threshold float64
	)

	c := &cobra.Command{
		Use:   "add [itad-id]",
		Short: "Track a new game",
		Long: "Tracks a game for price drops. Pass an IsThereAnyDeal ID (find one\n" +
			"with 'dwc search') to pull metadata automatically, or --title for a\n" +
			"manual entry.",
		Args: cobra.MaximumNArgs(1),
		Example: `  dwc games add 018d937e-0000-7000-8000-000000000000
  dwc games add 018d937e-0000-7000-8000-000000000000 --threshold 15
  dwc games add --title "Obscure Indie Game"`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			ctx := context.Background()

			if len(args) == 1 {
				g, err := c.AddGame(ctx, args[0], threshold)
				if err != nil {
					return err
				}
				fmt.Printf("Now tracking %q (id %d).\n", g.Title, g.ID)
				return nil
			}
			if title == "" {
				return fmt.Errorf("an IsThereAnyDeal ID or --title is required")
			}
			g, err := c.AddGameByTitle(ctx, title, threshold)
			if err != nil {
				return err
			}
			fmt.Printf("Now tracking %q (id %d).\n", g.Title, g.ID)
			return nil
		},
	}
	c.Flags().StringVar(&title, "title", "", "track by title only")
	c.Flags().Float64Var(&threshold, "threshold", 0, "notify at or below this price (0 = any discount)")
	return c
}

func gamesThresholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "threshold <id> <price>",
		Short:   "Set a game's notification price threshold",
		Args:    cobra.ExactArgs(2),
		Example: "  dwc games threshold 7 14.99",
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q", args[1])
			}
			g, err := newClient().SetThreshold(context.Background(), id, price)
			if err != nil {
				return err
			}
			fmt.Printf("Threshold for %q set to $%.2f.\n", g.Title, g.PriceThreshold)
			return nil
		},
	}
}

func gamesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Stop tracking a game (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			if err := newClient().DeleteGame(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Game %d removed.\n", id)
			return nil
		},
	}
}

func gamesDealsCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "deals <id>",
		Short: "Show a game's stored deal history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			deals, err := newClient().GameDeals(context.Background(), id, limit)
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

func gamesHistoryCmd() *cobra.Command {
	var sinceDays int

	c := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a game's shop price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			history, err := newClient().GameHistory(context.Background(), id, sinceDays)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(history)
			}
			if len(history) == 0 {
				fmt.Println("No price history available.")
				return nil
			}
			return printHistoryTable(history)
		},
	}
	c.Flags().IntVar(&sinceDays, "since-days", 365, "how far back to fetch")
	return c
}

func parseGameID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid game id %q", s)
	}
	return id, nil
}
