package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <title>",
		Short: "Search the pricing service by title",
		Args:  cobra.MinimumNArgs(1),
		Example: `  dwc search hades
  dwc search "baldur's gate"`,
		RunE: func(_ *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			results, err := newClient().Search(context.Background(), title)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(results)
			}
			if len(results) == 0 {
				fmt.Printf("No results for %q.\n", title)
				return nil
			}
			return printSearchTable(results)
		},
	}
}
