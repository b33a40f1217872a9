package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func invitesCmd() *cobra.Command {
	invitesRoot := &cobra.Command{
		Use:   "invites",
		Short: "Manage invite codes",
	}

	invitesRoot.AddCommand(
		invitesCreateCmd(),
		invitesListCmd(),
		invitesRedeemCmd(),
		invitesDeleteCmd(),
	)

	return invitesRoot
}

func invitesCreateCmd() *cobra.Command {
	var count int

	c := &cobra.Command{
		Use:     "create",
		Short:   "Generate invite codes (admin only)",
		Example: "  dwc invites create --count 5",
		RunE: func(_ *cobra.Command, _ []string) error {
			invites, err := newClient().CreateInvites(context.Background(), count)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(invites)
			}
			for _, inv := range invites {
				fmt.Println(inv.Code)
			}
			return nil
		},
	}
	c.Flags().IntVar(&count, "count", 1, "number of codes to generate (max 20)")
	return c
}

func invitesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invite codes (admin only)",
		RunE: func(_ *cobra.Command, _ []string) error {
			invites, err := newClient().ListInvites(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(invites)
			}
			if len(invites) == 0 {
				fmt.Println("No invite codes.")
				return nil
			}
			return printInvitesTable(invites)
		},
	}
}

func invitesRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "redeem <code>",
		Short:   "Redeem an invite code",
		Args:    cobra.ExactArgs(1),
		Example: "  dwc invites redeem ABCD2345",
		RunE: func(_ *cobra.Command, args []string) error {
			inv, err := newClient().RedeemInvite(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Invite %s redeemed. You can now manage tracked games.\n", inv.Code)
			return nil
		},
	}
}

func invitesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an unredeemed invite code (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid invite id %q", args[0])
			}
			if err := newClient().DeleteInvite(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Invite %d deleted.\n", id)
			return nil
		},
	}
}
