package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func authCmd() *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Manage your session",
	}

	authRoot.AddCommand(
		registerCmd(),
		loginCmd(),
		whoamiCmd(),
	)

	return authRoot
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <name>",
		Short: "Create an account",
		Long: "Creates a new account. The first account on a fresh server becomes\n" +
			"the admin; everyone else needs an invite code before they can manage games.",
		Args:    cobra.ExactArgs(2),
		Example: "  dwc auth register me@example.com \"My Name\"",
		RunE: func(_ *cobra.Command, args []string) error {
			password, err := promptPassword()
			if err != nil {
				return err
			}

			c := newClient()
			s, err := c.Register(context.Background(), args[0], args[1], password)
			if err != nil {
				return err
			}

			fmt.Printf("Account created for %s (role: %s).\n", s.User.Email, s.User.Role)
			printTokenHint(s.Token)
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "login <email>",
		Short:   "Log in and print a session token",
		Args:    cobra.ExactArgs(1),
		Example: "  dwc auth login me@example.com",
		RunE: func(_ *cobra.Command, args []string) error {
			password, err := promptPassword()
			if err != nil {
				return err
			}

			c := newClient()
			s, err := c.Login(context.Background(), args[0], password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (role: %s).\n", s.User.Email, s.User.Role)
			printTokenHint(s.Token)
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			me, err := c.CurrentUser(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(me)
			}
			fmt.Printf("%s <%s> role=%s approved=%v\n",
				me.User.Name, me.User.Email, me.User.Role, me.Approved)
			return nil
		},
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

func printTokenHint(token string) {
	fmt.Println("\nSession token (save it in ~/.dwc.yaml or DWC_TOKEN):")
	fmt.Println(token)
}
