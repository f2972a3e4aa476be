package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// withApp wires the services for one admin command and releases them afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage a user's connected mailboxes",
}

var accountsListCmd = &cobra.Command{
	Use:   "list <telegram-user-id>",
	Short: "Show a user's connected mailboxes and notification settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			accounts, err := a.creds.ListAccounts(ctx, userID)
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				state, err := a.tokens.State(ctx, acc.ID)
				if err != nil {
					state = model.TokenInvalid
				}
				fmt.Printf("%s  %-32s  token=%-10s  auto-delete=%ds\n", acc.ID, acc.Email, state, acc.AutoDeleteSecs)
			}

			notifications, err := a.settings.NotificationSettings(ctx, userID)
			if err != nil {
				return err
			}
			privacy, err := a.settings.PrivacySettings(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("push mode: %s, exclude spam: %t, exclude promotions: %t, auto-delete: %ds\n",
				notifications.PushMode, notifications.ExcludeSpam, notifications.ExcludePromotions, privacy.GlobalAutoDeleteSecs)

			for _, list := range []model.SenderList{model.SenderListVIP, model.SenderListBlock} {
				values, err := a.settings.ListSenders(ctx, list, userID)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", list, strings.Join(values, ", "))
			}
			return nil
		})
	},
}

var accountsConnectCmd = &cobra.Command{
	Use:   "connect <telegram-user-id> <credentials.json>",
	Short: "Start connecting a mailbox and print the consent URL",
	Long: `Start connecting a mailbox for a user.

credentials.json is the OAuth client file downloaded from the Google Cloud
console ("installed" or "web" application). Open the printed URL, grant
access, and Google redirects to /oauth/callback on the running server,
which finishes the connection.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		credentials, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read credentials file: %w", err)
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			authURL, err := a.connect.Begin(ctx, userID, credentials)
			if err != nil {
				return err
			}
			fmt.Printf("Open this URL within %s to grant access:\n%s\n", cfg.OAuth.StateTTL, authURL)
			return nil
		})
	},
}

var accountsDisconnectCmd = &cobra.Command{
	Use:   "disconnect <telegram-user-id> <account-id>",
	Short: "Stop push notifications for a mailbox and deactivate it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		accountID, err := parseAccountID(args[1])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.connect.Disconnect(ctx, userID, accountID); err != nil {
				return err
			}
			fmt.Printf("disconnected %s\n", accountID)
			return nil
		})
	},
}

var accountsAutoDeleteCmd = &cobra.Command{
	Use:   "auto-delete <telegram-user-id> <account-id> <seconds>",
	Short: "Override auto-delete for one mailbox (0 falls back to the user setting)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		accountID, err := parseAccountID(args[1])
		if err != nil {
			return err
		}
		secs, err := parseSeconds(args[2])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.settings.SetAccountAutoDelete(ctx, userID, accountID, secs)
		})
	},
}

func init() {
	accountsCmd.AddCommand(accountsListCmd, accountsConnectCmd, accountsDisconnectCmd, accountsAutoDeleteCmd)
	rootCmd.AddCommand(accountsCmd)
}
