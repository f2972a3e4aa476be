package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Change a user's notification filters",
}

var pushModeCmd = &cobra.Command{
	Use:   "push-mode <telegram-user-id> <off|otp|vip|all>",
	Short: "Choose which mails produce a notification",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.settings.SetPushMode(ctx, userID, args[1])
		})
	},
}

var (
	excludeSpam       bool
	excludePromotions bool
)

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions <telegram-user-id>",
	Short: "Drop spam and promotions for non-VIP senders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.settings.SetExclusions(ctx, userID, excludeSpam, excludePromotions)
		})
	},
}

var globalAutoDeleteCmd = &cobra.Command{
	Use:   "auto-delete <telegram-user-id> <seconds>",
	Short: "Delete delivered notifications after a delay (0 keeps them)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		secs, err := parseSeconds(args[1])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.settings.SetGlobalAutoDelete(ctx, userID, secs)
		})
	},
}

// newSenderListCmd builds add/remove/list subcommands for one sender list.
func newSenderListCmd(use, short string, list model.SenderList) *cobra.Command {
	parent := &cobra.Command{Use: use, Short: short}

	parent.AddCommand(&cobra.Command{
		Use:   "add <telegram-user-id> <address|@domain>",
		Short: "Add an address or domain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				entry, err := a.settings.AddSender(ctx, list, userID, args[1])
				if err != nil {
					return err
				}
				fmt.Printf("added %s\n", entry)
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "remove <telegram-user-id> <address|@domain>",
		Short: "Remove an address or domain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.settings.RemoveSender(ctx, list, userID, args[1])
			})
		},
	}, &cobra.Command{
		Use:   "list <telegram-user-id>",
		Short: "Print the entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				values, err := a.settings.ListSenders(ctx, list, userID)
				if err != nil {
					return err
				}
				if len(values) > 0 {
					fmt.Println(strings.Join(values, "\n"))
				}
				return nil
			})
		},
	})

	return parent
}

func init() {
	exclusionsCmd.Flags().BoolVar(&excludeSpam, "spam", true, "drop mail labelled SPAM")
	exclusionsCmd.Flags().BoolVar(&excludePromotions, "promotions", true, "drop mail in the Promotions category")

	settingsCmd.AddCommand(
		pushModeCmd,
		exclusionsCmd,
		globalAutoDeleteCmd,
		newSenderListCmd("vip", "Senders that always notify", model.SenderListVIP),
		newSenderListCmd("blocklist", "Senders that never notify", model.SenderListBlock),
	)
	rootCmd.AddCommand(settingsCmd)
}
