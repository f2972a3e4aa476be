package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/autoxmail-server/internal/config"
	"github.com/dtroode/autoxmail-server/internal/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autoxmail",
	Short: "Gmail push notifications for Telegram",
	Long: `autoxmail relays new Gmail messages to Telegram chats.

All settings come from environment variables (CRYPTO_MASTER_KEY,
DATABASE_DSN, GMAIL_PUBSUB_TOPIC, TELEGRAM_BOT_TOKEN and friends).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.NewConfig()
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autoxmail %s (%s, %s)\n", buildVersion, buildCommit, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
