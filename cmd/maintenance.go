package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rotateKeysCmd = &cobra.Command{
	Use:   "rotate-keys",
	Short: "Re-encrypt every stored secret under the current key version",
	Long: `Re-encrypt every stored secret under CRYPTO_KEY_VERSION.

Keep the old secret in CRYPTO_PREVIOUS_KEYS (for example "1:old-secret")
until this command reports no failures. When MinIO is configured a
ciphertext-only snapshot is written before any row changes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.creds.RotateKeys(cmd.Context())
		if report.Snapshot != "" {
			fmt.Printf("snapshot: %s\n", report.Snapshot)
		}
		fmt.Printf("key version %d: scanned %d, rotated %d, failed %d\n",
			a.sealer.CurrentVersion(), report.Scanned, report.Rotated, report.Failed)
		return err
	},
}

var renewWatchCmd = &cobra.Command{
	Use:   "renew-watch",
	Short: "Renew the Gmail push subscription of every active account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.watch.Enabled() {
			return fmt.Errorf("GMAIL_PUBSUB_TOPIC is not set")
		}
		report, err := a.watch.RenewAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("renewed %d, skipped %d, failed %d\n", report.Renewed, report.Skipped, report.Failed)
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Work with ciphertext snapshots in object storage",
}

var snapshotWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a snapshot of the accounts table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.snapshots == nil {
			return fmt.Errorf("MINIO_ENDPOINT is not set")
		}
		key, err := a.snapshots.Write(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var snapshotInspectCmd = &cobra.Command{
	Use:   "inspect <key>",
	Short: "Summarise a snapshot without decrypting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.snapshots == nil {
			return fmt.Errorf("MINIO_ENDPOINT is not set")
		}
		snap, err := a.snapshots.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("taken at %s, key version %d, %d accounts\n", snap.TakenAt.Format("2006-01-02 15:04:05 MST"), snap.KeyVersion, len(snap.Accounts))
		for _, acc := range snap.Accounts {
			state := "active"
			if !acc.Active {
				state = "inactive"
			}
			fmt.Printf("  %s  user=%d  %-8s  %s\n", acc.ID, acc.UserID, state, acc.Email)
		}
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotWriteCmd, snapshotInspectCmd)
	rootCmd.AddCommand(rotateKeysCmd, renewWatchCmd, snapshotCmd)
}
