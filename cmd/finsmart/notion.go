package main

import (
	"errors"
	"fmt"

	"github.com/dvloznov/finsmart/internal/notionsync"
	"github.com/spf13/cobra"
)

func notionSyncCmd(a *app) *cobra.Command {
	var (
		userID string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "notion-sync",
		Short: "Export a user's accounts and transactions to Notion",
		Long: `Make the configured Notion databases match a snapshot. Pages are
matched by account and transaction id; pages with no matching record are archived.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !a.cfg.NotionEnabled() {
				return errors.New("notion.token and at least one notion database id are required")
			}

			snap, err := loadSnapshot(ctx, a.cfg, a.log, userID)
			if err != nil {
				return err
			}

			syncer := notionsync.NewSyncer(
				notionsync.NewNotionClient(a.cfg.NotionToken),
				notionsync.Databases{
					Accounts:     a.cfg.NotionAccountsDatabase,
					Transactions: a.cfg.NotionTransactionsDatabase,
				},
				dryRun,
			)

			rep, err := syncer.Sync(ctx, snap)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "accounts:     %+v\n", rep.Accounts)
			fmt.Fprintf(out, "transactions: %+v\n", rep.Transactions)
			if rep.Total().Failed > 0 {
				return fmt.Errorf("%d Notion pages failed to sync", rep.Total().Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose stored snapshot to export")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing to Notion")
	return cmd
}
