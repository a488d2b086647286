package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func adviseCmd(a *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Ask the AI advisor about a user's recent transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			snap, err := loadSnapshot(ctx, a.cfg, a.log, userID)
			if err != nil {
				return err
			}
			adv, err := newAdvisor(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), adv.Advice(ctx, snap.Transactions, snap.Categories, snap.Accounts))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose stored snapshot to analyse")
	return cmd
}
