package main

import (
	"errors"
	"fmt"

	bq "github.com/dvloznov/finsmart/internal/infra/bigquery"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	var appliedBy string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending BigQuery schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.BigQueryProject == "" {
				return errors.New("storage.bigquery.project is required")
			}

			repo, err := bq.NewRepository(ctx, a.cfg.BigQueryProject, a.cfg.BigQueryDataset)
			if err != nil {
				return err
			}
			defer repo.Close()

			applied, err := repo.NewMigrator(appliedBy, a.log).Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) to %s.%s\n", applied, a.cfg.BigQueryProject, a.cfg.BigQueryDataset)
			return nil
		},
	}

	cmd.Flags().StringVar(&appliedBy, "applied-by", "finsmart-migrate", "name recorded in schema_migrations")
	return cmd
}
