package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powergen-lab/powergen-etl/internal/migrations"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create or upgrade the database tables",
		Long: `Apply every pending migration: the npp, eia and entsoe generation tables,
extraction_metadata, and the later column changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := migrations.Run(store.DB(), true); err != nil {
				return err
			}
			if err := store.ValidateSchema(ctx, a.tables()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Database setup complete")
			return nil
		},
	}
}
