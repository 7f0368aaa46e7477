package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/powergen-lab/powergen-etl/internal/core/storage"
)

func newLoadMetadataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load-metadata <file>",
		Short: "Record an extraction run from its metadata JSON",
		Long: `Upsert one extraction_metadata row. Loading the same extraction_run_id again
refreshes total_records, failed_count, success and failed_details.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open metadata file: %w", err)
			}
			defer f.Close()

			m, err := storage.DecodeExtractionMetadata(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := a.prepareSchema(ctx, store); err != nil {
				return err
			}
			if err := store.SaveExtractionMetadata(ctx, m); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved extraction metadata %s (%s, %d records)\n",
				m.ExtractionRunID, m.Source, m.TotalRecords)
			return nil
		},
	}
}
