package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/powergen-lab/powergen-etl/internal/ingestion"
)

func newLoadDataCmd(a *app) *cobra.Command {
	var (
		reportPath string
		strict     bool
		runID      string
	)

	cmd := &cobra.Command{
		Use:   "load-data <source> <file>...",
		Short: "Validate JSONL files and load the valid records",
		Long: `Parse each file (plain, .gz or .zst), stamp provenance, validate every
record against the source contract and copy the valid ones into the source's
table. Invalid and duplicate records are skipped and counted in the report.

Each file is its own batch; duplicates are only detected within a file.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.parseSource(args[0])
			if err != nil {
				return err
			}
			files := args[1:]
			if reportPath != "" && len(files) > 1 {
				return errors.New("--validation-report takes a single input file")
			}
			if runID != "" {
				if _, err := uuid.Parse(runID); err != nil {
					return fmt.Errorf("invalid --extraction-run-id %q: %w", runID, err)
				}
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

			reqs := make([]ingestion.FileRequest, len(files))
			for i, f := range files {
				reqs[i] = ingestion.FileRequest{
					Request: ingestion.Request{
						Source:     source,
						ReportPath: reportPath,
						Strict:     strict || a.cfg.Ingest.Strict,
						RunID:      runID,
					},
					Path: f,
				}
			}

			outcomes, err := a.newService(store).LoadFiles(ctx, reqs)
			printOutcomes(cmd.OutOrStdout(), outcomes)
			return err
		},
	}

	cmd.Flags().StringVarP(&reportPath, "validation-report", "r", "", "Write the validation report to this path")
	cmd.Flags().BoolVarP(&strict, "strict", "s", false, "Load nothing if any record is invalid or duplicated")
	cmd.Flags().StringVar(&runID, "extraction-run-id", "", "extraction_run_id to stamp on records that lack one")
	return cmd
}

func printOutcomes(w io.Writer, outcomes []*ingestion.Outcome) {
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		if out.Report == nil {
			fmt.Fprintf(w, "%s: no records\n", out.Label)
			continue
		}
		fmt.Fprintf(w, "%s, %d written\n", out.Report.Summary(), out.Written)
		if out.ReportPath != "" {
			fmt.Fprintf(w, "  report: %s\n", out.ReportPath)
		}
	}
}
