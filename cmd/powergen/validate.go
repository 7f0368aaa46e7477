package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powergen-lab/powergen-etl/internal/ingestion"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		reportPath string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "validate <source> <file>",
		Short: "Validate a JSONL file without touching the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.parseSource(args[0])
			if err != nil {
				return err
			}

			out, err := a.newService(nil).LoadFile(cmd.Context(), ingestion.Request{
				Source:     source,
				ReportPath: reportPath,
				Strict:     strict,
				DryRun:     true,
			}, args[1])
			if out != nil {
				printOutcomes(cmd.OutOrStdout(), []*ingestion.Outcome{out})
				if out.Report != nil {
					printSamples(cmd.OutOrStdout(), out.Report)
				}
			}
			if errors.Is(err, ingestion.ErrStrictRejected) {
				return fmt.Errorf("validation failed: %w", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&reportPath, "validation-report", "r", "", "Write the validation report to this path")
	cmd.Flags().BoolVarP(&strict, "strict", "s", false, "Exit non-zero if any record is invalid or duplicated")
	return cmd
}
