package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/powergen-lab/powergen-etl/internal/validation"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect saved validation reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <file>",
		Short: "Print a saved validation report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := validation.LoadReport(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, r.Summary())
			fmt.Fprintf(w, "generated: %s\n", r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"))
			printSamples(w, r)
			return nil
		},
	})
	return cmd
}

// printSamples lists error counts by category, then the sampled errors.
func printSamples(w io.Writer, r *validation.Report) {
	if len(r.ErrorsByType) == 0 {
		return
	}

	categories := make([]string, 0, len(r.ErrorsByType))
	for c := range r.ErrorsByType {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Fprintln(w, "errors by type:")
	for _, c := range categories {
		fmt.Fprintf(w, "  %s: %d\n", c, r.ErrorsByType[c])
	}

	fmt.Fprintln(w, "sample errors:")
	for _, e := range r.SampleErrors {
		fmt.Fprintf(w, "  record %d: %s\n", e.RecordIndex, e.Details)
	}
}
