package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadforge/enrich-cli/internal/ingest"
	"github.com/leadforge/enrich-cli/internal/model"
)

var validateShowInvalid bool

var validateCmd = &cobra.Command{
	Use:   "validate <input.csv>",
	Short: "Validate lead domains without any network calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		rows, err := ingest.ParseCSV(f)
		if err != nil {
			return err
		}
		leads := ingest.InitializeLeads(rows)
		stats := model.ComputeValidationStats(leads)

		formatValidation(os.Stdout, stats)

		if validateShowInvalid {
			for _, lead := range leads {
				if lead.Status != model.StatusSkipped {
					continue
				}
				fmt.Printf("invalid: %q (%s)\n", lead.Website, lead.Validation.Reason)
			}
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
}

func formatValidation(out io.Writer, s model.ValidationStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total leads:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Valid domains:\t%d\n", s.Valid)
	_, _ = fmt.Fprintf(w, "Invalid domains:\t%d\n", s.Invalid)
	_ = w.Flush()
}

func init() {
	validateCmd.Flags().BoolVar(&validateShowInvalid, "show-invalid", false, "list each invalid website with its reason")
	rootCmd.AddCommand(validateCmd)
}
