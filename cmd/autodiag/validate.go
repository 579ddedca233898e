package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for consistency",
	Long: `Loads the catalog, checks the references between questions and rules,
and walks every answer path to report which rules can be reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		engine, err := autodiag.NewContext(cmd.Context(), cfg.KnowledgePath)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		res := validator.Validate(engine.Catalog())
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			printValidation(out, engine.Name, res)
		}
		return res.Err()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func printValidation(w io.Writer, name string, res validator.Result) {
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	cov := res.Coverage
	fmt.Fprintf(w, "Explored %d sessions, %d end without a diagnosis.\n", cov.Sessions, cov.Undiagnosed)
	if cov.Truncated {
		fmt.Fprintln(w, "Exploration stopped early: too many sessions.")
	}
	ids := make([]string, 0, len(cov.RuleHits))
	for id := range cov.RuleHits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %-12s %d\n", id, cov.RuleHits[id])
	}

	if len(res.Errors) == 0 {
		fmt.Fprintf(w, "Catalog '%s' is valid! ✅\n", name)
	}
}
