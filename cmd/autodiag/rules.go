package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the diagnostic rules in priority order",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := autodiag.NewContext(cmd.Context(), cfg.KnowledgePath)
		if err != nil {
			return fmt.Errorf("error initializing engine: %w", err)
		}
		printRules(cmd.OutOrStdout(), i18n.New(cfg.Locale), engine.Rules())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func printRules(w io.Writer, loc *i18n.Localizer, rules []domain.Rule) {
	for i, r := range rules {
		fmt.Fprintf(w, "%d. %s [%s] %s\n", i+1, r.ID, loc.Severity(r.Severity), r.Diagnosis)
		fmt.Fprintf(w, "   if %s\n", formatConditions(r.Conditions))
	}
}

func formatConditions(conds map[string]bool) string {
	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%t", k, conds[k])
	}
	return strings.Join(parts, " and ")
}
