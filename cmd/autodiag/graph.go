package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/presentation/graph"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the catalog as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the questions, their gates and the rules.
With --answers, the session state is highlighted on top of it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawAnswers, _ := cmd.Flags().GetString("answers")

		engine, err := autodiag.NewContext(cmd.Context(), cfg.KnowledgePath)
		if err != nil {
			return fmt.Errorf("error initializing engine: %w", err)
		}

		var overlay *graph.GraphOverlay
		if rawAnswers != "" {
			overlay, err = buildOverlay(cmd, engine, rawAnswers)
			if err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(engine.Questions(), engine.Rules(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("answers", "", `Session answers as a JSON object, e.g. '{"starts": false}'`)
}

func buildOverlay(cmd *cobra.Command, engine *autodiag.Engine, raw string) (*graph.GraphOverlay, error) {
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("invalid --answers: %w", err)
	}
	answers, err := domain.DecodeAnswers(generic)
	if err != nil {
		return nil, fmt.Errorf("invalid --answers: %w", err)
	}
	if err := engine.ValidateAnswers(answers); err != nil {
		return nil, fmt.Errorf("invalid --answers: %w", err)
	}

	overlay := &graph.GraphOverlay{Answers: answers}
	if q, ok := engine.NextQuestion(cmd.Context(), answers); ok {
		overlay.CurrentQuestion = q.ID
	} else if rule, ok := engine.Resolve(answers); ok {
		overlay.MatchedRule = rule.ID
	}
	return overlay, nil
}
