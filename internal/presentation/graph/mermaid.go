package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/autodiag/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Answers         domain.AnswerSet
	CurrentQuestion string
	MatchedRule     string
}

// GenerateMermaid produces a Mermaid flowchart for a catalog.
// It applies semantic styling:
// - Question: [/Parallelogram/], chained in declaration order
// - Predicate gate: dotted edge labelled with the predicate
// - Rule: {{Hexagon}}, with one edge per condition
// It also applies overlay styles (Answered/Current/Matched) if provided.
func GenerateMermaid(questions []domain.Question, rules []domain.Rule, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, q := range questions {
		safeID := questionID(q.ID)
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", safeID, escapeLabel(q.ID)))
		if i > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", questionID(questions[i-1].ID), safeID))
		}
		if q.Gated() {
			label := escapeLabel(q.When.String())
			for _, key := range q.When.Keys() {
				sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", questionID(key), label, safeID))
			}
		}
	}

	var critical []string
	for _, r := range rules {
		safeID := ruleID(r.ID)
		sb.WriteString(fmt.Sprintf("    %s{{\"%s: %s\"}}\n", safeID, escapeLabel(r.ID), escapeLabel(r.Diagnosis)))
		keys := make([]string, 0, len(r.Conditions))
		for k := range r.Conditions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("    %s -- \"%t\" --> %s\n", questionID(k), r.Conditions[k], safeID))
		}
		if r.Severity == domain.SeverityCritical {
			critical = append(critical, safeID)
		}
	}

	if len(critical) > 0 {
		sb.WriteString("    classDef critical fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		for _, id := range critical {
			sb.WriteString(fmt.Sprintf("    class %s critical;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef matched fill:#c8e6c9,stroke:#1b5e20,stroke-width:4px,color:#000;\n")

		for _, id := range overlay.Answers.Keys() {
			sb.WriteString(fmt.Sprintf("    class %s answered;\n", questionID(id)))
		}
		if overlay.CurrentQuestion != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", questionID(overlay.CurrentQuestion)))
		}
		if overlay.MatchedRule != "" {
			sb.WriteString(fmt.Sprintf("    class %s matched;\n", ruleID(overlay.MatchedRule)))
		}
	}

	return sb.String()
}

func questionID(id string) string {
	return "q_" + sanitizeMermaidID(id)
}

func ruleID(id string) string {
	return "r_" + sanitizeMermaidID(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
