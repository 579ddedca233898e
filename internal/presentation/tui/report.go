package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/internal/runtime"
	"github.com/aretw0/autodiag/pkg/domain"
)

const progressCells = 20

// ProgressBar renders "[████░░…] 40% (2/5)" with a fixed width of 20 cells.
func ProgressBar(done, total int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	filled := int(percent / 5)
	if filled > progressCells {
		filled = progressCells
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
	return fmt.Sprintf("[%s] %.0f%% (%d/%d)", bar, percent, done, total)
}

// ReportMarkdown formats a session report as markdown.
func ReportMarkdown(loc *i18n.Localizer, report domain.Report) string {
	var sb strings.Builder

	if len(report.Symptoms) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", loc.T(i18n.Symptoms))
		for i, s := range report.Symptoms {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, runtime.SymptomLabel(s))
		}
		sb.WriteString("\n")
	}

	if !report.Found() {
		fmt.Fprintf(&sb, "## %s\n\n", loc.T(i18n.NoDiagnosis))
		fmt.Fprintf(&sb, "%s\n\n", loc.T(i18n.NoDiagnosisDetail))
		fmt.Fprintf(&sb, "**%s:**\n\n", loc.T(i18n.GeneralRecommendations))
		fmt.Fprintf(&sb, "1. %s\n", loc.T(i18n.GeneralMechanic))
		fmt.Fprintf(&sb, "2. %s\n", loc.T(i18n.GeneralInspection))
		fmt.Fprintf(&sb, "3. %s\n", loc.T(i18n.GeneralScanner))
		return sb.String()
	}

	rule := report.Rule
	fmt.Fprintf(&sb, "## %s\n\n", loc.T(i18n.DiagnosisFound))
	fmt.Fprintf(&sb, "**%s:** %s\n\n", loc.T(i18n.Cause), rule.Diagnosis)
	fmt.Fprintf(&sb, "**%s:** %s\n\n", loc.T(i18n.SeverityHeading), loc.Severity(rule.Severity))
	if rule.Description != "" {
		fmt.Fprintf(&sb, "**%s:**\n\n> %s\n\n", loc.T(i18n.Description), rule.Description)
	}
	if len(rule.Recommendations) > 0 {
		fmt.Fprintf(&sb, "### %s\n\n", loc.T(i18n.Recommendations))
		for i, r := range rule.Recommendations {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, r)
		}
		sb.WriteString("\n")
	}
	if rule.Severity == domain.SeverityCritical {
		sb.WriteString("---\n\n")
		fmt.Fprintf(&sb, "**⚠ %s**\n\n", loc.T(i18n.CriticalWarning))
		fmt.Fprintf(&sb, "**%s**\n\n", loc.T(i18n.CriticalAdvice))
		sb.WriteString("---\n")
	}
	return sb.String()
}
