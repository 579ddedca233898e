package main

import (
	"os"

	"github.com/aretw0/autodiag/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive diagnosis",
	Long: `Asks the catalog's questions on the console and prints the diagnosis.
Type 'q' at any prompt to leave.`,
	RunE: runDiagnosis,
}

func runDiagnosis(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	jsonMode, _ := flags.GetBool("json")
	tuiMode, _ := flags.GetBool("tui")
	once, _ := flags.GetBool("once")
	clearScreen, _ := flags.GetBool("clear")

	return cli.Execute(cli.RunOptions{
		KnowledgePath: cfg.KnowledgePath,
		Locale:        cfg.Locale,
		LogLevel:      cfg.LogLevel,
		Debug:         debugEnabled(cmd),
		JSON:          jsonMode,
		TUI:           tuiMode,
		Once:          once,
		Watch:         cfg.Watch,
		Clear:         clearScreen,
		In:            os.Stdin,
		Out:           os.Stdout,
	})
}

func addRunFlags(flags *pflag.FlagSet) {
	flags.Bool("tui", false, "Use the full-screen terminal interface")
	flags.Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	flags.Bool("once", false, "Exit after one diagnosis instead of offering to restart")
	flags.BoolP("watch", "w", false, "Restart the session whenever the catalog file changes")
	flags.Bool("clear", false, "Clear the screen before every question")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())

	// 'run' is the default when no subcommand is given.
	addRunFlags(rootCmd.Flags())
	rootCmd.RunE = runDiagnosis
}
