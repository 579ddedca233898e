package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/autodiag/internal/config"
	"github.com/aretw0/autodiag/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cfg is resolved once per invocation: environment first, then explicit flags.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "autodiag",
	Short: "Autodiag is a rule based expert system for car fault diagnosis",
	Long: `Autodiag asks a short series of yes/no questions about a vehicle and
matches the answers against a catalog of diagnostic rules.

Without a subcommand it runs an interactive diagnosis.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("knowledge", "k", "", "Catalog file (YAML or JSON). Uses the built-in vehicle catalog when empty")
	flags.String("locale", "es", "Language of the console copy (es, en)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("debug", false, "Enable verbose logging of every question and answer")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(&loaded, cmd.Flags()); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// applyFlags overrides c with the flags the user actually set.
func applyFlags(c *config.Config, flags *pflag.FlagSet) error {
	flags.Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "knowledge":
			c.KnowledgePath = value
		case "locale":
			c.Locale = value
		case "log-level":
			c.LogLevel = value
		case "addr":
			c.HTTPAddr = value
		case "metrics":
			c.Metrics, _ = strconv.ParseBool(value)
		case "watch":
			c.Watch, _ = strconv.ParseBool(value)
		}
	})
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func debugEnabled(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}
