package main

import (
	"github.com/aretw0/autodiag/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Exposes the catalog and the diagnosis operations as a JSON API.
Clients keep the answers and send them with every request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunServe(cli.ServeOptions{
			KnowledgePath: cfg.KnowledgePath,
			Addr:          cfg.HTTPAddr,
			LogLevel:      cfg.LogLevel,
			Debug:         debugEnabled(cmd),
			Metrics:       cfg.Metrics,
			Watch:         cfg.Watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the catalog file when it changes")
}
