package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/cli"
	"github.com/aretw0/autodiag/internal/logging"
	mcpAdapter "github.com/aretw0/autodiag/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the diagnosis as MCP tools so AI agents can run it.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		level := cfg.SlogLevel(debugEnabled(cmd))
		logger := logging.New(level)
		slog.SetDefault(logger)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		engine, err := autodiag.NewContext(sigCtx, cfg.KnowledgePath, autodiag.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("error initializing engine: %w", err)
		}
		srv := mcpAdapter.NewServer(engine,
			mcpAdapter.WithVersion(autodiag.Version),
			mcpAdapter.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting autodiag MCP Server (Stdio)", "catalog", engine.Name)
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting autodiag MCP Server (SSE)", "port", port, "catalog", engine.Name)
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
