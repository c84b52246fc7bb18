package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/automaton/internal/cli"
	"github.com/aretw0/automaton/pkg/adapters/mcp"
	"github.com/aretw0/automaton/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the automaton engine to AI agents as MCP tools (execute, analyze,
graph) and stored designs as resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		backend, err := cli.NewBackend(cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		srv := mcp.NewServer(
			mcp.WithSessions(cli.NewSessionManager(backend, logger)),
			mcp.WithExecutionConfig(cfg.Execution),
			mcp.WithLifecycleHooks(observability.LogHooks(logger)),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			logger.Info("starting automaton MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
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
