package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/automaton/internal/cli"
	"github.com/aretw0/automaton/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "automaton",
	Short: "Automaton designs and runs finite and pushdown automata",
	Long: `Automaton decides word membership for finite automata (FSM) and pushdown
automata (PDA) described as JSON or YAML code, replays accepting paths and keeps
editable designs in a file, memory or Redis store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}
	logger, err := cli.NewLogger(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// applyBounds overrides the search bounds with the flags the user set.
func applyBounds(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("depth-limit") {
		cfg.Execution.DepthLimit, _ = cmd.Flags().GetUint("depth-limit")
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Execution.MaxSteps, _ = cmd.Flags().GetUint("max-steps")
	}
}

func addBoundFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("depth-limit", 0, "Maximum transitions in one search branch (overrides config)")
	cmd.Flags().Uint("max-steps", 0, "Maximum configurations expanded per word (overrides config)")
}
