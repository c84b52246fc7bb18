package main

import (
	"fmt"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <code-file>",
	Short: "Export the automaton as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the automaton. With --input the
path explored for that word is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		eng, err := automaton.Open(args[0], cli.EngineOptions(cfg, logger)...)
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("input") {
			fmt.Fprint(cmd.OutOrStdout(), eng.Mermaid(nil))
			return nil
		}

		input, _ := cmd.Flags().GetString("input")
		res := eng.Execute(cmd.Context(), input, true)
		fmt.Fprint(cmd.OutOrStdout(), eng.Mermaid(res.Path))
		fmt.Fprintf(cmd.ErrOrStderr(), "%q: %s\n", input, res.Outcome())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("input", "", "Highlight the path explored for this word")
}
