package main

import (
	"fmt"
	"os"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/cli"
	"github.com/aretw0/automaton/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <code-file> [words...]",
	Short: "Decide membership of words",
	Long: `Loads an automaton from a JSON or YAML code file and decides whether each word
is accepted. Words come from the arguments or, when none are given or the only
argument is "-", one per line from standard input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBounds(cmd, &cfg)

		eng, err := automaton.Open(args[0], cli.EngineOptions(cfg, logger)...)
		if err != nil {
			return err
		}

		words := args[1:]
		if len(words) == 0 || (len(words) == 1 && words[0] == "-") {
			words, err = cli.ReadWords(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		savePath, _ := cmd.Flags().GetBool("save-path")
		opts := cli.RunOptions{SavePath: savePath, JSON: jsonMode}

		interactive := !jsonMode && cli.IsTerminal(os.Stdout)
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout())
			opts.Render = tui.NewRenderer()
		}

		sum, err := cli.RunWords(cmd.Context(), eng, words, cmd.OutOrStdout(), opts)
		if err != nil {
			return err
		}
		if !jsonMode {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d words accepted\n", sum.Accepted, sum.Total)
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && sum.Accepted != sum.Total {
			return fmt.Errorf("%d of %d words rejected", sum.Total-sum.Accepted, sum.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Write one JSON result per line (NDJSON)")
	runCmd.Flags().Bool("save-path", true, "Record the transition path of each search")
	runCmd.Flags().Bool("strict", false, "Exit with an error when any word is rejected")
	addBoundFlags(runCmd)
}
