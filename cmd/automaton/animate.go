package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/cli"
	"github.com/spf13/cobra"
)

var animateCmd = &cobra.Command{
	Use:   "animate <code-file> <word>",
	Short: "Replay the accepting path of a word",
	Long: `Searches for an accepting path of the word and replays it step by step,
showing the consumed input and, for pushdown automata, the stack contents.
Press Ctrl+C to stop the replay.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBounds(cmd, &cfg)
		if cmd.Flags().Changed("interval") {
			cfg.AnimationInterval, _ = cmd.Flags().GetDuration("interval")
		}

		eng, err := automaton.Open(args[0], cli.EngineOptions(cfg, logger)...)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		accepted, err := cli.Animate(ctx, eng, args[1], os.Stdout, cli.OutputProfile(os.Stdout), cfg.AnimationInterval)
		if errors.Is(err, context.Canceled) {
			if sig := ctx.Signal(); sig != nil {
				logger.Info("replay interrupted", "signal", sig)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if !accepted {
			return fmt.Errorf("word %q is rejected, nothing to replay", args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(animateCmd)

	animateCmd.Flags().Duration("interval", 0, "Delay between replay steps (overrides config)")
	addBoundFlags(animateCmd)
}
