package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/cli"
	"github.com/aretw0/automaton/internal/config"
	"github.com/aretw0/automaton/internal/presentation/tui"
	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/session"
	"github.com/spf13/cobra"
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Manage stored automaton designs",
	Long: `Create, inspect, edit and remove designs kept in the configured store
(file, memory or redis). Edits are applied under the design lock.`,
}

var designCreateCmd = &cobra.Command{
	Use:   "create <design-id> <code-file>",
	Short: "Store a new design from a code file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(env designEnv) error {
			eng, err := automaton.Open(args[1])
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool("force")
			if overwrite {
				_, err = env.sessions.Put(cmd.Context(), args[0], eng.Code())
			} else {
				_, err = env.sessions.Create(cmd.Context(), args[0], eng.Code())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored design '%s' (%d states)\n", args[0], eng.CountStates())
			return nil
		})
	},
}

var designShowCmd = &cobra.Command{
	Use:   "show <design-id>",
	Short: "Print a stored design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(env designEnv) error {
			d, err := env.sessions.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load design '%s': %w", args[0], err)
			}
			format, _ := cmd.Flags().GetString("format")
			return printDesign(cmd, d, format)
		})
	},
}

var designListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored designs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(env designEnv) error {
			ids, err := env.sessions.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list designs: %w", err)
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No designs found.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+id)
			}
			return nil
		})
	},
}

var designRmCmd = &cobra.Command{
	Use:   "rm <design-id>...",
	Short: "Remove one or more designs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(env designEnv) error {
			failed := 0
			for _, id := range args {
				if err := env.sessions.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed design '%s'\n", id)
			}
			if failed > 0 {
				return fmt.Errorf("%d designs could not be removed", failed)
			}
			return nil
		})
	},
}

var designEditCmd = &cobra.Command{
	Use:   "edit <design-id> <operation> [args...]",
	Short: "Apply one edit to a stored design",
	Long: `Applies a single designer operation and stores the result:

  add-state <name> [x y]
  remove-state <name>
  final <name>                         toggle the final flag
  rename <name> <new-name>
  move <name> <x> <y>
  set-transition <from> <to> [label...] an empty label list removes the transition
  remove-transition <from> <to>

FSM labels are a single symbol. PDA labels read "input/top/push", with push
symbols comma separated and listed bottom first, for example "(/⊥/⊥,A".`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		edit, err := cli.ParseEdit(args[1:])
		if err != nil {
			return err
		}
		return withSessions(cmd, func(env designEnv) error {
			d, err := env.sessions.Edit(cmd.Context(), args[0], edit.Apply)
			if err != nil {
				return err
			}
			env.logger.Info("design edited", "design", args[0], "op", edit.Op, "states", d.CountStates())
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to '%s' (%d states, deterministic: %t)\n",
				edit.Op, args[0], d.CountStates(), d.IsDeterministic())
			return nil
		})
	},
}

var designRunCmd = &cobra.Command{
	Use:   "run <design-id> [words...]",
	Short: "Decide membership of words against a stored design",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(env designEnv) error {
			d, err := env.sessions.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load design '%s': %w", args[0], err)
			}
			applyBounds(cmd, &env.config)
			eng := automaton.FromDesigner(d, cli.EngineOptions(env.config, env.logger)...)

			words := args[1:]
			if len(words) == 0 || (len(words) == 1 && words[0] == "-") {
				words, err = cli.ReadWords(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			jsonMode, _ := cmd.Flags().GetBool("json")
			opts := cli.RunOptions{SavePath: true, JSON: jsonMode}
			if !jsonMode && cli.IsTerminal(os.Stdout) {
				opts.Render = tui.NewRenderer()
			}
			_, err = cli.RunWords(cmd.Context(), eng, words, cmd.OutOrStdout(), opts)
			return err
		})
	},
}

type designEnv struct {
	config   config.Config
	logger   *slog.Logger
	sessions *session.Manager
}

// withSessions opens the configured store for the duration of fn.
func withSessions(cmd *cobra.Command, fn func(designEnv) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	backend, err := cli.NewBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(designEnv{config: cfg, logger: logger, sessions: cli.NewSessionManager(backend, logger)})
}

func printDesign(cmd *cobra.Command, d *designer.Designer, format string) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := d.Code().YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "json":
		data, err := d.Code().JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "mermaid":
		_, err := fmt.Fprint(out, automaton.FromDesigner(d).Mermaid(nil))
		return err
	default:
		return fmt.Errorf("unknown format %q, expected yaml, json or mermaid", format)
	}
}

func init() {
	rootCmd.AddCommand(designCmd)
	designCmd.AddCommand(designCreateCmd, designShowCmd, designListCmd, designRmCmd, designEditCmd, designRunCmd)

	designCreateCmd.Flags().Bool("force", false, "Overwrite an existing design")
	designShowCmd.Flags().String("format", "yaml", "Output format: yaml, json or mermaid")
	designRunCmd.Flags().Bool("json", false, "Write one JSON result per line (NDJSON)")
	addBoundFlags(designRunCmd)
}
