package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <code-file>",
	Short: "Check an automaton for consistency",
	Long: `Validates the code file and reports unreachable states, dead states and
alphabet symbols no transition uses. With --strict any finding is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		eng, err := automaton.Open(args[0], automaton.WithLogger(logger))
		if err != nil {
			for _, msg := range schema.ValidationErrors(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", msg)
			}
			return fmt.Errorf("validation failed: %w", err)
		}

		report := eng.Analyze()
		out := cmd.OutOrStdout()

		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "%s with %d states, deterministic: %t\n", report.Kind, report.States, report.Deterministic)
			issues := report.Issues()
			for _, issue := range issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "Automaton is valid! ✅")
			}
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && len(report.Issues()) > 0 {
			return fmt.Errorf("validation found %d issues", len(report.Issues()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
	validateCmd.Flags().Bool("strict", false, "Treat any finding as an error")
}
