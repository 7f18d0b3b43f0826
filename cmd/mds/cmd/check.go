package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var checkInline string

var checkCmd = &cobra.Command{
	Use:   "check [script-file]",
	Short: "Parse and classify a script without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := checkInline
		if len(args) == 1 {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				printError("reading script", err)
				return err
			}
			source = string(raw)
		}
		if source == "" {
			return fmt.Errorf("provide a script file or --source")
		}

		engine, err := newEngine()
		if err != nil {
			printError("initializing engine", err)
			return err
		}

		result := engine.Check(source)
		if !result.Valid {
			fmt.Fprintln(os.Stderr, failureStyle.Render("invalid")+mutedStyle.Render(": "+result.Error))
			return fmt.Errorf("script does not parse")
		}

		if result.Privileged {
			fmt.Println("privileged · namespaces: " + strings.Join(result.Namespaces, ", "))
		} else {
			fmt.Println("local")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkInline, "source", "s", "", "inline script source")
	checkCmd.SilenceUsage = true
	checkCmd.SilenceErrors = true
	rootCmd.AddCommand(checkCmd)
}
