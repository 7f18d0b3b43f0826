package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/msto63/mDS/internal/runlog"
)

var (
	runInline    string
	runNoJournal bool
)

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
var failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

var runCmd = &cobra.Command{
	Use:   "run [script-file]",
	Short: "Execute a DocScript",
	Long: `Executes a DocScript from a file or from --source.

Local scripts run in-process. Scripts that use capability calls are
delegated to the privileged executor configured under [privileged] in
the config file; without one they fail with PrivilegedUnavailable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := runInline
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

		// Ctrl+C cancels the run; a cancelled run reports Cancelled
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result := engine.Run(ctx, source)

		for _, line := range result.Output {
			fmt.Println(line)
		}

		if !runNoJournal {
			if store, err := openStore(); err == nil {
				_ = store.Append(context.Background(), runlog.FromResult(source, result))
				_ = store.Close()
			}
		}

		if !result.Success {
			fmt.Fprintln(os.Stderr, failureStyle.Render(string(result.ErrorKind))+
				mutedStyle.Render(": "+result.ErrorMessage))
			return fmt.Errorf("run failed: %s", result.ErrorKind)
		}

		if verbose {
			fmt.Fprintln(os.Stderr, successStyle.Render("ok")+
				mutedStyle.Render(fmt.Sprintf(" · run %s · %s", result.RunID, result.Duration)))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInline, "source", "s", "", "inline script source")
	runCmd.Flags().BoolVar(&runNoJournal, "no-journal", false, "skip the run journal")
	runCmd.SilenceUsage = true
	runCmd.SilenceErrors = true
	rootCmd.AddCommand(runCmd)
}
