package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/mDS/internal/tui/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive DocScript console",
	Long: `Starts an interactive console. Scripts are edited in a small
buffer and executed with Ctrl+S; results and errors appear in the
transcript above. Console commands start with a colon (:help).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			printError("initializing engine", err)
			return err
		}

		store, err := openStore()
		if err != nil {
			printError("opening run journal", err)
			return err
		}
		defer store.Close()

		return console.Run(engine, store)
	},
}

func init() {
	consoleCmd.SilenceUsage = true
	rootCmd.AddCommand(consoleCmd)
}
