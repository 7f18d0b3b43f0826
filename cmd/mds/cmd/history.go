package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	mdsstringx "github.com/msto63/mDS/utils/stringx"
)

var (
	historyLimit int
	historyStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the run journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			printError("opening run journal", err)
			return err
		}
		defer store.Close()

		ctx := context.Background()

		if historyStats {
			stats, err := store.Statistics(ctx)
			if err != nil {
				printError("reading statistics", err)
				return err
			}
			fmt.Printf("total: %v · succeeded: %v · failed: %v · privileged: %v\n",
				stats["total_runs"], stats["succeeded"], stats["failed"], stats["privileged"])
			return nil
		}

		records, err := store.List(ctx, historyLimit, 0)
		if err != nil {
			printError("listing runs", err)
			return err
		}

		for _, rec := range records {
			status := successStyle.Render("ok ")
			if !rec.Success {
				status = failureStyle.Render(rec.ErrorKind)
			}
			fmt.Printf("%s  %s  %s  %s\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				status,
				mutedStyle.Render(rec.RunID[:8]),
				mdsstringx.Truncate(rec.Source, 60))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show aggregate statistics")
	historyCmd.SilenceUsage = true
	rootCmd.AddCommand(historyCmd)
}
