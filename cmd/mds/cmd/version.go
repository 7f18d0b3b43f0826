package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mds %s (%s) %s/%s\n", version, commit, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
