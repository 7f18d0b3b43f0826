package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdsconfig "github.com/msto63/mDS/core/config"
	mdslog "github.com/msto63/mDS/core/log"
	"github.com/msto63/mDS/docscript"
	"github.com/msto63/mDS/internal/runlog"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mds",
	Short: "mDS - DocScript runtime",
	Long: `mDS runs DocScript, a small embedded scripting language.

Scripts that stay inside the language execute locally; scripts that
touch a capability namespace (FILE, MESH, KNOWLEDGE, ARCHIVE, EMAIL,
SYSTEM) are delegated in full to the configured privileged executor.

Commands:
  run           - execute a script file or inline source
  check         - parse and classify a script without running it
  capabilities  - list known capability namespaces
  history       - show the run journal
  console       - interactive console`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}

// loadConfig loads the configuration file, falling back to an empty
// config when none is present
func loadConfig() *mdsconfig.Config {
	path := cfgFile
	if path == "" {
		path = "./configs/config.toml"
	}

	cfg, err := mdsconfig.LoadWithOptions(path, mdsconfig.LoadOptions{
		Format:    mdsconfig.FormatAuto,
		EnvPrefix: "MDS",
	})
	if err != nil {
		if cfgFile != "" {
			// An explicitly named config that fails to load is worth a warning
			printError("loading config", err)
		}
		return mdsconfig.NewEmpty()
	}
	return cfg
}

// newLogger builds the CLI logger honoring --verbose
func newLogger() *mdslog.Logger {
	level := mdslog.LevelInfo
	if verbose {
		level = mdslog.LevelDebug
	}
	return mdslog.New().
		WithLevel(level).
		WithFormat(mdslog.FormatConsole).
		WithName("mds")
}

// newEngine builds the engine from configuration
func newEngine() (*docscript.Engine, error) {
	return docscript.NewEngineFromConfig(loadConfig(), newLogger())
}

// openStore opens the run journal named in the configuration
func openStore() (runlog.RunStore, error) {
	cfg := loadConfig()
	path := cfg.GetString("journal.path", runlog.DefaultRunConfig().Path)
	if path == "memory" {
		return runlog.NewMemoryRunStore(), nil
	}
	return runlog.NewSQLiteRunStore(runlog.SQLiteRunConfig{Path: path})
}
