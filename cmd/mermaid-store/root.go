// Root command for the mermaid-store CLI.
package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mermaid-ui/internal/paths"
	"github.com/mesh-intelligence/mermaid-ui/pkg/sqlite"
	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// app holds global flag values and state shared by all subcommands.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool

	// cfg is loaded from config.yaml by PersistentPreRunE.
	cfg *viper.Viper
	// started is set when a command's RunE begins. Cobra validates args
	// and flags before that, so earlier errors are usage errors.
	started bool
}

// newRootCmd creates the top-level command with global flags and all
// subcommands registered.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "mermaid-store",
		Short:         "Manage collections of Mermaid diagrams",
		Long:          "mermaid-store keeps named collections of Mermaid diagrams in a local SQLite file.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			configDir, err := paths.ResolveConfigDir(a.configDir)
			if err != nil {
				return systemError{err}
			}
			cfg, err := loadConfig(configDir)
			if err != nil {
				return systemError{err}
			}
			a.cfg = cfg
			a.setupLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory holding mermaid-ui.db (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError{err}
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCollectionCmd(a))
	root.AddCommand(newDiagramCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	markStarted(a, root)
	return root
}

// markStarted wraps the RunE of cmd and every subcommand so that a.started
// is set once cobra has accepted the command line.
func markStarted(a *app, cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			a.started = true
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		markStarted(a, sub)
	}
}

// setupLogging installs the default slog logger. --verbose wins over the
// log_level config key.
func (a *app) setupLogging(w io.Writer) {
	level := parseLogLevel(a.cfg.GetString(cfgKeyLogLevel))
	if a.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// resolveDataDir applies --data-dir > config.yaml data_dir >
// MERMAID_UI_DATA_DIR > platform default.
func (a *app) resolveDataDir() (string, error) {
	configured := ""
	if a.cfg != nil {
		configured = a.cfg.GetString(cfgKeyDataDir)
	}
	return paths.ResolveDataDir(a.dataDir, configured)
}

// openStore resolves the data directory and opens the store. The caller
// must Close it.
func (a *app) openStore() (sqlite.Store, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, err
	}
	return sqlite.Open(types.Config{DataDir: dataDir})
}
