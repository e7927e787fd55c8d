// fsh is the ferret command console: a minimal shell-like TUI over a fixed
// set of file commands, sharing its interpreter with the full manager.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ferret/internal/config"
	"ferret/internal/logging"
)

var (
	verbose   bool
	themeName string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fsh [dir]",
	Short: "fsh - the ferret command console",
	Long: `fsh is a small interactive console over a fixed set of file commands
(cd, ls, pwd, mkdir, rm, cp, mv, cat, find, help, clear) with shell-style
quoting and command history. It tracks its own working directory and never
spawns an external shell.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		startDir := ""
		if len(args) == 1 {
			startDir = args[0]
		}
		return runConsole(startDir)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: light or dark")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConsole(startDir string) error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return err
	}
	if themeName != "" {
		cfg.UI.Theme = themeName
	}
	if verbose {
		cfg.Logging.DebugMode = true
	}

	dataDir := config.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create data dir %s: %w", dataDir, err)
	}
	if err := logging.Initialize(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.CloseAll()

	logger.Info("fsh starting", zap.String("dir", startDir))

	m := newConsoleModel(cfg, startDir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}
