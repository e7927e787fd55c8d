package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ferret/cmd/ferret/explorer"
	"ferret/internal/config"
	"ferret/internal/llm"
	"ferret/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	themeName  string

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd launches the interactive file manager.
var rootCmd = &cobra.Command{
	Use:   "ferret [dir]",
	Short: "ferret - a terminal file manager with a local-LLM assistant",
	Long: `ferret is a terminal file manager: browse directories, copy/cut/paste,
preview text, markdown, images and PDFs, tag files with notes, run shell
commands in an embedded terminal, and ask a locally hosted Ollama model to
turn natural-language requests into shell commands or file selections.

Run without arguments to open the current directory.`,
	Args:              cobra.MaximumNArgs(1),
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
		return runExplorer(startDir)
	},
}

// statusCmd prints configuration and service availability.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and assistant availability",
	RunE:  showStatus,
}

// modelsCmd lists the models the local Ollama server offers.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the local Ollama server",
	RunE:  listModels,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The interactive TUI has its own categorized file logger.
		if cmd == rootCmd {
			return nil
		}
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
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.ferret/config.json)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: light or dark")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if themeName != "" {
		cfg.UI.Theme = themeName
	}
	if verbose {
		cfg.Logging.DebugMode = true
	}
	return cfg, nil
}

func runExplorer(startDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dataDir := config.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create data dir %s: %w", dataDir, err)
	}
	if err := logging.Initialize(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.CloseAll()

	logging.Boot("ferret starting, dir=%s model=%s", startDir, cfg.LLM.Model)

	m, err := explorer.New(cfg, startDir)
	if err != nil {
		return err
	}
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	logging.Boot("ferret exiting")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("ferret status")
	fmt.Println("=============")
	fmt.Printf("Data dir:  %s\n", config.DefaultDataDir())
	fmt.Printf("Database:  %s\n", cfg.MetadataDBPath(config.DefaultDataDir()))
	fmt.Printf("Endpoint:  %s\n", cfg.LLM.Endpoint)
	fmt.Printf("Model:     %s\n", cfg.LLM.Model)
	fmt.Printf("Theme:     %s\n", cfg.UI.Theme)

	client := newLLMClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	available, err := client.HealthCheck(ctx)
	switch {
	case err != nil:
		logger.Warn("assistant unreachable", zap.Error(err))
		fmt.Printf("Assistant: offline (%v)\n", err)
	case !available:
		fmt.Printf("Assistant: online, model %q not installed\n", cfg.LLM.Model)
	default:
		fmt.Println("Assistant: ready")
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newLLMClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("cannot list models: %w", err)
	}
	logger.Info("listed models", zap.Int("count", len(models)))

	if len(models) == 0 {
		fmt.Println("No models installed. Try: ollama pull " + cfg.LLM.Model)
		return nil
	}
	for _, name := range models {
		marker := "  "
		if name == cfg.LLM.Model {
			marker = "* "
		}
		fmt.Println(marker + name)
	}
	return nil
}

func newLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(llm.Options{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		Temperature: cfg.LLM.Temperature,
		NumCtx:      cfg.LLM.NumCtx,
	})
}
