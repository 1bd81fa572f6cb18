package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/config"
	"github.com/smhanov/promptcraft/llm"
)

var version = "dev"

// Commands annotated with skipConfig run without loading configuration or
// building a model client.
const skipConfig = "skip-config"

// app carries global flags and the dependencies every command shares.
type app struct {
	cfgPath string
	verbose bool
	debug   bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger *zap.Logger

	loadConfig  func(path string) (config.Config, error)
	newProvider func(ctx context.Context, cfg config.LLMConfig) (promptcraft.LLMProvider, error)
}

func newApp() *app {
	return &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		loadConfig:  config.Load,
		newProvider: llm.New,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "promptcraft",
		Short: "Generate and improve LLM prompts",
		Long: `promptcraft turns a task description into a prompt, scores it with an LLM
judge and critiques and rewrites it until it passes. It can also rewrite an
existing prompt for a given context.

Configuration comes from --config (YAML or TOML), a .env file and
PROMPTCRAFT_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log every LLM prompt and response")

	root.AddCommand(
		a.generateCmd(),
		a.improveCmd(),
		a.batchCmd(),
		a.patternsCmd(),
		a.chatCmd(),
		a.mcpCmd(),
	)
	return root
}

// setup loads configuration and refuses to start on a bad one.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if a.logger == nil {
		if cmd.Annotations["logger"] == "nop" {
			a.logger = zap.NewNop()
		} else if a.logger, err = newLogger(cfg.Logging.Level, a.verbose, isTerminal(a.stderr)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	return nil
}

func newLogger(level string, verbose, tty bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if tty {
		zc = zap.NewDevelopmentConfig()
	}
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// crafter builds the graph runner from the loaded configuration.
func (a *app) crafter(ctx context.Context) (*promptcraft.Crafter, error) {
	provider, err := a.newProvider(ctx, a.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", a.cfg.LLM.Provider, err)
	}
	opts := []promptcraft.Option{
		promptcraft.WithModel(provider),
		promptcraft.WithThreshold(a.cfg.Graph.Threshold),
		promptcraft.WithLogger(a.logger),
		promptcraft.WithDebug(a.debug || a.cfg.Logging.Debug),
	}
	switch {
	case a.cfg.Graph.MaxCycles < 0:
		opts = append(opts, promptcraft.WithUnboundedCycles())
	case a.cfg.Graph.MaxCycles > 0:
		opts = append(opts, promptcraft.WithMaxCycles(a.cfg.Graph.MaxCycles))
	}
	return promptcraft.New(opts...), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
