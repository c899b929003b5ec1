package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"codecombiner/pkg/combine"
	"codecombiner/pkg/config"
	"codecombiner/pkg/logging"
	"codecombiner/pkg/summarize"
	"codecombiner/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	envFile string
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "codecombiner",
	Short: "codecombiner combines source files into one annotated text block",
	Long: `codecombiner collects files and folders, keeps the ones whose extension is on the
allow-list, and concatenates them under "# <name>" headers, ready to paste into an LLM chat
or to send to a provider for summarization.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

// app carries the components built once per invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	collector  *combine.Collector
	dispatcher *summarize.Dispatcher
}

type appKey struct{}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.New(), cmd.Flags(), cfgFile, envFile)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Options{
		Debug:      cfg.Debug,
		AppName:    version.AppName,
		AppVersion: version.Version,
		LogFile:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	counter, err := summarize.NewTokenCounter(cfg.TokenCounter)
	if err != nil {
		logger.Error("Invalid token counter", zap.String("tokenCounter", cfg.TokenCounter), zap.Error(err))
		return err
	}

	collector := combine.NewCollector(combine.Options{
		ExtensionsFile:   cfg.ExtensionsFile,
		IgnoreFileName:   cfg.IgnoreFile,
		GlobalIgnoreFile: cfg.GlobalIgnoreFile,
	}, logger)

	dispatcher := summarize.NewDispatcher(
		summarize.LoadRegistry(cfg.ModelsFile, logger),
		logger,
		summarize.WithTokenCounter(counter),
		summarize.WithEnvLookup(os.LookupEnv),
	)

	logger.Debug("Application initialized",
		zap.String("command", cmd.CommandPath()),
		zap.Any("config", cfg))

	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
		cfg:        cfg,
		logger:     logger,
		collector:  collector,
		dispatcher: dispatcher,
	}))
	return nil
}

func appFrom(cmd *cobra.Command) *app {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		panic("codecombiner: command run without application setup")
	}
	return a
}

// Execute runs the root command and prints any error it returns.
func Execute(ctx context.Context) error {
	err := RootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(RootCmd.ErrOrStderr(), errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
	return err
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a codecombiner config file (YAML, JSON or TOML)")
	flags.StringVar(&envFile, "env", ".env", "Path to a .env file with CODECOMBINER_* and provider API key variables")
	flags.String("extensions-file", config.Default.ExtensionsFile, "JSON file holding the supported extension list")
	flags.String("preferences-file", config.Default.PreferencesFile, "JSON file holding AI provider preferences")
	flags.String("models-file", config.Default.ModelsFile, "JSON provider registry; the built-in registry is used when missing")
	flags.String("ignore-file", config.Default.IgnoreFile, "Ignore file looked up at the root of each imported folder")
	flags.String("global-ignore-file", config.Default.GlobalIgnoreFile, "Ignore file applied to every imported folder")
	flags.String("log-file", config.Default.LogFile, "Log file; empty logs to stderr")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("token-counter", config.Default.TokenCounter, "Input token counting strategy: words or tiktoken")
}
