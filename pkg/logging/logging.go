package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Options controls logger construction.
type Options struct {
	Debug      bool
	AppName    string
	AppVersion string
	// LogFile receives the log when set. Otherwise logs go to stderr.
	LogFile string
}

// Setup builds the application logger and installs it as the zap global.
func Setup(opts Options) (*zap.Logger, error) {
	var cfg zap.Config

	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.OutputPaths = []string{"stderr"}
	if opts.LogFile != "" {
		if dir := filepath.Dir(opts.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return zap.NewNop(), err
			}
		}
		cfg.OutputPaths = []string{opts.LogFile}
		if opts.Debug {
			cfg.OutputPaths = append(cfg.OutputPaths, "stderr")
		}
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    opts.AppName,
		"appVersion": opts.AppVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
