// CLAUDE:SUMMARY CLI entry point for pointeuse: one-shot punch run with dry-run and headful modes.
// Command pointeuse creates the clock-in and clock-out entries due today on
// a SuccessFactors-style time portal.
//
// Usage:
//
//	pointeuse -config pointeuse.yaml            # create today's due punches
//	pointeuse -config pointeuse.yaml -dry-run   # list due punches, no browser
//	pointeuse -config pointeuse.yaml -headless=false  # watch the run
//
// Credentials come from POINTEUSE_USERNAME, POINTEUSE_PASSWORD and
// POINTEUSE_TOTP_SECRET, optionally via a .env file in the working
// directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hazyhaar/pointeuse"
)

func main() {
	configPath := flag.String("config", "pointeuse.yaml", "path to pointeuse.yaml config file")
	dryRun := flag.Bool("dry-run", false, "list due entries and exit without launching the browser")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	headless := flag.Bool("headless", true, "run Chrome headless; pass -headless=false to watch")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Only an explicit -headless flag overrides the config's browser mode.
	var modeOverride string
	flag.Visit(func(f *flag.Flag) {
		if f.Name != "headless" {
			return
		}
		if *headless {
			modeOverride = "headless"
		} else {
			modeOverride = "headful"
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *dryRun, modeOverride); err != nil {
		logger.Error("pointeuse: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath string, dryRun bool, modeOverride string) error {
	if err := godotenv.Load(); err == nil {
		logger.Debug("pointeuse: .env loaded")
	}

	cfg, err := pointeuse.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if modeOverride != "" {
		cfg.Browser.Mode = modeOverride
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dryRun {
		return runDry(cfg, logger)
	}

	secrets := pointeuse.SecretsFromEnv()
	if err := secrets.Validate(); err != nil {
		return err
	}

	rep, err := pointeuse.Execute(ctx, cfg, secrets, logger, buildSinks(cfg, logger)...)
	if err != nil {
		return err
	}
	logger.Info("pointeuse: done",
		"total", rep.Total, "succeeded", rep.Succeeded, "failed", rep.Failed)
	return nil
}

// runDry prints the entries that would be created, one JSON object per
// line, and never touches the browser.
func runDry(cfg *pointeuse.Config, logger *slog.Logger) error {
	r := pointeuse.New(cfg, pointeuse.Secrets{}, logger)
	defer r.Close()

	due, err := r.Due(time.Now())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, e := range due {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	logger.Info("pointeuse: dry run", "due", len(due))
	return nil
}

func buildSinks(cfg *pointeuse.Config, logger *slog.Logger) []pointeuse.Sink {
	var sinks []pointeuse.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, pointeuse.NewStdoutSink(nil))
		case "webhook":
			sinks = append(sinks, pointeuse.NewWebhookSink(sc.URL, logger))
		default:
			logger.Warn("pointeuse: unknown sink type", "type", sc.Type)
		}
	}
	if len(sinks) == 0 {
		sinks = append(sinks, pointeuse.NewStdoutSink(nil))
	}
	return sinks
}
