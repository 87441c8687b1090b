package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/efreitasn/clob/internal/config"
	"github.com/efreitasn/clob/internal/engine"
	"github.com/efreitasn/clob/internal/script"
)

// demoScript reproduces the reference session: two bids at the same
// price, one below, then two asks that cross them.
const demoScript = `
bid 150.25 100
bid 150.25 50
bid 149.75 200
ask 150.00 75
ask 150.00 100
match
cancel 99999
print
`

func main() {
	scriptPath := flag.String("script", "", "Path to an order script (default: built-in demo)")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level and format. Logs go to
	// stderr so the book dump on stdout stays readable.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Read the script.
	var src io.Reader = strings.NewReader(demoScript)
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			logger.Error("failed to open script", slog.String("path", *scriptPath), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		src = f
	}

	cmds, err := script.Parse(src)
	if err != nil {
		logger.Error("failed to parse script", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Engine.
	book := engine.NewSyncBook(engine.NewOrderBook(cfg.Symbol, engine.NewLogObserver(logger)))
	logger.Info("book ready", slog.String("symbol", cfg.Symbol), slog.Int("commands", len(cmds)))

	runner := script.NewRunner(book, os.Stdout, cfg.PriceScale)
	if err := runner.Run(cmds); err != nil {
		logger.Error("script failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
