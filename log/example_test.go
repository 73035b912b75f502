package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/aspl/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("script loaded", slog.String("file", "main.aspl"))
	// Output: level=INFO msg="script loaded" file=main.aspl
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("deep recursion", slog.Int("depth", 9000))
	// Output: level=WARN msg="deep recursion" depth=9000
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.With(slog.String("fn", "add")).Info("call", slog.Int("depth", 1))
	// Output: {"level":"INFO","msg":"call","fn":"add","depth":1}
}

func Example_withContext() {
	type requestKey struct{}

	ctx := context.WithValue(context.Background(), requestKey{}, "r-1")

	logger := log.Make(os.Stderr, log.WithLevel(log.LevelTrace))
	logger.TraceContext(ctx, "parse complete", slog.Int("statements", 3))
}
