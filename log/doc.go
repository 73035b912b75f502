// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("file", "main.aspl"))
//	logger.Error("run failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] one that adds attributes to every record.
//
// # Package-level Logger
//
// Functions such as [Info] and [ErrorContext] write through a package-level
// logger that writes to [os.Stderr]. [Config] reconfigures it in place and
// [SetDefault] replaces it. Context-unaware functions and methods use
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded. Trace records are rendered as "TRACE".
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With [WithPretty]
// enabled, text records drop quoting and JSON records are indented, and
// both are colored with lipgloss styles when written to a terminal.
package log
