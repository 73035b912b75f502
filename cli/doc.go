// Package cli contains the command line interface for aspl.
//
// # Usage
//
//	aspl [flags] [run] [file ...]
//	aspl fmt [native|json|yaml|ast|tokens] [file]
//	aspl init [--force]
//
// Run is the default command: files are executed in order against one
// global environment, and "-" (or no file) reads standard input.
//
// # Source Search Path
//
// Relative @source paths resolve against the directory of the sourcing
// file first, then against each --include (-I) directory and each entry of
// the ASPL_PATH environment variable, in that order.
//
// # Configuration
//
// Flag defaults are read from the file "config" in the user configuration
// directory (e.g. ~/.config/aspl/config), which is itself an aspl script.
// Each global it binds sets the flag of the same name, with hyphens written
// as underscores:
//
//	set log_level "debug"
//	set include ["/opt/aspl/lib"]
//
// The script runs with output discarded and @source disabled. A JSON file
// of the same name with a ".json" extension is also read. Use "aspl init"
// to write the current flag values as a starting point.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output when writing to a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o aspl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/aspl/pprof)
//
// # Examples
//
//	# Run a script with a library directory
//	aspl -I ./lib main.aspl
//
//	# Trace interpreter activity as JSON
//	aspl --log-level=trace --log-format=json main.aspl
//
//	# Reformat a script
//	aspl fmt native -i 4 main.aspl
package cli
