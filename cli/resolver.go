package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aspl/lang"
	"github.com/ardnew/aspl/log"
)

// errSourceDisabled is returned for @source inside a configuration file.
var errSourceDisabled = errors.New("@source is disabled in configuration files")

// sandbox is a [lang.Loader] that refuses every file.
type sandbox struct{}

// Load implements [lang.Loader].
func (sandbox) Load(_ context.Context, _, p string) (string, string, error) {
	return p, "", errSourceDisabled
}

// resolve returns a [kong.ConfigurationLoader] that runs a configuration
// file written in aspl and maps its global bindings to flag values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config")
//
// The script runs with output discarded and @source disabled. Its globals
// are converted as follows:
//   - Flag names with hyphens (e.g., "log-level") use underscores in the
//     script (e.g., "log_level")
//   - Integers are passed as decimal strings
//   - Arrays are joined with commas
//   - Functions are ignored
//
// Example config file:
//
//	set log_level "debug"
//	set log_format "json"
//	set include ["/opt/aspl/lib" "~/aspl"]
//	set max_depth @math(2 * 1000)
//
// Command-line flags override config file values. A configuration file
// that fails to parse or run is reported and otherwise ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		name := "config"
		if f, ok := r.(interface{ Name() string }); ok {
			name = f.Name()
		}

		data, err := io.ReadAll(r)
		if err != nil {
			log.WarnContext(ctx, "read configuration failed",
				slog.String("file", name), slog.Any("error", err))

			return config{}, nil
		}

		in := lang.New(
			lang.WithLoader(sandbox{}),
			lang.WithOutput(io.Discard),
			lang.WithMaxCallDepth(lang.DefaultMaxCallDepth),
		)

		err = in.Run(ctx, name, string(data))
		if err != nil {
			log.WarnContext(ctx, "configuration ignored",
				slog.String("file", name), slog.Any("error", err))

			return config{}, nil
		}

		return globalsToMap(in.Globals()), nil
	}
}

// config implements [kong.Resolver] for aspl configuration scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the script already ran successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but aspl identifiers
	// cannot. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// globalsToMap converts interpreter bindings to flag values.
func globalsToMap(globals map[string]lang.Value) config {
	result := make(config, len(globals))

	for key, v := range globals {
		if _, isFn := v.(*lang.Function); isFn {
			continue
		}

		if value, ok := flagValue(lang.Native(v)); ok {
			result[key] = value
		}
	}

	return result
}

// flagValue converts a native value to a form Kong can decode.
func flagValue(v any) (any, bool) {
	switch v := v.(type) {
	case int64:
		// Kong requires numbers as strings for parsing
		return strconv.FormatInt(v, 10), true

	case string, bool:
		return v, true

	case []any:
		elem := make([]string, 0, len(v))

		for _, e := range v {
			s, ok := flagValue(e)
			if !ok {
				return nil, false
			}

			elem = append(elem, fmt.Sprint(s))
		}

		return strings.Join(elem, ","), true

	default:
		return nil, false
	}
}
