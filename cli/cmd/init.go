package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aspl/lang"
	"github.com/ardnew/aspl/log"
	"github.com/ardnew/aspl/pkg"
	"github.com/ardnew/aspl/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes a configuration script that binds each flag to its current
// value, e.g. set log_level "info".
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errors.New("command context unavailable"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		return ErrWriteConfig.Wrap(errors.New("config path undefined"))
	}

	attr := slog.String("file", confPath)

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.With(attr, slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	var buf bytes.Buffer

	err = configProgram(ctx, ktx).Format(ctx, &buf, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(confPath), pkg.DirMode)
	if err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	err = os.WriteFile(confPath, buf.Bytes(), 0o600)
	if err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", attr)

	return nil
}

// configProgram builds one set statement per persistent flag. Hyphens in
// flag names become underscores, since aspl identifiers cannot hold them.
func configProgram(ctx context.Context, ktx *kong.Context) *lang.Program {
	b := lang.NewBuilder()

	var body []lang.Stmt

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := configValue(ktx.FlagValue(flag))
		if val == nil {
			continue
		}

		x := b.Value(val)
		if x == nil {
			log.DebugContext(ctx, "flag not representable in config",
				slog.String("flag", flag.Name))

			continue
		}

		body = append(body, b.Set(strings.ReplaceAll(flag.Name, "-", "_"), x))
	}

	return b.Program(body...)
}

// configValue converts a flag value to an int64, string, bool, or []any,
// or nil if the value is empty or cannot be written as an aspl literal.
func configValue(v any) any {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		if s == "" || strings.ContainsAny(s, "\"\n") {
			return nil
		}

		return s

	case reflect.Bool:
		return rv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint())

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		out := make([]any, rv.Len())
		for i := range out {
			if out[i] = configValue(rv.Index(i).Interface()); out[i] == nil {
				return nil
			}
		}

		return out

	default:
		return nil
	}
}
