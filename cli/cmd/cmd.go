package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/aspl/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type optionsKey struct{}

// WithOptions returns a new context.Context carrying interpreter options
// shared by every command, such as the @source loader and the logger.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// optionsFrom returns a copy of the options stored by [WithOptions], with
// extra appended.
func optionsFrom(ctx context.Context, extra ...lang.Option) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return append(append([]lang.Option(nil), opts...), extra...)
}

type streamsKey struct{}

// Streams are the standard input, output, and error of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands read and write
// the given streams instead of the process's standard streams. Nil fields
// keep the process's stream.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName identifies standard input in error messages.
const stdinName = "<stdin>"

// source is the text of one input file.
type source struct {
	name string
	text string
}

// readSources reads the named files in order.
//
// Files are deduplicated by identity, so a file named twice (through
// relative or absolute paths, or symlinks) is read once. All occurrences of
// "-", and any file that is standard input itself, are replaced by a single
// read of stdin placed last.
func readSources(ctx context.Context, paths []string) ([]source, error) {
	st := streamsFrom(ctx)

	var (
		sources  []source
		seen     []os.FileInfo
		useStdin bool
	)

	stdinInfo, _ := os.Stdin.Stat()

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
		}

		if st.In == os.Stdin && stdinInfo != nil && os.SameFile(info, stdinInfo) {
			useStdin = true

			continue
		}

		if seenFile(seen, info) {
			continue
		}

		seen = append(seen, info)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
		}

		sources = append(sources, source{name: filepath.Clean(path), text: string(data)})
	}

	if useStdin {
		data, err := io.ReadAll(st.In)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", stdinName)).Wrap(err)
		}

		sources = append(sources, source{name: stdinName, text: string(data)})
	}

	return sources, nil
}

func seenFile(seen []os.FileInfo, info os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}

// readSource reads a single file, or stdin for "-".
func readSource(ctx context.Context, path string) (source, error) {
	sources, err := readSources(ctx, []string{path})
	if err != nil {
		return source{}, err
	}

	return sources[0], nil
}
