package lang

import (
	"io"
	"os"

	"github.com/ardnew/aspl/log"
)

// DefaultMaxCallDepth is the default limit on nested function calls.
// Users may modify this before constructing an [Interpreter].
var DefaultMaxCallDepth = 10000

// config holds interpreter and parser options.
type config struct {
	name     string
	base     string
	loader   Loader
	output   io.Writer
	logger   log.Logger
	maxDepth int
}

// Option configures parsing or interpretation behavior.
type Option func(*config)

// WithName sets the file name used in error messages and as the origin for
// resolving relative @source paths.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithBasePath sets the directory against which @source paths in the
// top-level program are resolved. It defaults to the directory of the name
// given by [WithName], or the working directory.
func WithBasePath(dir string) Option {
	return func(c *config) {
		c.base = dir
	}
}

// WithLoader sets the capability used to read files named by @source.
// The default is an [OSLoader].
func WithLoader(loader Loader) Option {
	return func(c *config) {
		c.loader = loader
	}
}

// WithOutput sets the writer receiving log and logl output.
// If nil, output is discarded.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxCallDepth limits the number of nested function calls. Values less
// than 1 select [DefaultMaxCallDepth].
func WithMaxCallDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// makeConfig applies opts over the default configuration.
func makeConfig(opts ...Option) config {
	c := config{
		loader:   OSLoader{},
		output:   os.Stdout,
		maxDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.maxDepth < 1 {
		c.maxDepth = DefaultMaxCallDepth
	}

	if c.loader == nil {
		c.loader = OSLoader{}
	}

	return c
}
