package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// parseCache stores parsed statement sequences keyed by the 128-bit hash
// of their source text. Parsed bodies are never mutated, so they are shared
// by every program and function built from the same text.
var parseCache sync.Map // map[xxh3.Uint128]*parsed

// parsed holds the one-time parse result of a source text.
type parsed struct {
	once   sync.Once
	body   []Stmt
	tokens int
	err    error
}

// parseCached tokenizes and parses src, reusing the result of any earlier
// parse of identical text.
func parseCached(ctx context.Context, cfg *config, src string) (*Program, error) {
	key := xxh3.HashString128(src)

	value, hit := parseCache.LoadOrStore(key, new(parsed))

	entry, ok := value.(*parsed)
	if !ok {
		return nil, ErrRuntime.Detail("invalid parse cache entry")
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("file", cfg.name),
		slog.String("source_hash", strconv.FormatUint(key.Hi, 16)+
			strconv.FormatUint(key.Lo, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		tokens, err := Tokenize(src)
		if err != nil {
			entry.err = err

			return
		}

		entry.tokens = len(tokens)

		prog, err := Parse(tokens)
		if err != nil {
			entry.err = err

			return
		}

		entry.body = prog.Body
	})

	if entry.err != nil {
		return nil, WrapError(entry.err).WithFile(cfg.name)
	}

	if !hit {
		cfg.logger.TraceContext(ctx, "parse complete",
			slog.String("file", cfg.name),
			slog.Int("token_count", entry.tokens),
			slog.Int("statement_count", len(entry.body)))
	}

	return &Program{Name: cfg.name, Body: entry.body}, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.Clear()
}
