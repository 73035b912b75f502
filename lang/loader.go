package lang

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/readahead"
)

// Loader reads the files named by @source.
//
// Load resolves p against the directory dir of the sourcing file and returns
// the resolved name along with the file's text. The name identifies the file
// in error messages and is the origin for any @source it contains; two
// paths naming the same file must resolve to the same name.
type Loader interface {
	Load(ctx context.Context, dir, p string) (name, src string, err error)
}

// OSLoader reads files from the host file system.
type OSLoader struct{}

// Load implements [Loader].
func (OSLoader) Load(ctx context.Context, dir, p string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name := filepath.Clean(p)
	if !filepath.IsAbs(p) {
		name = filepath.Join(dir, p)
	}

	src, err := readFile(name)
	if err != nil {
		return name, "", err
	}

	return name, src, nil
}

// readFile reads the named file through a read-ahead buffer.
func readFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// SearchLoader resolves paths with Loader first, then against each of Dirs
// in order when the file does not exist. Absolute paths are never searched.
type SearchLoader struct {
	Loader Loader
	Dirs   []string
}

// Load implements [Loader].
func (l SearchLoader) Load(
	ctx context.Context,
	dir, p string,
) (string, string, error) {
	loader := l.Loader
	if loader == nil {
		loader = OSLoader{}
	}

	name, src, err := loader.Load(ctx, dir, p)
	if err == nil || !errors.Is(err, fs.ErrNotExist) || filepath.IsAbs(p) {
		return name, src, err
	}

	for _, d := range l.Dirs {
		if d == "" {
			continue
		}

		n, s, e := loader.Load(ctx, d, p)
		if e == nil {
			return n, s, nil
		}

		if !errors.Is(e, fs.ErrNotExist) {
			return n, s, e
		}
	}

	return name, src, err
}

// FSLoader reads files from an [fs.FS]. Names are slash-separated and
// relative to the root of FS.
type FSLoader struct {
	FS fs.FS
}

// Load implements [Loader].
func (l FSLoader) Load(ctx context.Context, dir, p string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name, err := fsName(dir, p)
	if err != nil {
		return name, "", err
	}

	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return name, "", err
	}

	return name, string(data), nil
}

// MapLoader serves file text from memory, keyed by slash-separated name.
type MapLoader map[string]string

// Load implements [Loader].
func (l MapLoader) Load(ctx context.Context, dir, p string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name, err := fsName(dir, p)
	if err != nil {
		return name, "", err
	}

	src, ok := l[name]
	if !ok {
		return name, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return name, src, nil
}

// fsName joins p to dir as an [fs.FS] path.
func fsName(dir, p string) (string, error) {
	p = filepath.ToSlash(p)

	name := strings.TrimPrefix(path.Clean(p), "/")
	if !path.IsAbs(p) {
		name = path.Join(filepath.ToSlash(dir), p)
	}

	if !fs.ValidPath(name) {
		return name, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	return name, nil
}

// sourceDir returns the directory against which @source paths in the named
// file are resolved.
func sourceDir(name string) string {
	if name == "" {
		return "."
	}

	return filepath.Dir(name)
}
