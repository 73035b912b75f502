package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/aspl/cli/cmd"
	"github.com/ardnew/aspl/lang"
	"github.com/ardnew/aspl/log"
	"github.com/ardnew/aspl/pkg"
)

func TestMain(m *testing.M) {
	// Keep configuration and cache files out of the user's directories.
	home, err := os.MkdirTemp("", "aspl-cli-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("HOME", home)
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	os.Unsetenv(pkg.PathEnv)

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

func noExit(t *testing.T) func(int) {
	t.Helper()

	return func(code int) { t.Fatalf("unexpected exit(%d)", code) }
}

func TestSearchPath(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	c := filepath.Join(root, "c")

	for _, dir := range []string{a, b, c} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	sep := string(os.PathListSeparator)
	env := strings.Join([]string{b, filepath.Join(root, "missing"), c}, sep)

	got := searchPath(env, a)
	if want := []string{a, b, c}; !slices.Equal(got, want) {
		t.Errorf("searchPath() = %v, want %v", got, want)
	}

	if got := searchPath(""); len(got) != 0 {
		t.Errorf("searchPath(\"\") = %v, want empty", got)
	}
}

// countdown recurses six calls deep.
const countdown = `fn f n {
  check n > 0 { ret @f(@math(n - 1)) }
  ret 0
}
@f(5)
`

func TestRunInitThenConfig(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	ctx := t.Context()
	confPath := pkg.ConfigPath(baseConfig)

	t.Cleanup(func() { os.Remove(confPath) })

	if err := Run(ctx, noExit(t), "init", "--force"); err != nil {
		t.Fatalf("init error = %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}

	for _, want := range []string{
		"set log_level \"info\"\n",
		"set log_format \"text\"\n",
		"set max_depth 10000\n",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}

	// A lowered call depth in the configuration must reach the interpreter.
	conf := strings.Replace(string(data), "set max_depth 10000", "set max_depth 3", 1)
	if err := os.WriteFile(confPath, []byte(conf), 0o600); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(t.TempDir(), "deep.aspl")
	if err := os.WriteFile(script, []byte(countdown), 0o600); err != nil {
		t.Fatal(err)
	}

	err = Run(ctx, noExit(t), "run", script)
	if !errors.Is(err, cmd.ErrScript) || !errors.Is(err, lang.ErrCallDepth) {
		t.Errorf("run error = %v, want ErrScript wrapping ErrCallDepth", err)
	}

	// Flags override the configuration.
	if err := Run(ctx, noExit(t), "--max-depth=100", "run", script); err != nil {
		t.Errorf("run with --max-depth error = %v", err)
	}
}

func TestRunIncludePath(t *testing.T) {
	lib := t.TempDir()
	if err := os.WriteFile(filepath.Join(lib, "util.aspl"), []byte("set loaded true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(t.TempDir(), "main.aspl")
	if err := os.WriteFile(script, []byte("@source \"util.aspl\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Run(t.Context(), noExit(t), "-I", lib, script); err != nil {
		t.Errorf("run with include error = %v", err)
	}

	err := Run(t.Context(), noExit(t), script)
	if !errors.Is(err, lang.ErrSource) {
		t.Errorf("run without include error = %v, want ErrSource", err)
	}
}
