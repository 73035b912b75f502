package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/aspl/cli/cmd"
	"github.com/ardnew/aspl/lang"
	"github.com/ardnew/aspl/log"
	"github.com/ardnew/aspl/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// CLI is the top-level command-line interface for aspl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include  []string `help:"Directory searched for @source files (repeatable). Also read from ${pathEnv}." name:"include"   placeholder:"DIR" short:"I" type:"path"`
	MaxDepth int      `default:"${maxDepth}"                                                             help:"Maximum nested function calls." name:"max-depth"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run aspl scripts"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format aspl scripts"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the aspl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"pathEnv":            pkg.PathEnv,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxCallDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	dirs := searchPath(os.Getenv(pkg.PathEnv), cli.Include...)

	log.DebugContext(ctx, "source search path", slog.Any("dirs", dirs))

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx,
		lang.WithLoader(lang.SearchLoader{Loader: lang.OSLoader{}, Dirs: dirs}),
		lang.WithLogger(log.Default()),
		lang.WithMaxCallDepth(cli.MaxDepth),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// searchPath returns the directories searched for @source files: each
// include directory, followed by the entries of env, a list separated by
// [os.PathListSeparator]. Entries that are not directories are dropped.
func searchPath(env string, include ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(joined) {
		if dir != "" && isDir(dir) {
			dirs = append(dirs, filepath.Clean(dir))
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
