package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/spipe/cli/cmd"
	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/pipe"
	"github.com/ardnew/spipe/pkg"
)

// CLI is the top-level command-line interface for spipe.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Names namesConfig `embed:"" group:"names" prefix:"name-"`

	Path     []string `help:"Directories searched for relative source and rule files." type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum expression nesting depth."`

	Expand  cmd.Expand  `cmd:"" default:"withargs" help:"Expand pipelines into host expressions"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print pipelines in canonical or structured form"`
	Lint    cmd.Lint    `cmd:""                    help:"Check pipelines against lint rules"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Repl    cmd.Repl    `cmd:""                    help:"Expand pipelines interactively"`
	Version cmd.Version `cmd:""                    help:"Print version"`
}

// Run executes the spipe CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Names.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. This also covers boolean flags like --log-pretty, which
	// have no TextUnmarshaler.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Names.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Names.option(), pipe.WithMaxDepth(cli.MaxDepth))
	ctx = cmd.WithSearchPath(ctx, searchPath(os.Getenv(pathEnv()), cli.Path...))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
