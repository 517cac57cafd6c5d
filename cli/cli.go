package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/raindoc/cli/cmd"
	"github.com/ardnew/raindoc/lang"
	"github.com/ardnew/raindoc/log"
	"github.com/ardnew/raindoc/meta"
	"github.com/ardnew/raindoc/pkg"
)

// CLI is the top-level command-line interface for raindoc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Fixtures []string `help:"YAML metadata fixture file(s) to resolve imports against" name:"meta" short:"m" type:"existingfile"`
	Depth    int      `default:"${maxImportDepth}" help:"Maximum nesting of imported documents" name:"max-import-depth"`

	Check    cmd.Check    `cmd:"" default:"withargs" help:"Report the problems of a document"`
	Tree     cmd.Tree     `cmd:""                    help:"Print the resolved namespace of a document"`
	Deps     cmd.Deps     `cmd:""                    help:"Print bindings in dependency order"`
	Bindings cmd.Bindings `cmd:""                    help:"List the bindings of a document"`
	Lookup   cmd.Lookup   `cmd:""                    help:"Print the namespace entry at a path"`
	Meta     cmd.Meta     `cmd:""                    help:"Inspect metadata"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`

	Version kong.VersionFlag `help:"Print version and exit"`
}

// Run executes the raindoc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath + configExt,
		cmd.CacheIdentifier:  cacheDir(),
		"maxImportDepth":     strconv.Itoa(lang.DefaultMaxImportDepth),
		"version":            pkg.Version(),
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath+configExt),
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

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	store := meta.NewMemStore(nil)

	hashes, err := cmd.LoadFixtures(store, cli.Fixtures)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "metadata loaded",
		slog.Int("files", len(cli.Fixtures)),
		slog.Int("metas", len(hashes)),
	)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStore(ctx, store)
	ctx = cmd.WithOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithMaxImportDepth(cli.Depth),
	)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
