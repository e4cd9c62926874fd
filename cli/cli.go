package cli

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/ardnew/diagmask/cli/cmd"
	"github.com/ardnew/diagmask/pkg"
)

// CLI is the top-level command-line interface for diagmask.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Vocab []string `help:"Vocabulary file(s) adding options (YAML or TOML)" name:"vocab" short:"V" type:"existingfile"`

	Parse    cmd.Parse    `cmd:"" default:"withargs" help:"Parse option mask documents"`
	Describe cmd.Describe `cmd:""                    help:"List the known options"`
	Check    cmd.Check    `cmd:""                    help:"Test a parsed document against a predicate"`
	Repl     cmd.Repl     `cmd:""                    help:"Edit option masks interactively"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`
	Version  cmd.Version  `cmd:""                    help:"Print version information"`
}

// Run executes the diagmask CLI with the given context and arguments.
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

	// Variables from the dotenv file never override the environment.
	if err := godotenv.Load(baseEnv); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return pkg.ErrReadInput.Wrap(err)
	}

	configYAML := configPath(baseConfig + extYAML)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configYAML,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(strings.ToUpper(pkg.Name)),
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
		kong.Configuration(kong.JSON, configPath(baseConfig+extJSON)),
		kong.Configuration(resolveYAML, configYAML),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithVocabulary(ctx, cli.Vocab)

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
