package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/molang/cli/cmd"
	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/log"
	"github.com/ardnew/molang/pkg"
)

// baseEngine is the base name of the engine configuration loaded
// automatically from the configuration directory.
const baseEngine = "engine.yaml"

// CLI is the top-level command-line interface for molang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Globals        []string `help:"Engine configuration file(s) with bindings, functions and queries, merged in order." short:"g" type:"existingfile"`
	Include        []string `help:"Directory searched for script files before ${pathEnv}."                                   short:"I" type:"existingdir"`
	Entity         string   `help:"YAML or JSON file bound as the host entity."                                               short:"E" type:"existingfile"`
	MaxDepth       int      `help:"Parser nesting limit (0 for the default)."`
	RecursionLimit int      `default:"-1"                                                                                      help:"Limit on nested calls (0 disables, -1 for the default)."`
	NoCache        bool     `help:"Disable the parse cache."`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate scripts"`
	Call    cmd.Call    `cmd:""                    help:"Compile a script with a signature and call it"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format scripts"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version"`
}

// Run executes the molang CLI with the given context and arguments.
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
		cmd.ConfigIdentifier: configFilePath + ".yaml",
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"pathEnv":            pkg.PathEnv,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that messages logged while parsing use
	// them regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(pkg.EnvPrefix),
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
		kong.Configuration(resolveYAML, configFilePath+".yaml"),
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

	sess, err := cli.session(ctx)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSession(ctx, sess)

	return ktx.Run(ctx, &cli)
}

// session builds the state shared by every subcommand from the global flags.
func (c *CLI) session(ctx context.Context) (*cmd.Session, error) {
	cfg, err := c.engineConfig(ctx)
	if err != nil {
		return nil, err
	}

	entity, err := loadEntity(c.Entity)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, cmd.ErrLoadConfig.Wrap(err)
	}

	// Queries compiled against the entity are type-checked; the untyped
	// compilation from Options is replaced.
	if entity != nil && len(cfg.Queries) > 0 {
		opts = append(opts, lang.WithQueries(entity, cfg.Queries))
	}

	if c.MaxDepth > 0 {
		opts = append(opts, lang.WithMaxDepth(c.MaxDepth))
	}

	if c.RecursionLimit >= 0 {
		opts = append(opts, lang.WithRecursionLimit(c.RecursionLimit))
	}

	opts = append(opts,
		lang.WithCache(!c.NoCache),
		lang.WithLogger(log.Default()),
	)

	eng, err := lang.New(opts...)
	if err != nil {
		return nil, cmd.ErrLoadConfig.Wrap(err)
	}

	path := searchPath(c.Include)

	log.DebugContext(ctx, "session ready",
		slog.Int("globals", len(eng.Global().Names())),
		slog.Bool("entity", entity != nil),
		slog.Any("path", path),
	)

	return &cmd.Session{
		Engine:   eng,
		Entity:   entity,
		Path:     path,
		CacheDir: pkg.CacheDir(),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// engineConfig merges the engine configuration in the configuration
// directory, if any, with each file given by --globals.
func (c *CLI) engineConfig(ctx context.Context) (lang.Config, error) {
	var cfg lang.Config

	files := c.Globals
	if path := configPath(baseEngine); isFile(path) {
		files = append([]string{path}, files...)
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return cfg, cmd.ErrLoadConfig.With(slog.String("path", path)).Wrap(err)
		}

		next, err := lang.LoadConfig(f)
		f.Close()

		if err != nil {
			return cfg, cmd.ErrLoadConfig.With(slog.String("path", path)).Wrap(err)
		}

		log.DebugContext(ctx, "engine configuration loaded",
			slog.String("path", path),
			slog.Int("bindings", len(next.Bindings)),
			slog.Int("functions", len(next.Functions)),
			slog.Int("queries", len(next.Queries)),
		)

		cfg = cfg.Merge(next)
	}

	return cfg, nil
}

// loadEntity decodes the host entity file. An empty path is no entity.
func loadEntity(path string) (any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmd.ErrLoadEntity.With(slog.String("path", path)).Wrap(err)
	}

	var entity map[string]any

	if err := yaml.Unmarshal(data, &entity); err != nil {
		return nil, cmd.ErrLoadEntity.With(slog.String("path", path)).Wrap(err)
	}

	return entity, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}

	return err == nil && info.Mode().IsRegular()
}
