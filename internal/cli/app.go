package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/nyoka-pmml/nyoka-cli/internal/action"
	"github.com/nyoka-pmml/nyoka-cli/internal/app/manager"
	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/domain/workspace"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/config"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/debuglog"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/prefetcher"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/remote"
	"github.com/nyoka-pmml/nyoka-cli/internal/ui"
)

const (
	envVerbose  = "NYOKA_VERBOSE"
	envNoPrompt = "NYOKA_NO_PROMPT"
)

type streams struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	color       bool
}

func osStreams() streams {
	return streams{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
		color:       isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// Run is the CLI entrypoint. Errors are returned for the caller to print.
func Run() error {
	return run(context.Background(), os.Args[1:], osStreams())
}

type globalFlags struct {
	root     string
	noPrompt bool
	debug    bool
	verbose  bool
	version  bool
	help     bool
}

func run(ctx context.Context, argv []string, s streams) error {
	fs := flag.NewFlagSet(action.ProgramName, flag.ContinueOnError)
	g := globalFlags{
		noPrompt: envBool(envNoPrompt),
		verbose:  envBool(envVerbose),
	}
	fs.StringVar(&g.root, "root", "", "override nyoka root")
	fs.BoolVar(&g.noPrompt, "no-prompt", g.noPrompt, "disable interactive prompt")
	fs.BoolVar(&g.debug, "debug", false, "write debug logs to file")
	fs.BoolVar(&g.verbose, "verbose", g.verbose, "show detailed logs")
	fs.BoolVar(&g.verbose, "v", g.verbose, "show detailed logs")
	fs.BoolVar(&g.version, "version", false, "print version")
	fs.BoolVar(&g.help, "help", false, "show help")
	fs.BoolVar(&g.help, "h", false, "show help")
	fs.SetOutput(s.out)
	fs.Usage = func() {
		printGlobalHelp(s.out, s.color)
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if g.version {
		printVersion(s.out)
		return nil
	}

	args := fs.Args()
	if g.help || (len(args) > 0 && args[0] == "help") {
		topic := ""
		if len(args) > 0 && args[0] != "help" {
			topic = args[0]
		} else if len(args) > 1 {
			topic = args[1]
		}
		if topic == "" || !printCommandHelp(topic, s.out, s.color) {
			printGlobalHelp(s.out, s.color)
		}
		return nil
	}
	if len(args) == 2 && isHelpArg(args[1]) && printCommandHelp(args[0], s.out, s.color) {
		return nil
	}
	if width, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil {
		ui.SetWrapWidth(width)
	}

	selected, err := action.Resolve(args)
	if err != nil {
		var selErr *action.SelectionError
		if errors.As(err, &selErr) {
			renderCatalog(ui.NewRenderer(s.out, ui.DefaultTheme(), s.color), selErr.Catalog)
		}
		return err
	}

	rootDir, err := paths.ResolveRoot(g.root)
	if err != nil {
		return err
	}
	if g.debug {
		if err := debuglog.Enable(rootDir); err != nil {
			return err
		}
		defer func() { _ = debuglog.Close() }()
	}
	debuglog.SetAction(selected.Descriptor().Name)

	env := &runEnv{
		rootDir:  rootDir,
		flags:    g,
		streams:  s,
		theme:    ui.DefaultTheme(),
		renderer: ui.NewRenderer(s.out, ui.DefaultTheme(), s.color),
	}
	dispatched, err := action.Dispatch(selected, env.handlers(ctx))
	if err != nil {
		return err
	}
	if !dispatched {
		return fmt.Errorf("%s %s: no handler", action.ProgramName, selected.Descriptor().Name)
	}
	return nil
}

type runEnv struct {
	rootDir  string
	flags    globalFlags
	streams  streams
	theme    ui.Theme
	renderer *ui.Renderer
	catalog  *prefetcher.Prefetcher
}

func (e *runEnv) handlers(ctx context.Context) action.Handlers {
	return action.Handlers{
		Init: func(action.Init) error {
			m, err := e.manager(false)
			if err != nil {
				return err
			}
			startSteps(e.renderer)
			return m.Init(ctx)
		},
		Add: func(a action.Add) error {
			m, err := e.manager(true)
			if err != nil {
				return err
			}
			startSteps(e.renderer)
			return m.Add(ctx, a.Resource())
		},
		List: func(action.List) error {
			m, err := e.manager(false)
			if err != nil {
				return err
			}
			startResult(e.renderer)
			return m.List(ctx)
		},
		Remove: func(a action.Remove) error {
			m, err := e.manager(false)
			if err != nil {
				return err
			}
			startSteps(e.renderer)
			return m.Remove(ctx, a.Resource())
		},
		Available: func(a action.Available) error {
			m, err := e.manager(true)
			if err != nil {
				return err
			}
			categories := resource.Categories
			if category, ok := a.Category(); ok {
				categories = []resource.Category{category}
			}
			e.catalog.StartAll(ctx, categories)
			startResult(e.renderer)
			return m.Available(ctx, categories...)
		},
		Dependencies: func(a action.Dependencies) error {
			m, err := e.manager(true)
			if err != nil {
				return err
			}
			startResult(e.renderer)
			return m.Dependencies(ctx, a.Resource())
		},
		Publish: func(a action.Publish) error {
			m, err := e.manager(true)
			if err != nil {
				return err
			}
			startSteps(e.renderer)
			return m.Publish(ctx, a.Resource(), a.Deps())
		},
	}
}

func (e *runEnv) manager(withRemote bool) (*manager.Manager, error) {
	ws := workspace.New(e.rootDir)
	opts := manager.Options{
		Workspace: ws,
		Store:     workspace.NewStore(ws),
		Prompter: ui.Prompter{
			Theme:       e.theme,
			UseColor:    e.streams.color,
			Interactive: e.streams.interactive && !e.flags.noPrompt,
			In:          e.streams.in,
			Out:         e.streams.out,
		},
		Reporter: e.renderer,
	}
	if e.flags.verbose {
		e.renderer.Section("Info")
		e.renderer.Bullet(fmt.Sprintf("root: %s", e.rootDir))
	}
	if withRemote {
		cfg, err := config.Load(e.rootDir)
		if err != nil {
			return nil, err
		}
		if e.flags.verbose {
			e.renderer.Bullet(fmt.Sprintf("repository: %s", cfg.Repository))
		}
		client := remote.New(cfg.Repository, cfg.Timeout)
		e.catalog = prefetcher.New(client, cfg.Timeout)
		opts.Fetcher = client
		opts.Catalog = e.catalog
		opts.Publisher = client
		opts.Dependencies = client
	}
	return manager.New(opts)
}

func envBool(key string) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return false
	}
	switch strings.ToLower(val) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
