// Package cli implements the triptych command line: it loads configuration,
// wires the executor stack and renders comparisons as tables.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/infrastructure/catalog"
	"github.com/ahrav/go-triptych/infrastructure/gemini"
	"github.com/ahrav/go-triptych/infrastructure/store"
	"github.com/ahrav/go-triptych/internal/application"
	"github.com/ahrav/go-triptych/internal/logging"
	"github.com/ahrav/go-triptych/internal/ports"
)

// IOStreams are the standard streams a command reads from and writes to.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// ExecutorFactory builds the innermost executor for apiKey. Middleware is
// layered on top by the caller.
type ExecutorFactory func(ctx context.Context, cfg *application.AppConfig, apiKey string) (ports.Executor, error)

// app is the state shared by every subcommand of one invocation.
type app struct {
	streams IOStreams

	cfgFile   string
	logLevel  string
	logFormat string
	storePath string
	noColor   bool

	cfg     *application.AppConfig
	catalog *catalog.Catalog
	kv      *store.BoltStore
	store   *store.Store

	newExecutor ExecutorFactory
	now         func() time.Time
}

// Option customizes the root command, mainly for tests.
type Option func(*app)

// WithExecutorFactory replaces the Gemini executor factory.
func WithExecutorFactory(f ExecutorFactory) Option {
	return func(a *app) { a.newExecutor = f }
}

// WithClock replaces the wall clock used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// Execute runs the root command against the process streams.
func Execute() error {
	return NewRootCommand(IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}).Execute()
}

// NewRootCommand creates the `triptych` command tree.
func NewRootCommand(streams IOStreams, opts ...Option) *cobra.Command {
	a := &app{
		streams:     streams,
		catalog:     catalog.Default(),
		newExecutor: defaultExecutorFactory,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	cmd := &cobra.Command{
		Use:   "triptych",
		Short: "Compare Gemini models side by side",
		Long: `triptych sends one prompt to up to three Gemini models at the same time and
compares their responses: latency, estimated tokens and cost, readability,
safety ratings and how similar the answers are to each other.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&a.storePath, "store", "", "path of the local database")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		a.newRunCommand(),
		a.newModelsCommand(),
		a.newTemplatesCommand(),
		a.newHistoryCommand(),
		a.newKeyCommand(),
		a.newPingCommand(),
		a.newDraftCommand(),
	)
	a.closeAfterRun(cmd)
	return cmd
}

// closeAfterRun wraps every RunE in the tree so the store is closed when the
// command returns, whether or not it failed.
func (a *app) closeAfterRun(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		a.closeAfterRun(c)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		return errors.Join(err, a.teardown())
	}
}

// setup loads configuration and configures logging.
func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}
	logging.SetOutput(a.streams.ErrOut)

	loader, err := application.NewConfigLoader(application.DefaultConfig(catalog.DefaultSelection()))
	if err != nil {
		return err
	}
	cfg, err := loader.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.storePath != "" {
		cfg.StorePath = a.storePath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	a.cfg = cfg

	logging.Logger.WithField("config", a.cfgFile).Debug("configuration loaded")
	return nil
}

func (a *app) teardown() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv, a.store = nil, nil
	return err
}

// openStore opens the local database on first use.
func (a *app) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	kv, err := store.OpenBolt(a.cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", a.cfg.StorePath, err)
	}
	a.kv = kv
	a.store = store.New(kv)
	return a.store, nil
}

// errNoAPIKey explains how to provide a credential.
var errNoAPIKey = errors.New("no API key: set " + application.EnvAPIKey + ", api_key in the config file, or run 'triptych key set'")

// resolveAPIKey prefers the configured key and falls back to the stored one.
func (a *app) resolveAPIKey(ctx context.Context) (string, string, error) {
	if key := strings.TrimSpace(a.cfg.APIKey); key != "" {
		return key, "config", nil
	}
	s, err := a.openStore()
	if err != nil {
		return "", "", err
	}
	key, err := s.LoadAPIKey(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", "", errNoAPIKey
		}
		return "", "", err
	}
	return key, "store", nil
}

func defaultExecutorFactory(ctx context.Context, cfg *application.AppConfig, apiKey string) (ports.Executor, error) {
	gcfg := gemini.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{},
		Catalog:    catalog.Default(),
	}
	if cfg.Transport == application.TransportGenAI {
		t, err := gemini.NewGenAITransport(ctx, cfg.BaseURL, apiKey, gcfg.HTTPClient)
		if err != nil {
			return nil, err
		}
		gcfg.Transport = t
	}
	return gemini.NewExecutor(gcfg)
}

// buildExecutor wraps the factory's executor in tracing, optional metrics
// and the configured timeout, outermost first.
func (a *app) buildExecutor(ctx context.Context, apiKey string, collector ports.MetricsCollector) (ports.Executor, ports.Executor, error) {
	base, err := a.newExecutor(ctx, a.cfg, apiKey)
	if err != nil {
		return nil, nil, err
	}
	mws := []gemini.Middleware{gemini.TracingMiddleware("triptych")}
	if collector != nil {
		mws = append(mws, gemini.MetricsMiddleware(collector))
	}
	mws = append(mws, gemini.TimeoutMiddleware(a.cfg.Timeout))
	return gemini.Chain(base, mws...), base, nil
}
