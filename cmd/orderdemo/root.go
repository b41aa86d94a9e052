package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/logtrace"
	"github.com/zoobzio/logtrace/internal/config"
	"github.com/zoobzio/logtrace/internal/logging"
	"github.com/zoobzio/logtrace/internal/order"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orderdemo",
	Short: "Run a traced order flow.",
	Long: `orderdemo runs a controller -> service -> repository order flow ` +
		`with every call traced as an indented call tree. Use "serve" to ` +
		`expose it over HTTP and "race" to compare trace strategies under ` +
		`concurrent requests.`,
	SilenceUsage: true,
}

var rootFlags struct {
	envFile   string
	strategy  string
	logFormat string
	verbosity int
	saveDelay time.Duration
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.envFile, "env-file", ".env", "file to load LOGTRACE_* variables from")
	pf.StringVar(&rootFlags.strategy, "strategy", "", "trace strategy: context or field")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "log format: console, json or std")
	pf.IntVarP(&rootFlags.verbosity, "verbosity", "v", 0, "log verbosity")
	pf.DurationVar(&rootFlags.saveDelay, "save-delay", 0, "simulated repository latency")

	rootCmd.AddCommand(serveCmd, raceCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(rootFlags.envFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = config.Strategy(rootFlags.strategy)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = rootFlags.logFormat
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity = rootFlags.verbosity
	}
	if flags.Changed("save-delay") {
		cfg.SaveDelay = rootFlags.saveDelay
	}
	return cfg, cfg.Validate()
}

// app is the wired order flow.
type app struct {
	cfg        config.Config
	log        logr.Logger
	flush      func()
	tracer     config.Tracer
	collector  *logtrace.Collector
	service    *order.Service
	controller *order.Controller
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, flush, err := logging.New(logging.Config{
		Output:    cmd.ErrOrStderr(),
		Format:    logging.Format(cfg.LogFormat),
		Verbosity: cfg.Verbosity,
	})
	if err != nil {
		return nil, err
	}

	tracer, err := cfg.NewTracer(log)
	if err != nil {
		flush()
		return nil, err
	}

	collector := logtrace.NewCollector(256, cfg.CollectorLimit)
	tracer.OnEntry(collector.Collect)

	repo := order.NewRepository(tracer, clockz.RealClock, cfg.SaveDelay)
	service := order.NewService(repo, tracer)

	return &app{
		cfg:        cfg,
		log:        log,
		flush:      flush,
		tracer:     tracer,
		collector:  collector,
		service:    service,
		controller: order.NewController(service, tracer),
	}, nil
}

func (a *app) Close() {
	a.tracer.Close()
	a.collector.Close()
	a.flush()
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
