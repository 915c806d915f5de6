// Package main provides the CLI entry point for the curl entry generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/curlgen/internal/assembler"
	"github.com/example/curlgen/internal/batch"
	"github.com/example/curlgen/internal/client"
	"github.com/example/curlgen/internal/config"
	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/loadctrl"
	"github.com/example/curlgen/internal/logger"
	"github.com/example/curlgen/internal/metrics"
	"github.com/example/curlgen/internal/output"
	"github.com/example/curlgen/internal/parser"
	"github.com/example/curlgen/internal/schema"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitMismatch = 2
)

// options holds the parsed command line.
type options struct {
	configPath     string
	curl           string
	commandFile    string
	count          int
	strategy       string
	seed           uint64
	random         bool
	sets           pairs
	cats           pairs
	replay         bool
	expect         int
	concurrency    int
	rate           float64
	format         string
	outFile        string
	outcomesFile   string
	parseOnly      bool
	schemaOnly     bool
	prometheusAddr string
	logLevel       string
	verbose        bool
	showVersion    bool

	// set records the flags given on the command line, by long name.
	set map[string]bool
}

// pairs collects repeatable path=value flags.
type pairs []string

func (p *pairs) String() string { return strings.Join(*p, ",") }

func (p *pairs) Set(v string) error {
	if k, _, ok := strings.Cut(v, "="); !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected path=value, got %q", v)
	}
	*p = append(*p, v)
	return nil
}

// aliases maps shorthand flags to their long names.
var aliases = map[string]string{
	"c": "config",
	"f": "file",
	"n": "count",
	"o": "out",
	"v": "verbose",
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("curlgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Input
	fs.StringVar(&opts.configPath, "config", "", "Path to the YAML configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to the YAML configuration file (shorthand)")
	fs.StringVar(&opts.curl, "curl", "", "curl command to generate entries for")
	fs.StringVar(&opts.commandFile, "file", "", "File holding the curl command, - for stdin")
	fs.StringVar(&opts.commandFile, "f", "", "File holding the curl command (shorthand)")

	// Generation
	fs.IntVar(&opts.count, "count", 0, "Number of entries to generate")
	fs.IntVar(&opts.count, "n", 0, "Number of entries to generate (shorthand)")
	fs.StringVar(&opts.strategy, "strategy", "", "Batch strategy: sequential or concurrent")
	fs.Uint64Var(&opts.seed, "seed", 0, "Seed of the random stream (0 = random)")
	fs.BoolVar(&opts.random, "random", false, "Default every field to random instead of its original value")
	fs.Var(&opts.sets, "set", "Static override path=value (repeatable)")
	fs.Var(&opts.cats, "cat", "Random override path=category (repeatable)")

	// Replay
	fs.BoolVar(&opts.replay, "replay", false, "Replay each entry against the request URL")
	fs.IntVar(&opts.expect, "expect", 0, "Expected HTTP status of replayed requests")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "In-flight cap of concurrent replay")
	fs.Float64Var(&opts.rate, "rate", 0, "Replay rate limit in requests per second")

	// Output
	fs.StringVar(&opts.format, "format", "", "Output format: json or csv")
	fs.StringVar(&opts.outFile, "out", "", "Output file (default stdout)")
	fs.StringVar(&opts.outFile, "o", "", "Output file (shorthand)")
	fs.StringVar(&opts.outcomesFile, "outcomes", "", "Replay outcomes JSON file")
	fs.StringVar(&opts.prometheusAddr, "prometheus", "", "Serve Prometheus metrics while running (e.g., :9090)")

	// Utility
	fs.BoolVar(&opts.parseOnly, "parse", false, "Print the parsed request and exit")
	fs.BoolVar(&opts.schemaOnly, "schema", false, "Print the field schema with inferred categories and exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() { printUsage(stderr) }
	return fs
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `curlgen - synthetic request entries from a curl command

USAGE:
    curlgen [-c config.yaml] [-curl '<command>' | -f file|-] [options]

DESCRIPTION:
    Parses a curl command, infers what each field of its JSON or form body
    holds, and generates entries of the same shape with realistic values.
    Entries can be replayed against the request URL.

INPUT:
    -config, -c <path>    YAML configuration file
    -curl <command>       curl command
    -file, -f <path>      File holding the curl command, - for stdin

GENERATION:
    -count, -n <n>        Entries to generate (default 10)
    -strategy <s>         sequential | concurrent
    -seed <n>             Deterministic random stream (0 = random)
    -random               Default every field to random instead of its original value
    -set path=value       Static override (repeatable)
    -cat path=category    Random override with an explicit category (repeatable)

REPLAY:
    -replay               Replay each entry against the request URL
    -expect <status>      Expected status (default 200)
    -concurrency <n>      In-flight cap for concurrent replay (default 10)
    -rate <qps>           Replay rate limit

OUTPUT:
    -format json|csv      Output format (default json)
    -out, -o <path>       Output file (default stdout)
    -outcomes <path>      Replay outcomes JSON file
    -prometheus <addr>    Serve /metrics while running (e.g., :9090)

UTILITY:
    -parse                Print the parsed request and exit
    -schema               Print the field schema and exit
    -log-level <level>    debug, info, warn, error
    -verbose, -v          Enable debug logging
    -version              Show version information
    -help, -h             Show this help message

EXIT CODES:
    0  success
    1  usage, configuration or parse error
    2  at least one replayed entry did not return the expected status

EXAMPLES:
    # Fifty entries with random values
    curlgen -n 50 -random -curl "curl -X POST https://api.example.com/tasks -d '{\"title\":\"x\"}'"

    # Keep the original title, generate emails
    curlgen -f request.sh -set title=Report -cat owner.email=email

    # Replay concurrently at 20 requests per second
    curlgen -c curlgen.yaml -replay -strategy concurrent -rate 20

CATEGORIES:
    %s
`, categoryList())
}

func categoryList() string {
	names := make([]string, 0, len(inference.KnownCategories()))
	for _, c := range inference.KnownCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "curlgen version %s\n", version)
	fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{}
	fs := newFlagSet(opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if fs.NArg() > 0 && opts.curl == "" && opts.commandFile == "" {
		opts.curl = strings.Join(fs.Args(), " ")
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		opts.set[name] = true
	})

	if opts.showVersion {
		printVersion(stdout)
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return exitError
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return exitError
	}
	defer func() {
		_ = log.Sync()
		_ = closeLog()
	}()

	command, err := cfg.ReadCommand(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return exitError
	}

	req, err := parser.Parse(command)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	log.Debug("parsed request",
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.Int("headers", req.Headers.Len()))

	if opts.parseOnly {
		return writeOrFail(stderr, output.WriteJSON(stdout, req))
	}

	s := schema.Extract(req.Body)
	if opts.schemaOnly {
		return writeOrFail(stderr, output.WriteJSON(stdout, describeSchema(s)))
	}

	return generate(ctx, cfg, req, s, log, stdout, stderr)
}

// loadConfig reads the configuration file, if any, and applies the flags
// given on the command line on top of it.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.set["curl"] {
		cfg.Command, cfg.CommandFile = opts.curl, ""
	} else if opts.set["file"] {
		cfg.Command, cfg.CommandFile = "", opts.commandFile
	} else if opts.curl != "" {
		cfg.Command, cfg.CommandFile = opts.curl, ""
	}
	if opts.set["count"] {
		cfg.Count = opts.count
	}
	if opts.set["strategy"] {
		cfg.Strategy = opts.strategy
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.random {
		cfg.Defaults = config.DefaultsRandom
	}
	for _, kv := range opts.sets {
		path, value, _ := strings.Cut(kv, "=")
		cfg.SetStatic(strings.TrimSpace(path), value)
	}
	for _, kv := range opts.cats {
		path, cat, _ := strings.Cut(kv, "=")
		cfg.SetCategory(strings.TrimSpace(path), inference.Category(strings.TrimSpace(cat)))
	}

	if opts.replay {
		cfg.Replay.Enabled = true
	}
	if opts.set["expect"] {
		cfg.Replay.ExpectedStatus = opts.expect
	}
	if opts.set["concurrency"] {
		cfg.Replay.Concurrency = opts.concurrency
	}
	if opts.set["rate"] {
		cfg.Replay.RateLimit = opts.rate
	}

	if opts.set["format"] {
		format, err := output.ParseFormat(opts.format)
		if err != nil {
			return nil, err
		}
		cfg.Output.Format = string(format)
	}
	if opts.set["out"] {
		cfg.Output.File = opts.outFile
	}
	if opts.set["outcomes"] {
		cfg.Output.OutcomesFile = opts.outcomesFile
	}
	if opts.set["prometheus"] {
		cfg.Metrics.Listen = opts.prometheusAddr
	}

	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// describeSchema lists every field with the category inference assigns it.
func describeSchema(s *schema.Schema) []*jsonx.Object {
	classifier := inference.NewClassifier()
	rows := make([]*jsonx.Object, 0, s.Len())
	for path, f := range s.All() {
		cat, rule := classifier.Explain(path, f.Kind)
		rows = append(rows, jsonx.ObjectOf(
			"path", path,
			"type", string(f.Kind),
			"originalValue", f.Value,
			"category", string(cat),
			"rule", rule,
		))
	}
	return rows
}

func generate(ctx context.Context, cfg *config.Config, req *parser.Request, s *schema.Schema, log *zap.Logger, stdout, stderr io.Writer) int {
	collector := metrics.NewCollector()
	if cfg.Metrics.Listen != "" {
		exporter := metrics.NewExporter(collector, cfg.Metrics.Listen, log)
		if err := exporter.Start(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := exporter.Stop(shutdownCtx); err != nil {
				log.Warn("stopping metrics exporter", zap.Error(err))
			}
		}()
	}

	gen := generator.New(generator.NewFakerSource(cfg.Seed))
	runnerOpts := []batch.Option{
		batch.WithCollector(collector),
		batch.WithLogger(log),
	}
	if cfg.Replay.Enabled {
		runnerOpts = append(runnerOpts,
			batch.WithSender(client.NewClient(cfg.ClientConfig(), client.WithLogger(log))),
			batch.WithLimiter(loadctrl.New(cfg.Replay.RateLimit, cfg.Replay.Burst)),
		)
	}
	runner := batch.NewRunner(assembler.New(gen), runnerOpts...)

	res, err := runner.Run(ctx, req, cfg.BatchOptions(cfg.FieldConfigs(s)))
	if res == nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	code := exitOK
	if err != nil {
		log.Warn("batch interrupted", zap.Error(err), zap.Int("entries", len(res.Entries)))
		code = exitError
	}

	if err := writeEntries(cfg, res.Entries, stdout); err != nil {
		fmt.Fprintf(stderr, "Error writing entries: %v\n", err)
		return exitError
	}

	if !cfg.Replay.Enabled {
		return code
	}
	if cfg.Output.OutcomesFile != "" {
		if err := writeFile(cfg.Output.OutcomesFile, func(w io.Writer) error {
			return output.WriteJSON(w, res.Outcomes)
		}); err != nil {
			fmt.Fprintf(stderr, "Error writing outcomes: %v\n", err)
			return exitError
		}
	}
	if err := metrics.WriteSummary(stderr, collector.Summary(), logger.IsTerminal(stderr)); err != nil {
		log.Warn("writing summary", zap.Error(err))
	}
	if code == exitOK && res.Mismatched() > 0 {
		code = exitMismatch
	}
	return code
}

func writeEntries(cfg *config.Config, entries []*jsonx.Object, stdout io.Writer) error {
	format := output.Format(cfg.Output.Format)
	if cfg.Output.File == "" {
		return output.Write(stdout, format, entries)
	}
	return writeFile(cfg.Output.File, func(w io.Writer) error {
		return output.Write(w, format, entries)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeOrFail(stderr io.Writer, err error) int {
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
