package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hanpama/bookgraph/internal/config"
	"github.com/hanpama/bookgraph/internal/eventbus"
	"github.com/hanpama/bookgraph/internal/executor"
	"github.com/hanpama/bookgraph/internal/introspection"
	"github.com/hanpama/bookgraph/internal/library"
	"github.com/hanpama/bookgraph/internal/logging"
	"github.com/hanpama/bookgraph/internal/metrics"
	"github.com/hanpama/bookgraph/internal/otel"
	"github.com/hanpama/bookgraph/internal/schema"
	"github.com/hanpama/bookgraph/internal/server"
	"github.com/hanpama/bookgraph/internal/store"
)

const rootUsage = `bookgraph - GraphQL server for authors and books

USAGE:
  bookgraph <command> [flags]

COMMANDS:
  serve            Run the HTTP GraphQL server on an in-memory library
  print-schema     Print the GraphQL schema as SDL
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -config <file>                      YAML config file; flags override its values
  -server.addr <addr>                 HTTP listen address (default: :5000)
  -server.path <path>                 GraphQL endpoint path (default: /graphql)
  -server.pretty                      Pretty-print JSON responses
  -server.timeout <duration>          Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body-bytes N            Request body limit in bytes (default: 1048576)
  -server.cors-origins <a,b>          Comma-separated allowed CORS origins
  -graphql.graphiql <bool>            Serve GraphiQL to browsers (default: true)
  -graphql.introspection <bool>       Enable GraphQL introspection (default: true)
  -log.level <level>                  trace|debug|info|warn|error (default: info)
  -log.format <format>                json|console (default: json)
  -metrics.enabled                    Serve Prometheus metrics on a separate listener
  -metrics.addr <addr>                Metrics listen address (default: :9090)
  -metrics.path <path>                Metrics path (default: /metrics)
  -otel.endpoint <addr>               OTLP collector endpoint
  -otel.service <name>                OpenTelemetry service name (default: bookgraph)
  -otel.insecure <bool>               Use a plaintext OTLP connection (default: true)
`

const printSchemaUsage = `print-schema FLAGS:
  -out <file>              Write SDL to file (default: stdout)
`

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bookgraph")
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("bookgraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "print-schema":
		return cmdPrintSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "print-schema":
		fmt.Print(printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// csvFlag replaces a string slice with a comma-separated value.
type csvFlag struct{ list *[]string }

func (c csvFlag) String() string {
	if c.list == nil {
		return ""
	}
	return strings.Join(*c.list, ",")
}

func (c csvFlag) Set(v string) error {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*c.list = out
	return nil
}

// parseServeConfig builds the serve configuration: defaults, then the
// optional -config file, then any explicitly set flags.
func parseServeConfig(args []string) (config.Config, error) {
	cfg := config.Default()
	configPath := ""

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configPath, "config", configPath, "YAML config file")
	fs.StringVar(&cfg.Server.Addr, "server.addr", cfg.Server.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Server.Path, "server.path", cfg.Server.Path, "GraphQL endpoint path")
	fs.BoolVar(&cfg.Server.Pretty, "server.pretty", cfg.Server.Pretty, "Pretty-print JSON responses")
	fs.DurationVar(&cfg.Server.Timeout, "server.timeout", cfg.Server.Timeout, "Per-request timeout")
	fs.Int64Var(&cfg.Server.MaxBodyBytes, "server.max-body-bytes", cfg.Server.MaxBodyBytes, "Request body limit")
	fs.Var(csvFlag{&cfg.Server.CORSOrigins}, "server.cors-origins", "Allowed CORS origins")
	fs.BoolVar(&cfg.GraphQL.GraphiQL, "graphql.graphiql", cfg.GraphQL.GraphiQL, "Serve GraphiQL")
	fs.BoolVar(&cfg.GraphQL.Introspection, "graphql.introspection", cfg.GraphQL.Introspection, "Enable GraphQL introspection")
	fs.StringVar(&cfg.Log.Level, "log.level", cfg.Log.Level, "Log level")
	fs.StringVar(&cfg.Log.Format, "log.format", cfg.Log.Format, "Log format")
	fs.BoolVar(&cfg.Metrics.Enabled, "metrics.enabled", cfg.Metrics.Enabled, "Serve Prometheus metrics")
	fs.StringVar(&cfg.Metrics.Addr, "metrics.addr", cfg.Metrics.Addr, "Metrics listen address")
	fs.StringVar(&cfg.Metrics.Path, "metrics.path", cfg.Metrics.Path, "Metrics path")
	fs.StringVar(&cfg.Telemetry.Endpoint, "otel.endpoint", cfg.Telemetry.Endpoint, "OTLP collector endpoint")
	fs.StringVar(&cfg.Telemetry.ServiceName, "otel.service", cfg.Telemetry.ServiceName, "OpenTelemetry service name")
	fs.BoolVar(&cfg.Telemetry.Insecure, "otel.insecure", cfg.Telemetry.Insecure, "Plaintext OTLP connection")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if configPath != "" {
		set := map[string]string{}
		fs.Visit(func(f *flag.Flag) {
			if f.Name != "config" {
				set[f.Name] = f.Value.String()
			}
		})
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		// Flags are bound to cfg's fields, so re-applying them after the
		// file overwrites cfg gives flags precedence.
		cfg = loaded
		for name, value := range set {
			if err := fs.Set(name, value); err != nil {
				return cfg, err
			}
		}
	}
	return cfg, cfg.Validate()
}

func cmdServe(args []string) error {
	cfg, err := parseServeConfig(args)
	if err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.Logger = logger

	eventbus.Use(eventbus.New())
	defer logging.Attach(logger)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := otel.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName, cfg.Telemetry.Insecure)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownOtel(context.Background()) }()

	st := store.NewSeeded()
	handler, err := newHandler(cfg, st)
	if err != nil {
		return err
	}

	servers := []*http.Server{{Addr: cfg.Server.Addr, Handler: handler}}
	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics.Namespace)
		m.ObserveStore(cfg.Metrics.Namespace, st)
		defer m.Attach()()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		servers = append(servers, &http.Server{Addr: cfg.Metrics.Addr, Handler: mux})
	}

	return serve(ctx, servers)
}

// newHandler wires the library runtime and schema into an HTTP mux that
// serves GraphQL on the configured path.
func newHandler(cfg config.Config, st *store.Store) (http.Handler, error) {
	sch, err := library.NewSchema()
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	var runtime executor.Runtime = library.NewRuntime(st)

	if cfg.GraphQL.Introspection {
		wrapper := introspection.Wrap(runtime, sch)
		runtime = wrapper.Runtime
		sch = wrapper.Schema
	}

	sopts := []server.Option{server.WithGraphiQL(cfg.GraphQL.GraphiQL)}
	if cfg.Server.Pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if cfg.Server.Timeout > 0 {
		sopts = append(sopts, server.WithTimeout(cfg.Server.Timeout))
	}
	if cfg.Server.MaxBodyBytes > 0 {
		sopts = append(sopts, server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes))
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(cfg.Server.CORSOrigins...))
	}
	h, err := server.New(runtime, sch, sopts...)
	if err != nil {
		return nil, fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, h)
	return mux, nil
}

// serve runs every server until ctx is done or one of them fails, then
// shuts all of them down.
func serve(ctx context.Context, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(sctx))
		}
		log.Info().Msg("server stopped")
		return errors.Join(errs...)
	})
	return g.Wait()
}

func cmdPrintSchema(args []string) error {
	outFile := ""
	fs := flag.NewFlagSet("print-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return err
	}

	sch, err := library.NewSchema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	return writeSchema(os.Stdout, outFile, sch)
}

func writeSchema(stdout io.Writer, outFile string, sch *schema.Schema) error {
	sdl := schema.Render(sch)
	if outFile == "" {
		_, err := io.WriteString(stdout, sdl)
		return err
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
