package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
	sosumihttp "github.com/NSHipster/sosumi.ai/http"
	"github.com/NSHipster/sosumi.ai/markdown"
	sosumiprom "github.com/NSHipster/sosumi.ai/prometheus"
	sosumiredis "github.com/NSHipster/sosumi.ai/redis"
	"github.com/NSHipster/sosumi.ai/robots"
	sosumislog "github.com/NSHipster/sosumi.ai/slog"
	"github.com/alecthomas/kong"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the server with the given arguments, serving until ctx is
// canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sosumi"),
		kong.Description("Serve developer documentation as Markdown for text-based tools"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{
			"default_addr":     sosumihttp.DefaultAddr,
			"default_upstream": sosumi.DefaultUpstream,
			"default_contact":  sosumi.ContactURL,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stdout, cli.LogLevel)

	// The upstream must itself pass target validation.
	upstream, err := sosumi.ParseTargetURL(cli.Upstream)
	if err != nil {
		return fmt.Errorf("invalid upstream %q: %w", cli.Upstream, err)
	}

	rules := sosumi.HostRules{
		Allow: sosumi.ParseHostList(cli.AllowHosts),
		Block: sosumi.ParseHostList(cli.BlockHosts),
	}
	// An allowlist must not lock out the operator's own upstream.
	if len(rules.Allow) > 0 {
		rules.Allow = append(rules.Allow, upstream.Hostname())
	}

	metrics := sosumiprom.New()

	userAgent := fmt.Sprintf("sosumi.ai/%s (+%s)", sosumi.Version, cli.ContactURL)
	client := sosumihttp.NewClient(
		sosumihttp.WithTimeout(cli.Timeout),
		sosumihttp.WithUserAgent(userAgent),
		sosumihttp.WithHostLimiter(sosumihttp.NewHostLimiter(cli.RatePerHost, cli.RateBurst)),
	)

	var cache sosumi.RobotsCache
	if cli.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cli.RedisAddr})
		defer rdb.Close()
		cache = sosumiredis.NewCache(rdb, sosumiredis.WithTTL(cli.RobotsTTL))
		logger.Info("using redis robots cache", "addr", cli.RedisAddr)
	} else {
		cache = robots.NewCache(
			robots.WithTTL(cli.RobotsTTL),
			robots.WithMaxEntries(cli.RobotsCacheSize),
		)
	}
	cache = sosumiprom.NewRobotsCache(cache, metrics)

	var robotsService sosumi.RobotsService = robots.NewResolver(
		sosumiprom.NewRobotsFetcher(client, metrics),
		cache,
		robots.WithUserAgent(userAgent),
	)
	robotsService = sosumiprom.NewRobotsService(robotsService, metrics)
	robotsService = sosumislog.NewLoggingRobotsService(robotsService, logger)

	var docs sosumi.DocumentService = sosumihttp.NewDocFetcher(client)
	docs = sosumiprom.NewDocumentService(docs, metrics)
	docs = sosumislog.NewLoggingDocumentService(docs, logger)

	gate := &sosumi.Gate{Rules: rules, Robots: robotsService}

	srv := sosumihttp.NewServer(gate, docs, markdown.NewRenderer(),
		sosumihttp.WithAddr(cli.Addr),
		sosumihttp.WithUpstream(upstream.Origin()),
		sosumihttp.WithLogger(logger),
		sosumihttp.WithMetricsHandler(metrics.Handler()),
		sosumihttp.WithInstrumentation(metrics.Instrument),
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr            string        `default:"${default_addr}" env:"SOSUMI_ADDR" help:"HTTP listen address"`
	Upstream        string        `default:"${default_upstream}" env:"SOSUMI_UPSTREAM" help:"Origin mirrored under the root routes"`
	AllowHosts      string        `env:"SOSUMI_ALLOW_HOSTS" help:"Comma-separated allowlist for external hosts"`
	BlockHosts      string        `env:"SOSUMI_BLOCK_HOSTS" help:"Comma-separated blocklist for external hosts"`
	RobotsTTL       time.Duration `default:"5m" env:"SOSUMI_ROBOTS_TTL" help:"How long robots.txt policies stay cached"`
	RobotsCacheSize int           `default:"256" env:"SOSUMI_ROBOTS_CACHE_SIZE" help:"Maximum origins in the in-memory robots cache"`
	RedisAddr       string        `env:"SOSUMI_REDIS_ADDR" help:"Redis address for a shared robots cache (host:port)"`
	RatePerHost     float64       `default:"2" env:"SOSUMI_RATE_PER_HOST" help:"Outbound requests per second per host"`
	RateBurst       int           `default:"4" env:"SOSUMI_RATE_BURST" help:"Outbound burst size per host"`
	Timeout         time.Duration `default:"10s" env:"SOSUMI_TIMEOUT" help:"Outbound request timeout"`
	ContactURL      string        `default:"${default_contact}" env:"SOSUMI_CONTACT_URL" help:"Contact URL advertised in the outbound User-Agent"`
	LogLevel        string        `default:"info" enum:"debug,info,warn,error" env:"SOSUMI_LOG_LEVEL" help:"Log level"`
}

const shutdownTimeout = 10 * time.Second

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
