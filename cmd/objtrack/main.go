package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/objtrack/config"
	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/layer"
	"github.com/wippyai/objtrack/metrics"
	"github.com/wippyai/objtrack/trace"
)

type options struct {
	tracePath   string
	configPath  string
	variant     string
	catalog     string
	metricsAddr string
	blocking    bool
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.tracePath, "trace", "", "Path to a YAML call trace")
	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&opts.variant, "variant", "", "Target variant (vulkan, vulkansc)")
	flag.StringVar(&opts.catalog, "catalog", "", "Extra VUID catalog (YAML/JSON list or validusage.json)")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address until interrupted")
	flag.BoolVar(&opts.blocking, "blocking", false, "Skip calls that fail validation")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.tracePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: objtrack -trace <calls.yaml> [-config file] [-variant vulkan|vulkansc] [-blocking]")
		fmt.Fprintln(os.Stderr, "       objtrack -trace <calls.yaml> -metrics-addr :9090")
		fmt.Fprintln(os.Stderr, "       objtrack -trace <calls.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	code, err := run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

// loadConfig layers the config file, the environment, the trace header and
// explicit flags, in increasing precedence.
func loadConfig(opts options, tf *trace.File) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if tf.Variant != "" {
		cfg.Variant = tf.Variant
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variant":
			cfg.Variant = opts.variant
		case "catalog":
			cfg.CatalogPath = opts.catalog
		case "metrics-addr":
			cfg.MetricsAddr = opts.metricsAddr
		case "blocking":
			cfg.Blocking = opts.blocking
		}
	})
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func run(opts options) (int, error) {
	tf, err := trace.Load(opts.tracePath)
	if err != nil {
		return 0, err
	}
	cfg, err := loadConfig(opts, tf)
	if err != nil {
		return 0, err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return 0, err
	}
	defer log.Sync()
	layer.SetLogger(log)

	collector := metrics.New()
	ly, err := layer.New(cfg, layer.WithLogger(log), layer.WithMetrics(collector), layer.WithoutLogReporter())
	if err != nil {
		return 0, err
	}
	defer ly.Close()

	steps, err := tf.Decode(ly.Tracker().Schema())
	if err != nil {
		return 0, err
	}

	if opts.interactive {
		return 0, runInteractive(opts.tracePath, ly, steps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv, err = serveMetrics(cfg.MetricsAddr, collector, log)
		if err != nil {
			return 0, err
		}
	}

	outcomes, err := trace.Replay(ctx, ly, steps)
	if err != nil {
		return 0, err
	}
	p := newPrinter(os.Stdout)
	errorsSeen := p.print(opts.tracePath, cfg, outcomes)

	if srv != nil {
		log.Info("serving metrics until interrupted", zap.String("addr", cfg.MetricsAddr))
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return 0, err
		}
	}

	if errorsSeen > 0 {
		return 2, nil
	}
	return 0, nil
}

func serveMetrics(addr string, c *metrics.Collector, log *zap.Logger) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return srv, nil
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes replay results, styled only when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, styled: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// print writes every diagnostic and a per-kind summary. It returns the
// number of error-severity diagnostics.
func (p *printer) print(path string, cfg config.Config, outcomes []trace.Outcome) int {
	fmt.Fprintf(p.w, "%s %s (%s, blocking=%t)\n\n", p.render(headerStyle, "objtrack"), path, cfg.Variant, cfg.Blocking)

	byKind := make(map[diag.Kind]int)
	total, errs := 0, 0
	for _, o := range outcomes {
		for _, d := range o.Diag.Diagnostics {
			total++
			byKind[d.Kind]++
			if d.Severity == diag.SeverityError {
				errs++
			}
			fmt.Fprintf(p.w, "#%-4d %s %s\n      %s %s\n",
				o.Index,
				p.render(commandStyle, o.Command),
				p.render(ruleStyle, d.RuleID),
				p.render(dimStyle, d.Location),
				d.Message)
		}
		if o.Result.IsError() {
			fmt.Fprintf(p.w, "#%-4d %s returned %s\n", o.Index, p.render(commandStyle, o.Command), p.render(errorStyle, o.Result.String()))
		}
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	fmt.Fprintf(p.w, "\n%d calls, %d diagnostics (%d errors)\n", len(outcomes), total, errs)
	for _, k := range kinds {
		fmt.Fprintf(p.w, "  %-20s %d\n", k, byKind[diag.Kind(k)])
	}
	return errs
}
