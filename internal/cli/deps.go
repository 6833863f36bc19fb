package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fabriziosalmi/domainmate/internal/config"
	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/httpclient"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
	"github.com/fabriziosalmi/domainmate/internal/worker"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
}

// buildDeps resolves config, logger, and output format.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Concurrency)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format := output.Format(cfg.Output)
	switch format {
	case output.FormatTable, output.FormatJSON, output.FormatPlain:
	default:
		return nil, fmt.Errorf("invalid output format %q: must be \"table\", \"json\", or \"plain\"", cfg.Output)
	}

	return &deps{cfg: cfg, logger: logger}, nil
}

// newHTTPClient creates an HTTP client configured with the proxy, user-agent,
// logger, and verbosity from the resolved config.
func (d *deps) newHTTPClient() (*req.Client, error) {
	client, err := httpclient.New(d.cfg.Proxy, d.cfg.UserAgent, d.logger, d.cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	return client, nil
}

// newResolver builds the resolution cascade from the configured standard and
// DoH endpoint pools.
func (d *deps) newResolver() (dnscore.Resolver, error) {
	registry, err := dnscore.NewRegistry(d.cfg.Nameservers, d.cfg.DoHEndpoints, d.cfg.AttemptTimeout)
	if err != nil {
		return nil, fmt.Errorf("building resolver pool: %w", err)
	}
	client, err := d.newHTTPClient()
	if err != nil {
		return nil, err
	}
	exchanger := dnscore.NewExchanger(registry.AttemptTimeout())
	return dnscore.NewCascade(registry, exchanger, client, d.logger), nil
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// resolveInputs returns positional args, or reads non-empty lines from stdin
// when no args are provided. Returns an error if stdin is an interactive
// terminal with no args (i.e. the user forgot to pass an argument or pipe
// input).
func resolveInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // uintptr→int is safe for file descriptors; they fit in int on all supported platforms
		return nil, fmt.Errorf("no input: pass an argument or pipe stdin")
	}
	return worker.ReadInputs(r)
}

// runMonitorCmd resolves inputs, runs the monitor over the worker pool, and
// writes either the single result or the monitor's aggregate.
func runMonitorCmd(cmd *cobra.Command, d *deps, m monitors.Monitor, args []string) error {
	inputs, err := resolveInputs(cmd, args)
	if err != nil {
		return err
	}

	results := worker.Run(cmd.Context(), m, inputs, d.cfg.Concurrency)

	collected := make([]monitors.Result, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Input, r.Err)
		}
		collected = append(collected, r.Output)
	}

	if len(collected) == 1 {
		return writeResult(cmd.OutOrStdout(), d, collected[0])
	}
	return writeResult(cmd.OutOrStdout(), d, m.AggregateResults(collected))
}
