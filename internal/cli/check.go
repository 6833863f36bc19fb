package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/audit"
	"github.com/fabriziosalmi/domainmate/internal/dialer"
	"github.com/fabriziosalmi/domainmate/internal/httpclient"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/monitors/blacklist"
	"github.com/fabriziosalmi/domainmate/internal/monitors/domainexp"
	headerssvc "github.com/fabriziosalmi/domainmate/internal/monitors/headers"
	"github.com/fabriziosalmi/domainmate/internal/monitors/mailauth"
	"github.com/fabriziosalmi/domainmate/internal/monitors/tlscert"
	"github.com/fabriziosalmi/domainmate/internal/notify"
	"github.com/fabriziosalmi/domainmate/internal/ratelimit"
	"github.com/fabriziosalmi/domainmate/internal/report"
)

func newCheckCmd(d *deps) *cobra.Command {
	var (
		doNotify bool
		doReport bool
		skip     []string
	)

	cmd := &cobra.Command{
		Use:     "check [domain...]",
		Short:   "Run every monitor against domains and aggregate the findings",
		GroupID: "monitors",
		Long: `Run the full monitor suite against one or more domains: RBL listings,
SPF/DMARC records, TLS certificate expiry, HTTP security headers, and
registration expiry. Findings are aggregated per domain.

With --report, an HTML report is written to the report directory. With
--notify, actionable findings are sent to the configured notification
channels; a finding already notified within the last day is muted. When a
heartbeat URL is configured, it is pinged after a completed run.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Domains are audited concurrently (see --concurrency); each
domain's monitors run in order.`,
		Example: `  # Full audit of one domain
  domainmate check example.com

  # Bulk audit with HTML report
  cat domains.txt | domainmate check --report

  # Scheduled run with notifications
  domainmate check --notify example.com example.org

  # Skip slow monitors
  domainmate check --skip expiry,cert example.com`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}

			ms, err := d.buildMonitors(skip)
			if err != nil {
				return err
			}

			runner := audit.NewRunner(ms, d.cfg.Concurrency, d.logger)
			rep := runner.Audit(cmd.Context(), inputs)

			if err := writeResult(cmd.OutOrStdout(), d, rep); err != nil {
				return err
			}

			if doReport {
				dir := d.cfg.ReportDir
				if dir == "" {
					dir = "reports"
				}
				path, err := report.Generate(rep, dir)
				if err != nil {
					return err
				}
				d.logger.Info("report written", "path", path)
			}

			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			if doNotify {
				svc := notify.NewService(client, d.cfg.Notify, d.logger)
				if err := svc.Dispatch(cmd.Context(), rep); err != nil {
					return err
				}
			}
			return notify.Heartbeat(cmd.Context(), client, d.cfg.HeartbeatURL, d.logger)
		},
	}

	cmd.Flags().BoolVar(&doNotify, "notify", false, "send actionable findings to the configured channels")
	cmd.Flags().BoolVar(&doReport, "report", false, "write an HTML report to the report directory")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "monitors to skip (blacklist, mail, cert, headers, expiry)")
	return cmd
}

// buildMonitors wires the full monitor suite, minus any skipped names.
func (d *deps) buildMonitors(skip []string) ([]monitors.Monitor, error) {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	resolver, err := d.newResolver()
	if err != nil {
		return nil, err
	}
	client, err := d.newHTTPClient()
	if err != nil {
		return nil, err
	}
	rdapClient, err := d.newHTTPClient()
	if err != nil {
		return nil, err
	}
	httpclient.AttachRateLimit(rdapClient, ratelimit.New(domainexp.DefaultRPS, domainexp.DefaultBurst))
	cd, err := dialer.New(proxyForDialer(d.cfg.Proxy), d.cfg.AttemptTimeout)
	if err != nil {
		return nil, err
	}

	all := []monitors.Monitor{
		blacklist.NewMonitor(resolver, d.cfg.RBLZones, d.logger),
		mailauth.NewMonitor(resolver, d.logger),
		tlscert.NewMonitor(cd, nil, d.logger),
		headerssvc.NewMonitor(client, d.logger),
		domainexp.NewMonitor(rdapClient, "", d.logger),
	}

	var out []monitors.Monitor
	for _, m := range all {
		if !skipped[m.Name()] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--skip excludes every monitor")
	}
	return out, nil
}
