package cli

import (
	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/httpclient"
	"github.com/fabriziosalmi/domainmate/internal/monitors/domainexp"
	"github.com/fabriziosalmi/domainmate/internal/ratelimit"
)

func newExpiryCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "expiry [domain...]",
		Short:   "Check domain registration expiry via RDAP",
		GroupID: "monitors",
		Long: `Look up each domain's registration through the public RDAP bootstrap
service (rdap.org) and report the registrar and days until expiry.
Subdomains are reduced to their registered parent domain first.

Registrations expiring within 30 days are warnings; within 7 days, critical.
Requests are rate limited to stay within the shared service's limits.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Check registration expiry
  domainmate expiry example.com

  # Bulk input from stdin
  cat domains.txt | domainmate expiry --output json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			httpclient.AttachRateLimit(client, ratelimit.New(domainexp.DefaultRPS, domainexp.DefaultBurst))
			m := domainexp.NewMonitor(client, "", d.logger)
			return runMonitorCmd(cmd, d, m, args)
		},
	}
}
