package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/dialer"
	"github.com/fabriziosalmi/domainmate/internal/monitors/tlscert"
)

func newCertCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "cert [domain[:port]...]",
		Short:   "Inspect TLS certificates and their remaining lifetime",
		GroupID: "monitors",
		Long: `Connect to each domain's HTTPS port (or an explicit port) and inspect the
presented certificate: subject, issuer, negotiated TLS version, and days
until expiry.

Certificates expiring within 30 days are warnings; within 7 days, critical.
A socks5:// proxy configured via --proxy is honoured for the connection.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Inspect a certificate
  domainmate cert example.com

  # Non-standard port
  domainmate cert mail.example.com:8443

  # Bulk input from stdin
  cat domains.txt | domainmate cert --output json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cd, err := dialer.New(proxyForDialer(d.cfg.Proxy), d.cfg.AttemptTimeout)
			if err != nil {
				return err
			}
			m := tlscert.NewMonitor(cd, nil, d.logger)
			return runMonitorCmd(cmd, d, m, args)
		},
	}
}

// proxyForDialer passes socks5 proxies to the raw TCP dialer; HTTP proxies
// only apply to HTTP clients and are ignored here.
func proxyForDialer(proxy string) string {
	if strings.HasPrefix(proxy, "socks5") {
		return proxy
	}
	return ""
}
