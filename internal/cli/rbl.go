package cli

import (
	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/monitors/blacklist"
)

func newRBLCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "rbl [domain|ip...]",
		Short:   "Check domains or IPs against RBL blackhole lists",
		GroupID: "monitors",
		Long: `Check one or more domains or IP addresses against the configured RBL
blackhole list zones. Domains are first resolved to an IPv4 address through
the resolution cascade.

A zone verdict is one of:

  clean    the zone authoritatively reported the address as not listed
  listed   the zone returned one or more listing codes
  blocked  no authoritative answer could be obtained on any channel

Answers that only signal resolver policy (public-resolver refusals, PBL
policy codes) never count as listings. Blocked zones are reported as
undetermined, never as clean.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Check a domain against the default zones
  domainmate rbl example.com

  # Check an IP address directly
  domainmate rbl 203.0.113.9

  # Only query specific zones
  domainmate rbl --rbl-zone zen.spamhaus.org example.com

  # Bulk input from stdin, JSON output
  cat domains.txt | domainmate rbl --output json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := d.newResolver()
			if err != nil {
				return err
			}
			m := blacklist.NewMonitor(resolver, d.cfg.RBLZones, d.logger)
			return runMonitorCmd(cmd, d, m, args)
		},
	}
}
