package cli

import (
	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/monitors/mailauth"
)

func newMailCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "mail [domain...]",
		Short:   "Check SPF and DMARC records for domains",
		GroupID: "monitors",
		Long: `Check the mail authentication posture of one or more domains: the apex TXT
record set for SPF (v=spf1) and the _dmarc subdomain for DMARC (v=DMARC1).

Lookups run through the resolution cascade. A record is only reported
missing when a resolver authoritatively answered; lookups blocked on every
channel are reported as unknown.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Check SPF and DMARC for a domain
  domainmate mail example.com

  # Bulk input from stdin
  cat domains.txt | domainmate mail --output json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := d.newResolver()
			if err != nil {
				return err
			}
			m := mailauth.NewMonitor(resolver, d.logger)
			return runMonitorCmd(cmd, d, m, args)
		},
	}
}
