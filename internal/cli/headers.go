package cli

import (
	"github.com/spf13/cobra"

	headerssvc "github.com/fabriziosalmi/domainmate/internal/monitors/headers"
)

func newHeadersCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "headers [domain...]",
		Short:   "Audit HTTP security response headers",
		GroupID: "monitors",
		Long: `Request each domain over HTTPS and audit its security response headers:
Strict-Transport-Security, Content-Security-Policy, X-Frame-Options, and
X-Content-Type-Options. Headers that leak implementation details (Server,
X-Powered-By, X-AspNet-Version) are flagged too.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Audit a site's headers
  domainmate headers example.com

  # Bulk input from stdin
  cat domains.txt | domainmate headers --output json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			m := headerssvc.NewMonitor(client, d.logger)
			return runMonitorCmd(cmd, d, m, args)
		},
	}
}
