// Package cli provides the Cobra command tree and output wiring for
// domainmate.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/config"
	"github.com/fabriziosalmi/domainmate/internal/version"
)

// newRootCmd builds the top-level Cobra command for domainmate.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// INVARIANT: Cobra only executes the innermost PersistentPreRunE in the
	// command chain. If a future subcommand defines its own PersistentPreRunE,
	// the root hook will NOT run and d will be zero-valued. Do not add
	// PersistentPreRunE to any subcommand without also re-calling buildDeps.
	var d deps

	cmd := &cobra.Command{
		Use:   "domainmate",
		Short: "domainmate — domain health auditing tool",
		Long: `Domainmate audits the operational health of domains: RBL listings, mail
authentication (SPF/DMARC), TLS certificate expiry, HTTP security headers,
and registration expiry.

DNS lookups run through a resolution cascade: an ordered pool of standard
resolvers, then DNS-over-HTTPS fallbacks. A domain is only reported clean
when a resolver authoritatively said so; blocked lookups are reported as
undetermined, never as clean.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.Version = version.Version
	cmd.SetVersionTemplate("domainmate version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "monitors", Title: "Monitors:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newCheckCmd(&d),
		newResolveCmd(&d),
		newRBLCmd(&d),
		newMailCmd(&d),
		newCertCmd(&d),
		newHeadersCmd(&d),
		newExpiryCmd(&d),
		newServeCmd(&d),
		newMonitorsCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with the given arguments and
// streams. args is the full argv including the program name.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args[1:])
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
