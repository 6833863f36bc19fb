package cli

import (
	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/api"
	"github.com/fabriziosalmi/domainmate/internal/notify"
	"github.com/fabriziosalmi/domainmate/internal/version"
)

func newServeCmd(d *deps) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the monitor suite over an HTTP API",
		GroupID: "utility",
		Long: `Start an HTTP server exposing the monitor suite:

  POST /analyze      run monitors against a domain ({"domain": ..., "skip": [...]})
  POST /notify/test  send a test message through the configured channels
  GET  /health       liveness and uptime
  GET  /metrics      monitor count and version

Actionable findings from an analyze request are dispatched to the
configured notification channels in the background, with the same
once-a-day muting as 'check --notify'.

The server speaks plain HTTP and binds to localhost by default; put a
reverse proxy in front of it for TLS or authentication.`,
		Example: `  # Serve on the default address
  domainmate serve

  # Bind to a specific address
  domainmate serve --listen 0.0.0.0:8000

  # Trigger an audit
  curl -X POST localhost:8000/analyze -d '{"domain": "example.com"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := d.buildMonitors(nil)
			if err != nil {
				return err
			}
			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}

			srv := api.New(&api.Config{
				ListenAddress: listen,
				Monitors:      ms,
				Notifier:      notify.NewService(client, d.cfg.Notify, d.logger),
				Logger:        d.logger,
				Version:       version.Version,
			})
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8000", "address to bind the HTTP server to")
	return cmd
}
