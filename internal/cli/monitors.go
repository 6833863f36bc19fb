package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/monitors/blacklist"
	"github.com/fabriziosalmi/domainmate/internal/monitors/domainexp"
	headerssvc "github.com/fabriziosalmi/domainmate/internal/monitors/headers"
	"github.com/fabriziosalmi/domainmate/internal/monitors/mailauth"
	"github.com/fabriziosalmi/domainmate/internal/monitors/tlscert"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

type monitorEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// allMonitors returns the monitor suite in execution order.
func allMonitors() []monitorEntry {
	return []monitorEntry{
		{blacklist.Name, "RBL blackhole list listings"},
		{mailauth.Name, "SPF and DMARC records"},
		{tlscert.Name, "TLS certificate expiry"},
		{headerssvc.Name, "HTTP security response headers"},
		{domainexp.Name, "domain registration expiry (RDAP)"},
	}
}

// monitorList renders the monitor catalogue.
type monitorList []monitorEntry

// MarshalJSON serializes the list as a JSON array.
func (l monitorList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]monitorEntry(l))
}

// WritePlain writes one line per monitor: name, description.
func (l monitorList) WritePlain(w io.Writer) error {
	for _, e := range l {
		if _, err := io.WriteString(w, e.Name+"\t"+e.Description+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders the catalogue as a table.
func (l monitorList) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, e := range l {
		rows = append(rows, []string{e.Name, e.Description})
	}
	table := output.NewWrappingTable(w, 32, 24)
	table.Header([]string{"Monitor", "Description"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func newMonitorsCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "monitors",
		Short:   "List the available monitors",
		Args:    cobra.NoArgs,
		GroupID: "utility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, monitorList(allMonitors()))
		},
	}
}
