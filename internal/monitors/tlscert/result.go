package tlscert

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// Result holds the certificate inspection outcome for one domain.
type Result struct {
	Domain   string    `json:"domain"`
	Subject  string    `json:"subject,omitempty"`
	Issuer   string    `json:"issuer,omitempty"`
	Version  string    `json:"tls_version,omitempty"`
	NotAfter time.Time `json:"not_after"`
	DaysLeft int       `json:"days_left"`
	// WeakProtocols lists deprecated TLS versions the server still accepts.
	WeakProtocols []string `json:"weak_protocols,omitempty"`
	Problem       string   `json:"problem,omitempty"`
}

// IsEmpty reports whether nothing could be observed about the certificate.
func (r *Result) IsEmpty() bool {
	return r.Problem == "" && r.NotAfter.IsZero()
}

// Status maps remaining lifetime onto the shared thresholds; connection and
// handshake failures are reported as error. A server accepting a deprecated
// protocol version is critical regardless of certificate lifetime.
func (r *Result) Status() monitors.Status {
	switch {
	case r.Problem != "":
		return monitors.StatusError
	case len(r.WeakProtocols) > 0:
		return monitors.StatusCritical
	case r.DaysLeft < 0:
		return monitors.StatusCritical
	case r.DaysLeft <= criticalDays:
		return monitors.StatusCritical
	case r.DaysLeft <= warningDays:
		return monitors.StatusWarning
	default:
		return monitors.StatusOK
	}
}

// Summary returns a one-line description of the certificate state.
func (r *Result) Summary() string {
	if r.Problem != "" {
		return fmt.Sprintf("%s: %s", r.Domain, r.Problem)
	}
	if len(r.WeakProtocols) > 0 {
		return fmt.Sprintf("%s: server accepts %s", r.Domain, strings.Join(r.WeakProtocols, ", "))
	}
	if r.DaysLeft < 0 {
		return fmt.Sprintf("%s: certificate expired %d days ago", r.Domain, -r.DaysLeft)
	}
	return fmt.Sprintf("%s: certificate expires in %d days", r.Domain, r.DaysLeft)
}

// WritePlain writes one line: domain, days left, expiry date, issuer, version.
func (r *Result) WritePlain(w io.Writer) error {
	if r.Problem != "" {
		_, err := fmt.Fprintf(w, "%s\terror\t%s\n", r.Domain, r.Problem)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
		r.Domain, r.DaysLeft, r.NotAfter.Format(time.DateOnly), r.Issuer, r.Version)
	return err
}

// WriteTable renders the certificate details as a field/value table.
func (r *Result) WriteTable(w io.Writer) error {
	table := output.NewWrappingTable(w, 32, 24)
	table.Header([]string{"Field", "Value"})
	var rows [][]string
	if r.Problem != "" {
		rows = [][]string{{"Problem", r.Problem}}
	} else {
		rows = [][]string{
			{"Subject", r.Subject},
			{"Issuer", r.Issuer},
			{"TLS version", r.Version},
			{"Expires", r.NotAfter.Format(time.DateOnly)},
			{"Days left", strconv.Itoa(r.DaysLeft)},
		}
		if len(r.WeakProtocols) > 0 {
			rows = append(rows, []string{"Weak protocols", strings.Join(r.WeakProtocols, ", ")})
		}
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult aggregates certificate results for multiple domains.
type MultiResult struct {
	monitors.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in one combined table.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		if r.Problem != "" {
			rows = append(rows, []string{r.Domain, "-", "-", "-", r.Problem})
			continue
		}
		rows = append(rows, []string{
			r.Domain, strconv.Itoa(r.DaysLeft), r.NotAfter.Format(time.DateOnly), r.Issuer, r.Version,
		})
	}
	table := output.NewGroupedWrappingTable(w, 32, 56)
	table.Header([]string{"Domain", "Days Left", "Expires", "Issuer", "TLS"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
