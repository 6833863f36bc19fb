package domainexp

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// Result holds the registration expiry outcome for one domain.
type Result struct {
	Domain    string    `json:"domain"`
	Registrar string    `json:"registrar,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	DaysLeft  int       `json:"days_left"`
	Problem   string    `json:"problem,omitempty"`
}

// IsEmpty reports whether nothing could be observed.
func (r *Result) IsEmpty() bool {
	return r.Problem == "" && r.ExpiresAt.IsZero()
}

// Status maps remaining registration lifetime onto the shared thresholds;
// RDAP failures are reported as error.
func (r *Result) Status() monitors.Status {
	switch {
	case r.Problem != "":
		return monitors.StatusError
	case r.DaysLeft <= criticalDays:
		return monitors.StatusCritical
	case r.DaysLeft <= warningDays:
		return monitors.StatusWarning
	default:
		return monitors.StatusOK
	}
}

// Summary returns a one-line description of the registration state.
func (r *Result) Summary() string {
	if r.Problem != "" {
		return fmt.Sprintf("%s: %s", r.Domain, r.Problem)
	}
	if r.DaysLeft < 0 {
		return fmt.Sprintf("%s: registration expired %d days ago", r.Domain, -r.DaysLeft)
	}
	return fmt.Sprintf("%s: registration expires in %d days", r.Domain, r.DaysLeft)
}

// WritePlain writes one line: domain, days left, expiry date, registrar.
func (r *Result) WritePlain(w io.Writer) error {
	if r.Problem != "" {
		_, err := fmt.Fprintf(w, "%s\terror\t%s\n", r.Domain, r.Problem)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
		r.Domain, r.DaysLeft, r.ExpiresAt.Format(time.DateOnly), r.Registrar)
	return err
}

// WriteTable renders the registration details as a field/value table.
func (r *Result) WriteTable(w io.Writer) error {
	table := output.NewWrappingTable(w, 32, 24)
	table.Header([]string{"Field", "Value"})
	var rows [][]string
	if r.Problem != "" {
		rows = [][]string{{"Problem", r.Problem}}
	} else {
		rows = [][]string{
			{"Registrar", r.Registrar},
			{"Expires", r.ExpiresAt.Format(time.DateOnly)},
			{"Days left", strconv.Itoa(r.DaysLeft)},
		}
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult aggregates expiry results for multiple domains.
type MultiResult struct {
	monitors.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in one combined table.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		if r.Problem != "" {
			rows = append(rows, []string{r.Domain, "-", "-", r.Problem})
			continue
		}
		rows = append(rows, []string{
			r.Domain, strconv.Itoa(r.DaysLeft), r.ExpiresAt.Format(time.DateOnly), r.Registrar,
		})
	}
	table := output.NewGroupedWrappingTable(w, 32, 48)
	table.Header([]string{"Domain", "Days Left", "Expires", "Registrar"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
