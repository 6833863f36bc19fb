package headers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// Header is a single observed response header.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result holds the header audit outcome for one domain.
type Result struct {
	Domain     string   `json:"domain"`
	StatusCode int      `json:"status_code,omitempty"`
	Present    []Header `json:"present,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	Leaking    []Header `json:"leaking,omitempty"`
	Problem    string   `json:"problem,omitempty"`
}

// IsEmpty reports whether nothing could be observed.
func (r *Result) IsEmpty() bool {
	return r.Problem == "" && r.StatusCode == 0
}

// Status returns warning when security headers are missing or implementation
// details leak, error when the site could not be reached.
func (r *Result) Status() monitors.Status {
	switch {
	case r.Problem != "":
		return monitors.StatusError
	case len(r.Missing) > 0 || len(r.Leaking) > 0:
		return monitors.StatusWarning
	default:
		return monitors.StatusOK
	}
}

// Summary returns a one-line description of the header posture.
func (r *Result) Summary() string {
	if r.Problem != "" {
		return fmt.Sprintf("%s: %s", r.Domain, r.Problem)
	}
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d security headers missing", len(r.Missing)))
	}
	if len(r.Leaking) > 0 {
		parts = append(parts, fmt.Sprintf("%d headers leak details", len(r.Leaking)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: all security headers present", r.Domain)
	}
	return fmt.Sprintf("%s: %s", r.Domain, strings.Join(parts, ", "))
}

// WritePlain writes one line per finding: domain, kind, header, value.
func (r *Result) WritePlain(w io.Writer) error {
	if r.Problem != "" {
		_, err := fmt.Fprintf(w, "%s\terror\t%s\n", r.Domain, r.Problem)
		return err
	}
	for _, h := range r.Present {
		if _, err := fmt.Fprintf(w, "%s\tpresent\t%s\t%s\n", r.Domain, h.Name, h.Value); err != nil {
			return err
		}
	}
	for _, name := range r.Missing {
		if _, err := fmt.Fprintf(w, "%s\tmissing\t%s\t\n", r.Domain, name); err != nil {
			return err
		}
	}
	for _, h := range r.Leaking {
		if _, err := fmt.Fprintf(w, "%s\tleaking\t%s\t%s\n", r.Domain, h.Name, h.Value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Result) rows(withDomain bool) [][]string {
	prefix := func(rest ...string) []string {
		if withDomain {
			return append([]string{r.Domain}, rest...)
		}
		return rest
	}
	var rows [][]string
	if r.Problem != "" {
		return [][]string{prefix("error", "-", r.Problem)}
	}
	for _, h := range r.Present {
		rows = append(rows, prefix("present", h.Name, h.Value))
	}
	for _, name := range r.Missing {
		rows = append(rows, prefix("missing", name, ""))
	}
	for _, h := range r.Leaking {
		rows = append(rows, prefix("leaking", h.Name, h.Value))
	}
	return rows
}

// WriteTable renders the findings as a table.
func (r *Result) WriteTable(w io.Writer) error {
	table := output.NewWrappingTable(w, 32, 40)
	table.Header([]string{"Finding", "Header", "Value"})
	if err := table.Bulk(r.rows(false)); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult aggregates header results for multiple domains.
type MultiResult struct {
	monitors.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in one table grouped by domain.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		rows = append(rows, r.rows(true)...)
	}
	table := output.NewGroupedWrappingTable(w, 32, 56)
	table.Header([]string{"Domain", "Finding", "Header", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
