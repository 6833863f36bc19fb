package audit

import (
	"fmt"
	"io"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// Report is the outcome of one audit run across all domains and monitors.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Findings    []Finding `json:"findings"`
}

// IsEmpty reports whether the audit produced no findings.
func (r *Report) IsEmpty() bool { return len(r.Findings) == 0 }

// Status returns the worst status across all findings.
func (r *Report) Status() monitors.Status {
	s := monitors.StatusOK
	for _, f := range r.Findings {
		s = monitors.Worst(s, f.Status)
	}
	return s
}

// Summary returns a one-line count of findings needing attention.
func (r *Report) Summary() string {
	actionable := 0
	for _, f := range r.Findings {
		if f.Status.Actionable() {
			actionable++
		}
	}
	if actionable == 0 {
		return fmt.Sprintf("%d checks passed", len(r.Findings))
	}
	return fmt.Sprintf("%d of %d checks need attention", actionable, len(r.Findings))
}

// Actionable returns the findings whose status warrants attention.
func (r *Report) Actionable() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Status.Actionable() {
			out = append(out, f)
		}
	}
	return out
}

// Domains returns the distinct domains in finding order.
func (r *Report) Domains() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range r.Findings {
		if !seen[f.Domain] {
			seen[f.Domain] = true
			out = append(out, f.Domain)
		}
	}
	return out
}

// FindingsFor returns the findings for one domain, in monitor order.
func (r *Report) FindingsFor(domain string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Domain == domain {
			out = append(out, f)
		}
	}
	return out
}

// WritePlain writes one line per finding: domain, monitor, status, summary.
func (r *Report) WritePlain(w io.Writer) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Domain, f.Monitor, f.Status, f.Summary); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders all findings in one table grouped by domain.
func (r *Report) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, f := range r.Findings {
		rows = append(rows, []string{f.Domain, f.Monitor, string(f.Status), f.Summary})
	}
	table := output.NewGroupedWrappingTable(w, 32, 56)
	table.Header([]string{"Domain", "Monitor", "Status", "Summary"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
