package mailauth

import (
	"fmt"
	"io"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// RecordState is the observed state of a mail authentication record.
type RecordState string

// Record state values.
const (
	StatePresent RecordState = "present"
	StateMissing RecordState = "missing"
	StateUnknown RecordState = "unknown"
)

// RecordCheck is the state and value of a single mail authentication record.
type RecordCheck struct {
	State RecordState `json:"state"`
	Value string      `json:"value,omitempty"`
}

// Result holds the SPF and DMARC posture for one domain.
type Result struct {
	Domain string      `json:"domain"`
	SPF    RecordCheck `json:"spf"`
	DMARC  RecordCheck `json:"dmarc"`
}

// IsEmpty reports whether neither record could be observed.
func (r *Result) IsEmpty() bool {
	return r.SPF.State == "" && r.DMARC.State == ""
}

// Status returns warning when a record is missing, unknown when a lookup
// could not be answered, ok when both records are present.
func (r *Result) Status() monitors.Status {
	s := monitors.StatusOK
	for _, c := range []RecordCheck{r.SPF, r.DMARC} {
		switch c.State {
		case StateMissing:
			s = monitors.Worst(s, monitors.StatusWarning)
		case StateUnknown:
			s = monitors.Worst(s, monitors.StatusUnknown)
		}
	}
	return s
}

// Summary returns a one-line description of the mail posture.
func (r *Result) Summary() string {
	return fmt.Sprintf("%s: SPF %s, DMARC %s", r.Domain, r.SPF.State, r.DMARC.State)
}

// WritePlain writes one line per record: domain, record, state, value.
func (r *Result) WritePlain(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\tSPF\t%s\t%s\n", r.Domain, r.SPF.State, r.SPF.Value); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\tDMARC\t%s\t%s\n", r.Domain, r.DMARC.State, r.DMARC.Value)
	return err
}

// WriteTable renders the record states as a table.
func (r *Result) WriteTable(w io.Writer) error {
	table := output.NewWrappingTable(w, 32, 30)
	table.Header([]string{"Record", "State", "Value"})
	if err := table.Bulk([][]string{
		{"SPF", string(r.SPF.State), r.SPF.Value},
		{"DMARC", string(r.DMARC.State), r.DMARC.Value},
	}); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult aggregates mail results for multiple domains.
type MultiResult struct {
	monitors.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in one table grouped by domain.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		rows = append(rows,
			[]string{r.Domain, "SPF", string(r.SPF.State), r.SPF.Value},
			[]string{r.Domain, "DMARC", string(r.DMARC.State), r.DMARC.Value},
		)
	}
	table := output.NewGroupedWrappingTable(w, 32, 48)
	table.Header([]string{"Domain", "Record", "State", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
