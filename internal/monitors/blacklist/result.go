package blacklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
)

// ResolveOutcome describes how the initial address resolution went for a
// domain input. It is empty when the input was already an IP address.
type ResolveOutcome string

// Resolve outcome values.
const (
	ResolveNotFound ResolveOutcome = "not-found"
	ResolveBlocked  ResolveOutcome = "blocked"
)

// ZoneOutcome is the per-zone verdict after return-code interpretation.
type ZoneOutcome string

// Zone outcome values.
const (
	ZoneClean   ZoneOutcome = "clean"
	ZoneListed  ZoneOutcome = "listed"
	ZoneBlocked ZoneOutcome = "blocked"
)

// ZoneStatus is the interpreted verdict for a single RBL zone.
type ZoneStatus struct {
	Zone    string      `json:"zone"`
	Outcome ZoneOutcome `json:"outcome"`
	Codes   []string    `json:"codes,omitempty"`
}

// Result holds the blacklist verdicts for one input.
type Result struct {
	Input          string         `json:"input"`
	IP             string         `json:"ip,omitempty"`
	Zones          []ZoneStatus   `json:"zones,omitempty"`
	ResolveOutcome ResolveOutcome `json:"resolve_outcome,omitempty"`
}

// IsEmpty reports whether the result carries no verdicts at all.
func (r *Result) IsEmpty() bool {
	return len(r.Zones) == 0 && r.ResolveOutcome == ""
}

func (r *Result) counts() (listed, blocked int) {
	for _, z := range r.Zones {
		switch z.Outcome {
		case ZoneListed:
			listed++
		case ZoneBlocked:
			blocked++
		}
	}
	return listed, blocked
}

// Status returns critical when any zone reports a real listing, unknown when
// the verdict could not be determined for at least one zone, ok otherwise.
func (r *Result) Status() monitors.Status {
	switch r.ResolveOutcome {
	case ResolveNotFound:
		return monitors.StatusError
	case ResolveBlocked:
		return monitors.StatusUnknown
	}
	listed, blocked := r.counts()
	switch {
	case listed > 0:
		return monitors.StatusCritical
	case blocked > 0:
		return monitors.StatusUnknown
	default:
		return monitors.StatusOK
	}
}

// Summary returns a one-line description of the verdict.
func (r *Result) Summary() string {
	switch r.ResolveOutcome {
	case ResolveNotFound:
		return fmt.Sprintf("%s: could not resolve to an address", r.Input)
	case ResolveBlocked:
		return fmt.Sprintf("%s: resolution blocked on every channel", r.Input)
	}
	listed, blocked := r.counts()
	switch {
	case listed > 0:
		return fmt.Sprintf("%s: listed in %d of %d zones", r.Input, listed, len(r.Zones))
	case blocked > 0:
		return fmt.Sprintf("%s: %d of %d zones could not be determined", r.Input, blocked, len(r.Zones))
	default:
		return fmt.Sprintf("%s: not listed in %d zones", r.Input, len(r.Zones))
	}
}

// WritePlain writes one line per zone: input, zone, outcome, codes.
func (r *Result) WritePlain(w io.Writer) error {
	if r.ResolveOutcome != "" {
		_, err := fmt.Fprintf(w, "%s\tresolve\t%s\n", r.Input, r.ResolveOutcome)
		return err
	}
	for _, z := range r.Zones {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Input, z.Zone, z.Outcome, strings.Join(z.Codes, ",")); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders the per-zone verdicts as a table.
func (r *Result) WriteTable(w io.Writer) error {
	var rows [][]string
	if r.ResolveOutcome != "" {
		rows = append(rows, []string{"-", "resolve: " + string(r.ResolveOutcome), ""})
	}
	for _, z := range r.Zones {
		rows = append(rows, []string{z.Zone, string(z.Outcome), strings.Join(z.Codes, ",")})
	}
	table := output.NewWrappingTable(w, 32, 40)
	table.Header([]string{"Zone", "Outcome", "Codes"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult aggregates blacklist results for multiple inputs.
type MultiResult struct {
	monitors.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in one table grouped by input.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		if r.ResolveOutcome != "" {
			rows = append(rows, []string{r.Input, "-", "resolve: " + string(r.ResolveOutcome), ""})
			continue
		}
		for _, z := range r.Zones {
			rows = append(rows, []string{r.Input, z.Zone, string(z.Outcome), strings.Join(z.Codes, ",")})
		}
	}
	table := output.NewGroupedWrappingTable(w, 32, 48)
	table.Header([]string{"Input", "Zone", "Outcome", "Codes"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
