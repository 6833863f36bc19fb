package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/geo"
	"github.com/fabriziosalmi/domainmate/internal/output"
	"github.com/fabriziosalmi/domainmate/internal/validate"
	"github.com/fabriziosalmi/domainmate/internal/worker"
)

func newResolveCmd(d *deps) *cobra.Command {
	var qtype string
	var trace bool

	cmd := &cobra.Command{
		Use:     "resolve [name...]",
		Short:   "Resolve DNS records through the resolution cascade",
		GroupID: "monitors",
		Long: `Resolve DNS records for one or more names through the resolution cascade:
the configured standard resolvers in order, then the DNS-over-HTTPS
fallbacks. The first authoritative answer, positive or negative, wins.

The terminal outcome is one of:

  success    a resolver returned records
  not-found  a resolver authoritatively reported the name does not exist
  exhausted  every channel failed without an authoritative answer

With --trace, each attempted endpoint and its outcome is included. When a
GeoIP database is configured (--geoip-db), resolved addresses are annotated
with their country.

Multiple inputs can be supplied as arguments or piped via stdin (one per
line). Bulk stdin input is processed concurrently (see --concurrency).`,
		Example: `  # Resolve A records
  domainmate resolve example.com

  # Other record types
  domainmate resolve --type MX example.com

  # Show every cascade attempt
  domainmate resolve --trace example.com

  # Annotate addresses with their country
  domainmate resolve --geoip-db GeoLite2-Country.mmdb example.com`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			qt, ok := dns.StringToType[strings.ToUpper(qtype)]
			if !ok {
				return fmt.Errorf("unknown record type %q", qtype)
			}

			inputs, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}

			resolver, err := d.newResolver()
			if err != nil {
				return err
			}
			annotator, err := geo.Open(d.cfg.GeoIPDatabase)
			if err != nil {
				return err
			}
			defer annotator.Close()

			results := resolveAll(cmd, d, resolver, annotator, inputs, qt, trace)
			if len(results.Results) == 1 {
				return writeResult(cmd.OutOrStdout(), d, results.Results[0])
			}
			return writeResult(cmd.OutOrStdout(), d, results)
		},
	}

	cmd.Flags().StringVarP(&qtype, "type", "t", "A", "record type to resolve (A, AAAA, MX, TXT, NS, CNAME, PTR)")
	cmd.Flags().BoolVar(&trace, "trace", false, "include every cascade attempt in the output")
	return cmd
}

// resolveAll fans the names out over the worker pool and restores input order.
func resolveAll(cmd *cobra.Command, d *deps, resolver dnscore.Resolver, annotator *geo.Annotator, inputs []string, qt uint16, trace bool) *resolveMultiResult {
	pool := worker.NewPool(d.cfg.Concurrency, d.logger)

	in := make(chan worker.Input, len(inputs))
	for _, name := range inputs {
		in <- name
	}
	close(in)

	out := pool.Process(cmd.Context(), in, func(ctx context.Context, input worker.Input) (interface{}, error) {
		name := validate.CleanDomain(input.(string))
		res := resolver.Resolve(ctx, name, qt)
		return newResolveResult(name, qt, res, annotator, trace), nil
	})

	byInput := make(map[string]*resolveResult, len(inputs))
	for jr := range out {
		byInput[jr.Input.(string)] = jr.Value.(*resolveResult)
	}

	results := &resolveMultiResult{}
	for _, name := range inputs {
		if r, ok := byInput[name]; ok {
			results.Results = append(results.Results, r)
		}
	}
	return results
}

// resolveRecord is one answer record, optionally geo-annotated.
type resolveRecord struct {
	Type    string `json:"type"`
	TTL     uint32 `json:"ttl"`
	Data    string `json:"data"`
	Country string `json:"country,omitempty"`
}

// resolveAttempt is one cascade attempt in a trace.
type resolveAttempt struct {
	Endpoint  string `json:"endpoint"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// resolveResult is the presentation of one cascade resolution.
type resolveResult struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Outcome  string           `json:"outcome"`
	Records  []resolveRecord  `json:"records,omitempty"`
	Attempts []resolveAttempt `json:"attempts,omitempty"`
}

// IsEmpty reports whether the resolution produced no records.
func (r *resolveResult) IsEmpty() bool { return len(r.Records) == 0 }

// WritePlain writes one line per record: name, type, ttl, data, country.
func (r *resolveResult) WritePlain(w io.Writer) error {
	if len(r.Records) == 0 {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Type, r.Outcome)
		return err
	}
	for _, rec := range r.Records {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.Name, rec.Type, rec.TTL, rec.Data, rec.Country); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders records (and the attempt trace when present) as tables.
func (r *resolveResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, rec := range r.Records {
		rows = append(rows, []string{rec.Type, strconv.FormatUint(uint64(rec.TTL), 10), rec.Data, rec.Country})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{r.Type, "-", r.Outcome, ""})
	}
	table := output.NewWrappingTable(w, 32, 40)
	table.Header([]string{"Type", "TTL", "Data", "Country"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return r.writeTrace(w)
}

func (r *resolveResult) writeTrace(w io.Writer) error {
	if len(r.Attempts) == 0 {
		return nil
	}
	var rows [][]string
	for _, a := range r.Attempts {
		rows = append(rows, []string{a.Endpoint, a.Outcome, a.Reason, strconv.FormatInt(a.LatencyMS, 10)})
	}
	table := output.NewWrappingTable(w, 32, 48)
	table.Header([]string{"Endpoint", "Outcome", "Reason", "Latency (ms)"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// resolveMultiResult aggregates resolutions for multiple names.
type resolveMultiResult struct {
	Results []*resolveResult
}

// MarshalJSON serializes the multi-result as a JSON array.
func (m *resolveMultiResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Results)
}

// WritePlain writes all results as plain text.
func (m *resolveMultiResult) WritePlain(w io.Writer) error {
	for _, r := range m.Results {
		if err := r.WritePlain(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders all results in one table grouped by name.
func (m *resolveMultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		if len(r.Records) == 0 {
			rows = append(rows, []string{r.Name, r.Type, "-", r.Outcome, ""})
			continue
		}
		for _, rec := range r.Records {
			rows = append(rows, []string{r.Name, rec.Type, strconv.FormatUint(uint64(rec.TTL), 10), rec.Data, rec.Country})
		}
	}
	table := output.NewGroupedWrappingTable(w, 32, 56)
	table.Header([]string{"Name", "Type", "TTL", "Data", "Country"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// newResolveResult converts a cascade outcome into its presentation form.
func newResolveResult(name string, qt uint16, res dnscore.ResolutionResult, annotator *geo.Annotator, trace bool) *resolveResult {
	out := &resolveResult{
		Name:    name,
		Type:    dns.TypeToString[qt],
		Outcome: res.Kind.String(),
	}
	for _, rec := range res.Records {
		rr := resolveRecord{Type: dns.TypeToString[rec.Type], TTL: rec.TTL, Data: rec.Data}
		if rec.Type == dns.TypeA || rec.Type == dns.TypeAAAA {
			rr.Country = annotator.Country(rec.Data)
		}
		out.Records = append(out.Records, rr)
	}
	if trace {
		for _, a := range res.Log {
			out.Attempts = append(out.Attempts, resolveAttempt{
				Endpoint:  a.Endpoint.String(),
				Outcome:   a.Outcome.String(),
				Reason:    a.Reason,
				LatencyMS: a.Latency.Milliseconds(),
			})
		}
	}
	return out
}
