// Package mailauth checks a domain's SPF and DMARC posture via TXT records
// resolved through the resolution cascade.
package mailauth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miekg/dns"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// Name is the monitor identifier.
const Name = "mail"

// Monitor checks SPF and DMARC TXT records for a domain.
type Monitor struct {
	resolver dnscore.Resolver
	logger   *slog.Logger
}

// NewMonitor creates a mail authentication monitor.
func NewMonitor(resolver dnscore.Resolver, logger *slog.Logger) *Monitor {
	return &Monitor{resolver: resolver, logger: logger}
}

// Name returns the monitor identifier.
func (m *Monitor) Name() string { return Name }

// AggregateResults combines multiple mail results into a MultiResult.
func (m *Monitor) AggregateResults(results []monitors.Result) monitors.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// Run looks up the apex TXT records for SPF and the _dmarc subdomain for
// DMARC. A record that is authoritatively absent is reported missing; a
// lookup that could not be answered on any channel is reported unknown
// rather than missing.
func (m *Monitor) Run(ctx context.Context, domain string) (monitors.Result, error) {
	domain = validate.CleanDomain(domain)
	if !validate.IsDomain(domain) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", monitors.ErrInvalidInput, domain)
	}

	result := &Result{Domain: domain}
	result.SPF = m.lookup(ctx, domain, "v=spf1")
	result.DMARC = m.lookup(ctx, "_dmarc."+domain, "v=DMARC1")
	return result, nil
}

// lookup resolves TXT records for name and returns the state of the record
// whose value starts with the given prefix.
func (m *Monitor) lookup(ctx context.Context, name, prefix string) RecordCheck {
	res := m.resolver.Resolve(ctx, name, dns.TypeTXT)
	switch res.Kind {
	case dnscore.ResultExhausted:
		return RecordCheck{State: StateUnknown}
	case dnscore.ResultNotFound:
		return RecordCheck{State: StateMissing}
	}
	for _, v := range res.Values() {
		if strings.HasPrefix(v, prefix) {
			return RecordCheck{State: StatePresent, Value: output.StripANSI(v)}
		}
	}
	return RecordCheck{State: StateMissing}
}
