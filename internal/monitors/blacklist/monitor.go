// Package blacklist checks a domain's resolved address against a set of
// reputation blackhole list zones through the resolution cascade.
package blacklist

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
	"github.com/fabriziosalmi/domainmate/internal/rbl"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// Name is the monitor identifier.
const Name = "blacklist"

// publicBlockPrefix marks answers like 127.255.255.x, which Spamhaus and CBL
// return when the query arrived via an open public resolver they refuse to
// serve. Such an answer is a blocked channel in RBL clothing, not a listing.
const publicBlockPrefix = "127.255.255."

// policyCodes are Spamhaus PBL policy listings (dynamic/consumer address
// space). They are not reputation verdicts and are skipped.
var policyCodes = map[string]bool{
	"127.0.0.10": true,
	"127.0.0.11": true,
}

// Monitor checks domains (or bare IP addresses) against RBL zones.
type Monitor struct {
	resolver dnscore.Resolver
	checker  *rbl.Checker
	zones    []string
	logger   *slog.Logger
}

// NewMonitor creates a blacklist monitor checking the given zones in order.
func NewMonitor(resolver dnscore.Resolver, zones []string, logger *slog.Logger) *Monitor {
	return &Monitor{
		resolver: resolver,
		checker:  rbl.NewChecker(resolver, logger),
		zones:    zones,
		logger:   logger,
	}
}

// Name returns the monitor identifier.
func (m *Monitor) Name() string { return Name }

// AggregateResults combines multiple blacklist results into a MultiResult.
func (m *Monitor) AggregateResults(results []monitors.Result) monitors.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// Run resolves the input to an IPv4 address (unless it already is one) and
// checks it against every configured zone. A zone whose query cannot be
// answered on any channel contributes "unable to determine", never "clean";
// a zone that answers with a real listing code makes the result critical.
func (m *Monitor) Run(ctx context.Context, input string) (monitors.Result, error) {
	input = output.StripANSI(input)
	result := &Result{Input: input}

	ip := input
	if net.ParseIP(input) == nil {
		if !validate.IsDomain(input) {
			return nil, fmt.Errorf("%w: must be a valid domain name or IP address: %q", monitors.ErrInvalidInput, input)
		}
		res := m.resolver.Resolve(ctx, input, dns.TypeA)
		switch res.Kind {
		case dnscore.ResultNotFound:
			result.ResolveOutcome = ResolveNotFound
			return result, nil
		case dnscore.ResultExhausted:
			result.ResolveOutcome = ResolveBlocked
			return result, nil
		}
		ip = firstA(res)
		if ip == "" {
			result.ResolveOutcome = ResolveNotFound
			return result, nil
		}
	}
	result.IP = ip

	for _, zone := range m.zones {
		listing, err := m.checker.CheckListing(ctx, ip, zone)
		if err != nil {
			return nil, err
		}
		result.Zones = append(result.Zones, interpretListing(listing))
	}

	return result, nil
}

// firstA returns the first A-type record value of a successful resolution.
func firstA(res dnscore.ResolutionResult) string {
	for _, rec := range res.Records {
		if rec.Type == dns.TypeA {
			return rec.Data
		}
	}
	return ""
}

// interpretListing applies the zone-specific return-code policy on top of the
// checker's verbatim outcome.
func interpretListing(listing rbl.Listing) ZoneStatus {
	zs := ZoneStatus{Zone: listing.Zone}

	switch listing.Outcome {
	case rbl.NotListed:
		zs.Outcome = ZoneClean
	case rbl.Blocked:
		zs.Outcome = ZoneBlocked
	case rbl.Listed:
		var real []string
		blocked := false
		for _, code := range listing.ReturnCodes {
			switch {
			case strings.HasPrefix(code, publicBlockPrefix):
				blocked = true
			case policyCodes[code]:
				// policy listing, not a reputation verdict
			default:
				real = append(real, code)
			}
		}
		switch {
		case len(real) > 0:
			zs.Outcome = ZoneListed
			zs.Codes = real
		case blocked:
			zs.Outcome = ZoneBlocked
		default:
			zs.Outcome = ZoneClean
		}
	}

	return zs
}
