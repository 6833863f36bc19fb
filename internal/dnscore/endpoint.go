// Package dnscore implements the resilient resolution core: an ordered
// cascade of standard DNS resolvers with a DNS-over-HTTPS fallback for
// network paths where plain DNS is firewalled, rate-limited, or deliberately
// refused. Reputation blackhole lists routinely reject queries arriving via
// public resolvers from data-center addresses, so a caller that cannot tell
// "no answer obtainable" from "authoritative not-found" will silently
// misreport; the cascade's three-way result makes that distinction explicit.
package dnscore

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/apperr"
)

// Kind distinguishes the two endpoint transports.
type Kind int

// Endpoint kinds.
const (
	KindStandard Kind = iota // plain DNS over UDP/TCP
	KindDoH                  // DNS-over-HTTPS, RFC 8484
)

// String returns the transport label used in logs and attempt traces.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "dns"
	case KindDoH:
		return "doh"
	default:
		return "unknown"
	}
}

// Endpoint is one resolver in the cascade. Addr holds host:port for standard
// endpoints and the full query URL for DoH endpoints. Priority is the
// position within the endpoint's kind, fixed at configuration time.
type Endpoint struct {
	Kind Kind
	Addr string
}

// String returns a loggable identifier, e.g. "dns://1.1.1.1:53".
func (e Endpoint) String() string {
	if e.Kind == KindDoH {
		return e.Addr
	}
	return "dns://" + e.Addr
}

// defaultDNSPort is appended to nameserver addresses given without a port.
const defaultDNSPort = "53"

// Registry is the static, ordered endpoint configuration for one cascade:
// standard resolvers first, DoH endpoints second, plus the per-attempt
// timeout. It is immutable after construction and safe to share across any
// number of concurrent resolution calls.
type Registry struct {
	standard []Endpoint
	doh      []Endpoint
	timeout  time.Duration
}

// NewRegistry builds a Registry from ordered nameserver addresses
// (host or host:port) and ordered DoH endpoint URLs. The order given here is
// the priority order the cascade follows; it is never reordered at runtime.
// At least one endpoint of either kind is required.
func NewRegistry(nameservers, dohURLs []string, attemptTimeout time.Duration) (*Registry, error) {
	if len(nameservers) == 0 && len(dohURLs) == 0 {
		return nil, fmt.Errorf("%w: endpoint registry needs at least one resolver", apperr.ErrInvalidInput)
	}
	if attemptTimeout <= 0 {
		return nil, fmt.Errorf("%w: attempt timeout must be positive, got %s", apperr.ErrInvalidInput, attemptTimeout)
	}

	r := &Registry{timeout: attemptTimeout}

	for _, ns := range nameservers {
		addr, err := normalizeNameserver(ns)
		if err != nil {
			return nil, err
		}
		r.standard = append(r.standard, Endpoint{Kind: KindStandard, Addr: addr})
	}

	for _, raw := range dohURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return nil, fmt.Errorf("%w: DoH endpoint must be an https URL: %q", apperr.ErrInvalidInput, raw)
		}
		r.doh = append(r.doh, Endpoint{Kind: KindDoH, Addr: raw})
	}

	return r, nil
}

// normalizeNameserver validates a nameserver address and appends the default
// DNS port when none is given.
func normalizeNameserver(ns string) (string, error) {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return "", fmt.Errorf("%w: empty nameserver address", apperr.ErrInvalidInput)
	}
	if host, port, err := net.SplitHostPort(ns); err == nil {
		if net.ParseIP(host) == nil {
			return "", fmt.Errorf("%w: nameserver must be an IP address: %q", apperr.ErrInvalidInput, ns)
		}
		return net.JoinHostPort(host, port), nil
	}
	if net.ParseIP(ns) == nil {
		return "", fmt.Errorf("%w: nameserver must be an IP address: %q", apperr.ErrInvalidInput, ns)
	}
	return net.JoinHostPort(ns, defaultDNSPort), nil
}

// Standard returns the standard endpoints in priority order.
// The returned slice is shared and must not be modified.
func (r *Registry) Standard() []Endpoint { return r.standard }

// DoH returns the DoH endpoints in priority order.
// The returned slice is shared and must not be modified.
func (r *Registry) DoH() []Endpoint { return r.doh }

// AttemptTimeout returns the per-attempt timeout. The worst-case duration of
// one cascade invocation is this timeout times the total endpoint count.
func (r *Registry) AttemptTimeout() time.Duration { return r.timeout }
