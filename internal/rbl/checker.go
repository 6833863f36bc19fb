package rbl

import (
	"context"
	"log/slog"
	"net"

	"github.com/miekg/dns"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
)

// Outcome is the terminal classification of one listing check.
type Outcome int

// Listing check outcomes. Blocked means no resolution channel produced an
// authoritative answer for the query. It is returned only when the cascade is
// exhausted and is never interchangeable with NotListed: a caller that cannot
// get an answer from any channel must never report "clean".
const (
	NotListed Outcome = iota
	Listed
	Blocked
)

// String returns the label used in logs and rendered output.
func (o Outcome) String() string {
	switch o {
	case NotListed:
		return "not-listed"
	case Listed:
		return "listed"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Listing is the result of checking one IP address against one RBL zone.
type Listing struct {
	Zone    string  `json:"zone"`
	Outcome Outcome `json:"outcome"`
	// ReturnCodes holds the raw answer addresses exactly as the zone returned
	// them. Their meaning is zone-specific and opaque to this layer; callers
	// apply their own policy filters.
	ReturnCodes []string `json:"return_codes,omitempty"`
	// Code is the last octet of the first returned address, the conventional
	// RBL listing code. Zero unless Outcome is Listed.
	Code int `json:"code,omitempty"`
}

// Checker interprets RBL answers obtained through the resolution cascade.
type Checker struct {
	resolver dnscore.Resolver
	logger   *slog.Logger
}

// NewChecker creates a checker that drives the given resolver.
func NewChecker(resolver dnscore.Resolver, logger *slog.Logger) *Checker {
	return &Checker{resolver: resolver, logger: logger}
}

// CheckListing checks ipAddr against one RBL zone.
//
// A malformed IP address or zone fails fast with an error before any network
// call. Otherwise the cascade's terminal state maps one-to-one:
// Success → Listed (return codes passed through verbatim),
// NotFound → NotListed, Exhausted → Blocked.
func (c *Checker) CheckListing(ctx context.Context, ipAddr, zone string) (Listing, error) {
	query, err := ReverseAddr(ipAddr, zone)
	if err != nil {
		return Listing{}, err
	}

	res := c.resolver.Resolve(ctx, query, dns.TypeA)
	listing := Listing{Zone: zone}

	switch res.Kind {
	case dnscore.ResultSuccess:
		listing.Outcome = Listed
		listing.ReturnCodes = res.Values()
		if len(listing.ReturnCodes) > 0 {
			if ip := net.ParseIP(listing.ReturnCodes[0]); ip != nil {
				if ip4 := ip.To4(); ip4 != nil {
					listing.Code = int(ip4[3])
				}
			}
		}
		c.logger.Debug("rbl listing found", "zone", zone, "ip", ipAddr, "codes", listing.ReturnCodes)
	case dnscore.ResultNotFound:
		listing.Outcome = NotListed
	case dnscore.ResultExhausted:
		listing.Outcome = Blocked
		c.logger.Debug("rbl query blocked on all channels", "zone", zone, "ip", ipAddr, "attempts", len(res.Log))
	}

	return listing, nil
}
