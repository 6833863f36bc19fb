package dnscore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/miekg/dns"
)

// Exchanger abstracts the wire-level DNS exchange so tests can substitute a
// scripted endpoint set. *dns.Client satisfies this interface directly.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// NewExchanger returns the production Exchanger: a UDP dns.Client with the
// given per-attempt timeout.
func NewExchanger(timeout time.Duration) *dns.Client {
	return &dns.Client{Timeout: timeout}
}

// standardAttempt issues exactly one query to one standard resolver and
// classifies every possible result. It never returns an error: unexpected
// conditions become OutcomeProtocolError.
func standardAttempt(ctx context.Context, exch Exchanger, ep Endpoint, q *dns.Msg, timeout time.Duration) AttemptOutcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, _, err := exch.ExchangeContext(ctx, q, ep.Addr)
	if err != nil {
		return classifyExchangeError(err)
	}
	if resp == nil {
		return AttemptOutcome{Kind: OutcomeProtocolError, Reason: "empty response"}
	}
	return classifyResponse(resp)
}

// classifyExchangeError maps a transport-level exchange error to an outcome.
// Timeouts, refused connections, and other network failures are transient:
// the channel is unreachable or blocked, the next endpoint may still answer.
// Anything else means the response could not be understood.
func classifyExchangeError(err error) AttemptOutcome {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "network timeout"}
	case errors.Is(err, context.Canceled):
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "cancelled"}
	case errors.Is(err, syscall.ECONNREFUSED):
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "connection refused"}
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "network timeout"}
		}
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: netErr.Error()}
	default:
		return AttemptOutcome{Kind: OutcomeProtocolError, Reason: err.Error()}
	}
}

// classifyResponse maps a parsed DNS response to an outcome.
//
// NXDOMAIN and an empty NOERROR are authoritative negative answers, not
// failures: the resolver was reached and states the name does not exist (or
// has no records of the requested type). SERVFAIL and REFUSED are transient:
// rate-limited or blocking resolvers reject queries this way, and the next
// channel may still produce a real answer.
func classifyResponse(resp *dns.Msg) AttemptOutcome {
	switch resp.Rcode {
	case dns.RcodeSuccess:
		records := extractRecords(resp)
		if len(records) == 0 {
			return AttemptOutcome{Kind: OutcomeNegativeAnswer}
		}
		return AttemptOutcome{Kind: OutcomeAnswer, Records: records}
	case dns.RcodeNameError:
		return AttemptOutcome{Kind: OutcomeNegativeAnswer}
	case dns.RcodeServerFailure:
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "server failure"}
	case dns.RcodeRefused:
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "query refused"}
	default:
		return AttemptOutcome{Kind: OutcomeProtocolError, Reason: fmt.Sprintf("unexpected rcode %s", dns.RcodeToString[resp.Rcode])}
	}
}

// extractRecords converts answer-section resource records into Records.
// Record types the consumers do not use are skipped.
func extractRecords(resp *dns.Msg) []Record {
	var records []Record
	for _, rr := range resp.Answer {
		hdr := rr.Header()
		rec := Record{
			Name: hdr.Name,
			Type: hdr.Rrtype,
			TTL:  hdr.Ttl,
		}
		switch v := rr.(type) {
		case *dns.A:
			rec.Data = v.A.String()
		case *dns.AAAA:
			rec.Data = v.AAAA.String()
		case *dns.CNAME:
			rec.Data = v.Target
		case *dns.NS:
			rec.Data = v.Ns
		case *dns.MX:
			rec.Data = fmt.Sprintf("%d %s", v.Preference, v.Mx)
		case *dns.TXT:
			rec.Data = strings.Join(v.Txt, "")
		case *dns.PTR:
			rec.Data = v.Ptr
		default:
			continue
		}
		records = append(records, rec)
	}
	return records
}
