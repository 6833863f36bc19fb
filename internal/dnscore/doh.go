package dnscore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"
)

// dohAttempt issues exactly one RFC 8484 query (GET, base64url wire format)
// to one DoH endpoint and classifies every possible result. A non-2xx HTTP
// status is a transient failure, not a protocol error: the channel is blocked
// or unavailable, and the cascade keeps going.
func dohAttempt(ctx context.Context, client *req.Client, ep Endpoint, q *dns.Msg, timeout time.Duration) AttemptOutcome {
	packed, err := q.Pack()
	if err != nil {
		return AttemptOutcome{Kind: OutcomeProtocolError, Reason: fmt.Sprintf("packing query: %v", err)}
	}
	encoded := base64.RawURLEncoding.EncodeToString(packed)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpResp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/dns-message").
		SetQueryParam("dns", encoded).
		Get(ep.Addr)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "network timeout"}
		case errors.Is(err, context.Canceled):
			return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: "cancelled"}
		default:
			return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: err.Error()}
		}
	}
	if !httpResp.IsSuccessState() {
		return AttemptOutcome{Kind: OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", httpResp.StatusCode)}
	}

	resp := new(dns.Msg)
	if err := resp.Unpack(httpResp.Bytes()); err != nil {
		return AttemptOutcome{Kind: OutcomeProtocolError, Reason: fmt.Sprintf("unpacking response: %v", err)}
	}
	return classifyResponse(resp)
}
