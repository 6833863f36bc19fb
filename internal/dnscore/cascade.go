package dnscore

import (
	"context"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"
)

// Resolver is the consumer-facing contract of the cascade. Monitors depend on
// this interface so tests can substitute scripted resolution results.
type Resolver interface {
	Resolve(ctx context.Context, name string, qtype uint16) ResolutionResult
}

// Cascade executes the two-phase fallback protocol: standard endpoints in
// priority order, then DoH endpoints in priority order. The first
// authoritative answer, positive or negative, wins and stops the cascade.
// Only when every endpoint fails does the result become Exhausted.
//
// Attempts within one invocation are strictly sequential: the stop rule
// depends on observing each outcome before deciding whether to issue the next
// attempt. Concurrent invocations are independent and need no locking.
type Cascade struct {
	registry  *Registry
	exchanger Exchanger
	client    *req.Client
	logger    *slog.Logger
}

var _ Resolver = (*Cascade)(nil)

// NewCascade creates a cascade over the given registry. exchanger handles
// standard attempts (use NewExchanger for production); client handles DoH
// attempts. The cascade performs no retries beyond the configured endpoint
// list; callers wanting retries re-invoke Resolve as a fresh call.
func NewCascade(registry *Registry, exchanger Exchanger, client *req.Client, logger *slog.Logger) *Cascade {
	return &Cascade{
		registry:  registry,
		exchanger: exchanger,
		client:    client,
		logger:    logger,
	}
}

// Resolve runs the full cascade for one query and returns the terminal
// classification with the attempt trace. It never returns an error: network
// failures advance the cascade and end up in the log, and a cancelled context
// short-circuits the remaining endpoints, yielding Exhausted.
func (c *Cascade) Resolve(ctx context.Context, name string, qtype uint16) ResolutionResult {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(name), qtype)
	q.RecursionDesired = true

	var log AttemptLog
	timeout := c.registry.AttemptTimeout()

	for _, endpoints := range [][]Endpoint{c.registry.Standard(), c.registry.DoH()} {
		for _, ep := range endpoints {
			if ctx.Err() != nil {
				c.logger.Debug("cascade aborted", "query", name, "attempts", len(log))
				return ResolutionResult{Kind: ResultExhausted, Log: log}
			}

			start := time.Now()
			var out AttemptOutcome
			switch ep.Kind {
			case KindDoH:
				out = dohAttempt(ctx, c.client, ep, q, timeout)
			default:
				out = standardAttempt(ctx, c.exchanger, ep, q, timeout)
			}
			latency := time.Since(start)

			log = append(log, Attempt{Endpoint: ep, Outcome: out.Kind, Reason: out.Reason, Latency: latency})
			c.logger.Debug("resolution attempt",
				"query", name,
				"endpoint", ep.String(),
				"outcome", out.Kind.String(),
				"reason", out.Reason,
				"latency", latency,
			)

			switch out.Kind {
			case OutcomeAnswer:
				return ResolutionResult{Kind: ResultSuccess, Records: out.Records, Log: log}
			case OutcomeNegativeAnswer:
				return ResolutionResult{Kind: ResultNotFound, Log: log}
			}
			// Transient failure or protocol error: try the next endpoint.
		}
	}

	c.logger.Debug("cascade exhausted", "query", name, "attempts", len(log))
	return ResolutionResult{Kind: ResultExhausted, Log: log}
}
