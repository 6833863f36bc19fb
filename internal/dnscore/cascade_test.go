package dnscore_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/testutil"
)

const dohURL = "https://doh.test/dns-query"

func newTestRegistry(t *testing.T) *dnscore.Registry {
	t.Helper()
	reg, err := dnscore.NewRegistry(
		[]string{"192.0.2.1", "192.0.2.2", "192.0.2.3"},
		[]string{dohURL},
		250*time.Millisecond,
	)
	require.NoError(t, err)
	return reg
}

// wireResponder replies to every DoH request with the given wire data.
func wireResponder(data []byte) httpmock.Responder {
	return func(_ *http.Request) (*http.Response, error) {
		return httpmock.NewBytesResponse(http.StatusOK, data), nil
	}
}

func TestResolve_FirstAnswerWins(t *testing.T) {
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, q *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			resp := testutil.AnswerMsg("example.com.", "93.184.216.34")
			resp.SetRcode(q, dns.RcodeSuccess)
			return resp, 0, nil
		},
	}
	client := testutil.NewHTTPMockClient(t)

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultSuccess, res.Kind)
	assert.Equal(t, []string{"93.184.216.34"}, res.Values())
	// First endpoint answered: nothing else may be contacted.
	assert.Equal(t, []string{"192.0.2.1:53"}, exch.Calls)
	assert.Len(t, res.Log, 1)
	assert.Equal(t, 0, httpmock.GetTotalCallCount(), "DoH must not be contacted")
}

func TestResolve_NegativeAnswerStopsCascade(t *testing.T) {
	// Scenario: first standard endpoint returns NXDOMAIN immediately.
	// The negative answer is authoritative; attempt count must be exactly 1.
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return testutil.RcodeMsg(dns.RcodeNameError), 0, nil
		},
	}
	client := testutil.NewHTTPMockClient(t)

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "absent.example", dns.TypeA)

	assert.Equal(t, dnscore.ResultNotFound, res.Kind)
	assert.Empty(t, res.Records)
	assert.Equal(t, []string{"192.0.2.1:53"}, exch.Calls)
	require.Len(t, res.Log, 1)
	assert.Equal(t, dnscore.OutcomeNegativeAnswer, res.Log[0].Outcome)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestResolve_EmptyNoErrorIsNegative(t *testing.T) {
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return testutil.RcodeMsg(dns.RcodeSuccess), 0, nil
		},
	}
	client := testutil.NewHTTPMockClient(t)

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "nodata.example", dns.TypeAAAA)

	assert.Equal(t, dnscore.ResultNotFound, res.Kind)
	assert.Len(t, res.Log, 1)
}

func TestResolve_StandardFailuresFallBackToDoH(t *testing.T) {
	// Scenario: every standard endpoint times out; DoH answers.
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return nil, 0, context.DeadlineExceeded
		},
	}
	client := testutil.NewHTTPMockClient(t)
	answer := testutil.PackMsg(t, testutil.AnswerMsg("example.com.", "203.0.113.7"))
	httpmock.RegisterResponder(http.MethodGet, "=~^"+dohURL, wireResponder(answer))

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultSuccess, res.Kind)
	assert.Equal(t, []string{"203.0.113.7"}, res.Values())
	// All three standard endpoints were tried first, in configuration order.
	assert.Equal(t, []string{"192.0.2.1:53", "192.0.2.2:53", "192.0.2.3:53"}, exch.Calls)
	require.Len(t, res.Log, 4)
	for _, attempt := range res.Log[:3] {
		assert.Equal(t, dnscore.OutcomeTransientFailure, attempt.Outcome)
		assert.Equal(t, "network timeout", attempt.Reason)
	}
	assert.Equal(t, dnscore.OutcomeAnswer, res.Log[3].Outcome)
	assert.Equal(t, dnscore.KindDoH, res.Log[3].Endpoint.Kind)
}

func TestResolve_AllChannelsExhausted(t *testing.T) {
	// Scenario: standard endpoints all time out, DoH returns HTTP 5xx.
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return nil, 0, context.DeadlineExceeded
		},
	}
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "=~^"+dohURL,
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream error"))

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultExhausted, res.Kind)
	require.Len(t, res.Log, 4)
	// A DoH server-side error is a transient failure, not a protocol error:
	// the channel is unreachable, not returning a malformed answer.
	assert.Equal(t, dnscore.OutcomeTransientFailure, res.Log[3].Outcome)
	assert.Equal(t, "HTTP 502", res.Log[3].Reason)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "at least one DoH endpoint must be attempted before Exhausted")
}

func TestResolve_ServfailAdvancesToNextEndpoint(t *testing.T) {
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
			if addr == "192.0.2.1:53" {
				return testutil.RcodeMsg(dns.RcodeServerFailure), 0, nil
			}
			return testutil.AnswerMsg("example.com.", "93.184.216.34"), 0, nil
		},
	}
	client := testutil.NewHTTPMockClient(t)

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultSuccess, res.Kind)
	assert.Equal(t, []string{"192.0.2.1:53", "192.0.2.2:53"}, exch.Calls)
	require.Len(t, res.Log, 2)
	assert.Equal(t, dnscore.OutcomeTransientFailure, res.Log[0].Outcome)
	assert.Equal(t, "server failure", res.Log[0].Reason)
}

func TestResolve_MalformedDoHBodyIsProtocolError(t *testing.T) {
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return nil, 0, context.DeadlineExceeded
		},
	}
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodGet, "=~^"+dohURL,
		httpmock.NewStringResponder(http.StatusOK, "this is not a DNS message"))

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultExhausted, res.Kind)
	require.Len(t, res.Log, 4)
	assert.Equal(t, dnscore.OutcomeProtocolError, res.Log[3].Outcome)
}

func TestResolve_ContextCancelledShortCircuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exch := &testutil.MockExchanger{}
	client := testutil.NewHTTPMockClient(t)

	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())
	res := c.Resolve(ctx, "example.com", dns.TypeA)

	assert.Equal(t, dnscore.ResultExhausted, res.Kind)
	assert.Empty(t, exch.Calls, "no attempt may be issued after cancellation")
	assert.Empty(t, res.Log)
}

func TestResolve_Idempotent(t *testing.T) {
	// Fixed deterministic endpoint behaviour: repeated identical calls must
	// produce identical classifications and identical attempt counts.
	exch := &testutil.MockExchanger{
		Fn: func(_ context.Context, _ *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
			if addr == "192.0.2.3:53" {
				return testutil.AnswerMsg("example.com.", "198.51.100.5"), 0, nil
			}
			return nil, 0, context.DeadlineExceeded
		},
	}
	client := testutil.NewHTTPMockClient(t)
	c := dnscore.NewCascade(newTestRegistry(t), exch, client, testutil.NopLogger())

	first := c.Resolve(context.Background(), "example.com", dns.TypeA)
	second := c.Resolve(context.Background(), "example.com", dns.TypeA)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Values(), second.Values())
	assert.Len(t, first.Log, 3)
	assert.Len(t, second.Log, 3)
}

func TestResolve_TimeoutBoundsAttempt(t *testing.T) {
	reg, err := dnscore.NewRegistry([]string{"192.0.2.1"}, nil, 50*time.Millisecond)
	require.NoError(t, err)

	// The exchanger honours ctx like a real dns.Client: it blocks until the
	// per-attempt deadline fires.
	exch := &testutil.MockExchanger{
		Fn: func(ctx context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			<-ctx.Done()
			return nil, 0, ctx.Err()
		},
	}
	client := testutil.NewHTTPMockClient(t)
	c := dnscore.NewCascade(reg, exch, client, testutil.NopLogger())

	start := time.Now()
	res := c.Resolve(context.Background(), "example.com", dns.TypeA)
	elapsed := time.Since(start)

	assert.Equal(t, dnscore.ResultExhausted, res.Kind)
	require.Len(t, res.Log, 1)
	assert.Equal(t, dnscore.OutcomeTransientFailure, res.Log[0].Outcome)
	assert.Equal(t, "network timeout", res.Log[0].Reason)
	assert.Less(t, elapsed, 500*time.Millisecond, "attempt must be abandoned at the per-attempt timeout")
}
