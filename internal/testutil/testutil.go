// Package testutil provides shared test helpers for monitor and core unit tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/miekg/dns"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewHTTPMockClient returns a req.Client whose transport is intercepted by
// httpmock, with automatic deactivation on test cleanup.
func NewHTTPMockClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

// MockExchanger implements dnscore.Exchanger with a per-address script.
// Fn receives the target resolver address and the query; tests can branch on
// either. Calls records every address contacted, in order.
type MockExchanger struct {
	Fn    func(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
	Calls []string
}

var _ dnscore.Exchanger = (*MockExchanger)(nil)

// ExchangeContext implements dnscore.Exchanger.
func (m *MockExchanger) ExchangeContext(ctx context.Context, q *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	m.Calls = append(m.Calls, addr)
	if m.Fn != nil {
		return m.Fn(ctx, q, addr)
	}
	return nil, 0, context.DeadlineExceeded
}

// MockResolver implements dnscore.Resolver with a scripted result.
// Queries records every query name passed to Resolve, in order.
type MockResolver struct {
	Fn      func(ctx context.Context, name string, qtype uint16) dnscore.ResolutionResult
	Queries []string
}

var _ dnscore.Resolver = (*MockResolver)(nil)

// Resolve implements dnscore.Resolver.
func (m *MockResolver) Resolve(ctx context.Context, name string, qtype uint16) dnscore.ResolutionResult {
	m.Queries = append(m.Queries, name)
	if m.Fn != nil {
		return m.Fn(ctx, name, qtype)
	}
	return dnscore.ResolutionResult{Kind: dnscore.ResultExhausted}
}

// AnswerMsg builds a NOERROR response carrying one A record per address.
func AnswerMsg(name string, addrs ...string) *dns.Msg {
	m := new(dns.Msg)
	m.Response = true
	m.Rcode = dns.RcodeSuccess
	for _, addr := range addrs {
		rr, err := dns.NewRR(name + " 300 IN A " + addr)
		if err != nil {
			panic(err)
		}
		m.Answer = append(m.Answer, rr)
	}
	return m
}

// TXTMsg builds a NOERROR response carrying one TXT record per value.
func TXTMsg(name string, values ...string) *dns.Msg {
	m := new(dns.Msg)
	m.Response = true
	m.Rcode = dns.RcodeSuccess
	for _, v := range values {
		m.Answer = append(m.Answer, &dns.TXT{
			Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 300},
			Txt: []string{v},
		})
	}
	return m
}

// RcodeMsg builds an empty response with the given rcode.
func RcodeMsg(rcode int) *dns.Msg {
	m := new(dns.Msg)
	m.Response = true
	m.Rcode = rcode
	return m
}

// PackMsg packs a message into wire format for DoH responders.
func PackMsg(t *testing.T, m *dns.Msg) []byte {
	t.Helper()
	data, err := m.Pack()
	if err != nil {
		t.Fatalf("packing DNS message: %v", err)
	}
	return data
}

// SuccessResult returns a ResolutionResult carrying one A record per address.
func SuccessResult(name string, addrs ...string) dnscore.ResolutionResult {
	res := dnscore.ResolutionResult{Kind: dnscore.ResultSuccess}
	for _, addr := range addrs {
		res.Records = append(res.Records, dnscore.Record{Name: name, Type: dns.TypeA, TTL: 300, Data: addr})
	}
	return res
}

// TXTResult returns a ResolutionResult carrying one TXT record per value.
func TXTResult(name string, values ...string) dnscore.ResolutionResult {
	res := dnscore.ResolutionResult{Kind: dnscore.ResultSuccess}
	for _, v := range values {
		res.Records = append(res.Records, dnscore.Record{Name: name, Type: dns.TypeTXT, TTL: 300, Data: v})
	}
	return res
}
