// Package headers audits a site's HTTP security response headers and flags
// headers that leak server implementation details.
package headers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/imroc/req/v3"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/output"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// Name is the monitor identifier.
const Name = "headers"

// securityHeaders are checked for presence; each missing one is a warning.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
}

// leakHeaders expose implementation details when present.
var leakHeaders = []string{
	"Server",
	"X-Powered-By",
	"X-AspNet-Version",
}

// Monitor fetches https://<domain>/ and inspects the response headers.
type Monitor struct {
	client *req.Client
	logger *slog.Logger
}

// NewMonitor creates a security headers monitor using the given HTTP client.
func NewMonitor(client *req.Client, logger *slog.Logger) *Monitor {
	return &Monitor{client: client, logger: logger}
}

// Name returns the monitor identifier.
func (m *Monitor) Name() string { return Name }

// AggregateResults combines multiple header results into a MultiResult.
func (m *Monitor) AggregateResults(results []monitors.Result) monitors.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// Run requests the domain over HTTPS and records which security headers are
// present, which are missing, and which headers leak implementation details.
// Unreachable sites are reported in the result, not returned as errors.
func (m *Monitor) Run(ctx context.Context, domain string) (monitors.Result, error) {
	domain = validate.CleanDomain(domain)
	if !validate.IsDomain(domain) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", monitors.ErrInvalidInput, domain)
	}
	result := &Result{Domain: domain}

	resp, err := m.client.R().SetContext(ctx).Head("https://" + domain + "/")
	if err != nil {
		result.Problem = classifyFetchError(err)
		return result, nil
	}
	result.StatusCode = resp.StatusCode

	for _, h := range securityHeaders {
		if v := resp.Header.Get(h); v != "" {
			result.Present = append(result.Present, Header{Name: h, Value: output.StripANSI(v)})
		} else {
			result.Missing = append(result.Missing, h)
		}
	}
	for _, h := range leakHeaders {
		if v := resp.Header.Get(h); v != "" {
			result.Leaking = append(result.Leaking, Header{Name: h, Value: output.StripANSI(v)})
		}
	}
	return result, nil
}

// classifyFetchError distinguishes timeouts from other connection failures.
func classifyFetchError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out"
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timed out"
	}
	return fmt.Sprintf("request failed: %v", err)
}
