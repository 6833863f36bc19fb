// Package domainexp checks a domain's registration expiry through the RDAP
// bootstrap service.
package domainexp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// Name is the monitor identifier.
const Name = "expiry"

// DefaultBaseURL is the public RDAP bootstrap redirector.
const DefaultBaseURL = "https://rdap.org"

// Expiry thresholds in days.
const (
	warningDays  = 30
	criticalDays = 7
)

// Rate limit for the shared public RDAP service.
const (
	DefaultRPS   = 2
	DefaultBurst = 1
)

// Monitor queries RDAP for a domain's registration data.
type Monitor struct {
	client  *req.Client
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewMonitor creates an expiry monitor. baseURL may be empty for the public
// RDAP bootstrap service.
func NewMonitor(client *req.Client, baseURL string, logger *slog.Logger) *Monitor {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Monitor{client: client, baseURL: baseURL, logger: logger, now: time.Now}
}

// Name returns the monitor identifier.
func (m *Monitor) Name() string { return Name }

// AggregateResults combines multiple expiry results into a MultiResult.
func (m *Monitor) AggregateResults(results []monitors.Result) monitors.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// rdapResponse is the subset of an RDAP domain object this monitor reads.
type rdapResponse struct {
	Events   []rdapEvent  `json:"events"`
	Entities []rdapEntity `json:"entities"`
}

type rdapEvent struct {
	Action string    `json:"eventAction"`
	Date   time.Time `json:"eventDate"`
}

type rdapEntity struct {
	Roles      []string     `json:"roles"`
	VCardArray []any        `json:"vcardArray"`
	Entities   []rdapEntity `json:"entities"`
}

// Run queries RDAP for the domain's registration and reports the remaining
// lifetime and registrar. Lookups are performed against the parent domain, so
// subdomain inputs still resolve to their registration. RDAP failures are
// reported in the result, not returned as errors.
func (m *Monitor) Run(ctx context.Context, domain string) (monitors.Result, error) {
	domain = validate.CleanDomain(domain)
	if !validate.IsDomain(domain) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", monitors.ErrInvalidInput, domain)
	}
	registered := validate.ParentDomain(domain)
	result := &Result{Domain: registered}

	var rdap rdapResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetSuccessResult(&rdap).
		Get(m.baseURL + "/domain/" + registered)
	if err != nil {
		result.Problem = fmt.Sprintf("RDAP request failed: %v", err)
		return result, nil
	}
	if resp.StatusCode == 404 {
		result.Problem = "no RDAP registration found"
		return result, nil
	}
	if !resp.IsSuccessState() {
		result.Problem = fmt.Sprintf("RDAP server returned HTTP %d", resp.StatusCode)
		return result, nil
	}

	for _, ev := range rdap.Events {
		if ev.Action == "expiration" {
			result.ExpiresAt = ev.Date
			result.DaysLeft = int(ev.Date.Sub(m.now()).Hours() / 24)
			break
		}
	}
	if result.ExpiresAt.IsZero() {
		result.Problem = "registration data carries no expiration event"
		return result, nil
	}

	result.Registrar = registrarName(rdap.Entities)
	return result, nil
}

// registrarName walks the RDAP entity tree for the registrar's vCard FN.
func registrarName(entities []rdapEntity) string {
	for _, e := range entities {
		for _, role := range e.Roles {
			if role == "registrar" {
				if name := vcardFN(e.VCardArray); name != "" {
					return name
				}
			}
		}
		if name := registrarName(e.Entities); name != "" {
			return name
		}
	}
	return ""
}

// vcardFN extracts the FN property from a jCard array
// (["vcard", [["fn", {}, "text", "Example Registrar"], ...]]).
func vcardFN(vcard []any) string {
	if len(vcard) < 2 {
		return ""
	}
	props, ok := vcard[1].([]any)
	if !ok {
		return ""
	}
	for _, p := range props {
		prop, ok := p.([]any)
		if !ok || len(prop) < 4 {
			continue
		}
		if name, ok := prop[0].(string); !ok || name != "fn" {
			continue
		}
		if value, ok := prop[3].(string); ok {
			return value
		}
	}
	return ""
}
