// Package audit runs every configured monitor against a set of domains and
// collects the findings into a single report.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/worker"
)

// Finding is one monitor's verdict for one domain.
type Finding struct {
	Domain  string          `json:"domain"`
	Monitor string          `json:"monitor"`
	Status  monitors.Status `json:"status"`
	Summary string          `json:"summary"`
	Detail  monitors.Result `json:"detail,omitempty"`
}

// Key identifies a finding's subject across audit runs.
func (f Finding) Key() string {
	return f.Domain + "|" + f.Monitor
}

// Runner executes a fixed set of monitors against domains, fanning domains
// out over a worker pool while keeping each domain's monitors sequential.
type Runner struct {
	monitors []monitors.Monitor
	pool     *worker.Pool
	logger   *slog.Logger
}

// NewRunner creates a runner over the given monitors.
func NewRunner(ms []monitors.Monitor, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		monitors: ms,
		pool:     worker.NewPool(concurrency, logger),
		logger:   logger,
	}
}

// Audit runs every monitor against every domain and returns the findings
// ordered by input order, then monitor order. A monitor failure becomes an
// error finding instead of aborting the audit.
func (r *Runner) Audit(ctx context.Context, domains []string) *Report {
	report := &Report{GeneratedAt: time.Now()}

	inputs := make(chan worker.Input, len(domains))
	for _, d := range domains {
		inputs <- d
	}
	close(inputs)

	results := r.pool.Process(ctx, inputs, func(ctx context.Context, in worker.Input) (interface{}, error) {
		return r.auditDomain(ctx, in.(string)), nil
	})

	byDomain := make(map[string][]Finding, len(domains))
	for res := range results {
		findings := res.Value.([]Finding)
		byDomain[res.Input.(string)] = findings
	}

	for _, d := range domains {
		report.Findings = append(report.Findings, byDomain[d]...)
	}
	return report
}

// auditDomain runs the monitors for one domain, strictly in order.
func (r *Runner) auditDomain(ctx context.Context, domain string) []Finding {
	findings := make([]Finding, 0, len(r.monitors))
	for _, m := range r.monitors {
		start := time.Now()
		f := Finding{Domain: domain, Monitor: m.Name()}

		res, err := m.Run(ctx, domain)
		if err != nil {
			f.Status = monitors.StatusError
			f.Summary = err.Error()
		} else {
			f.Status = res.Status()
			f.Summary = res.Summary()
			f.Detail = res
		}

		r.logger.Debug("monitor finished",
			"domain", domain,
			"monitor", m.Name(),
			"status", f.Status,
			"duration", time.Since(start))
		findings = append(findings, f)
	}
	return findings
}
