// Package monitors defines the shared contract implemented by every
// domainmate monitor: the Monitor interface, the Result interface, and the
// four-way health status each check reports.
package monitors

import (
	"context"

	"github.com/fabriziosalmi/domainmate/internal/apperr"
)

// ErrInvalidInput is re-exported from apperr.
// Use errors.Is(err, monitors.ErrInvalidInput) to detect validation failures
// uniformly across all monitors.
var ErrInvalidInput = apperr.ErrInvalidInput

// ErrRequestFailed is re-exported from apperr.
// Use errors.Is(err, monitors.ErrRequestFailed) to detect request failures
// uniformly across all monitors.
var ErrRequestFailed = apperr.ErrRequestFailed

// Status is the health classification a monitor assigns to one domain.
type Status string

// Monitor status values, ordered from best to worst.
//
// StatusUnknown is not a failure of the monitor itself: it means no
// authoritative answer could be obtained from any channel (e.g. every RBL
// query was blocked). It must never be collapsed into StatusOK.
const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
	StatusError    Status = "error"
)

// severity orders statuses for aggregation; higher wins.
var severity = map[Status]int{
	StatusOK:       0,
	StatusUnknown:  1,
	StatusWarning:  2,
	StatusError:    3,
	StatusCritical: 4,
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// Actionable reports whether a status should trigger a notification.
func (s Status) Actionable() bool {
	return s == StatusWarning || s == StatusCritical || s == StatusUnknown || s == StatusError
}

// Result is the common interface every monitor's Run output must satisfy.
type Result interface {
	IsEmpty() bool
	// Status returns the health classification for aggregation and alerting.
	Status() Status
	// Summary returns a one-line human-readable outcome.
	Summary() string
}

// Monitor is the contract every domainmate monitor must implement.
type Monitor interface {
	Name() string
	Run(ctx context.Context, domain string) (Result, error)
	AggregateResults(results []Result) Result
}
