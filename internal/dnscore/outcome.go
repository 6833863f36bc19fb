package dnscore

import "time"

// OutcomeKind classifies one endpoint attempt. Answer and NegativeAnswer are
// authoritative: the resolver was reached and gave a definitive verdict.
// TransientFailure and ProtocolError mean the channel failed; the cascade
// moves on to the next endpoint.
type OutcomeKind int

// Attempt outcome kinds.
const (
	OutcomeAnswer OutcomeKind = iota
	OutcomeNegativeAnswer
	OutcomeTransientFailure
	OutcomeProtocolError
)

// String returns the label used in logs and attempt traces.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAnswer:
		return "answer"
	case OutcomeNegativeAnswer:
		return "negative"
	case OutcomeTransientFailure:
		return "transient"
	case OutcomeProtocolError:
		return "protocol-error"
	default:
		return "unknown"
	}
}

// Authoritative reports whether the outcome is a definitive answer
// (positive or negative) that must stop the cascade.
func (k OutcomeKind) Authoritative() bool {
	return k == OutcomeAnswer || k == OutcomeNegativeAnswer
}

// Record is one resource record from an authoritative positive answer.
type Record struct {
	Name string `json:"name"`
	Type uint16 `json:"type"`
	TTL  uint32 `json:"ttl"`
	Data string `json:"data"`
}

// AttemptOutcome is the classified result of a single endpoint attempt.
// Records is populated only for OutcomeAnswer; Reason only for failures.
// No error ever escapes an attempt wrapper unclassified.
type AttemptOutcome struct {
	Kind    OutcomeKind
	Records []Record
	Reason  string
}

// Attempt is one entry in the diagnostic trace of a cascade invocation.
type Attempt struct {
	Endpoint Endpoint      `json:"endpoint"`
	Outcome  OutcomeKind   `json:"outcome"`
	Reason   string        `json:"reason,omitempty"`
	Latency  time.Duration `json:"latency"`
}

// AttemptLog records every attempt of one cascade invocation in order.
// It is owned by that invocation and never shared across concurrent calls.
type AttemptLog []Attempt

// ResultKind is the terminal classification of a full cascade.
type ResultKind int

// Cascade result kinds. ResultExhausted means no endpoint produced an
// authoritative answer; it is distinct from ResultNotFound, which is a
// definitive negative answer from a reachable resolver.
const (
	ResultSuccess ResultKind = iota
	ResultNotFound
	ResultExhausted
)

// String returns the label used in logs and rendered output.
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultNotFound:
		return "not-found"
	case ResultExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ResolutionResult is the final outcome of one cascade invocation.
type ResolutionResult struct {
	Kind    ResultKind
	Records []Record
	Log     AttemptLog
}

// Values returns the record data fields in answer order.
func (r ResolutionResult) Values() []string {
	if len(r.Records) == 0 {
		return nil
	}
	vals := make([]string, len(r.Records))
	for i, rec := range r.Records {
		vals[i] = rec.Data
	}
	return vals
}
