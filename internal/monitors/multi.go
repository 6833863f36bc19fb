package monitors

import (
	"encoding/json"
	"io"
)

// multiItem constrains the element type stored in MultiResultBase.
type multiItem[T any] interface {
	*T
	IsEmpty() bool
	Status() Status
	Summary() string
	WritePlain(w io.Writer) error
}

// MultiResultBase provides the identical MultiResult methods shared by every
// monitor. Embed it and add WriteTable to complete the output interfaces.
type MultiResultBase[T any, PT multiItem[T]] struct {
	Results []PT
}

// IsEmpty reports whether all contained results are empty.
func (m *MultiResultBase[T, PT]) IsEmpty() bool {
	for _, r := range m.Results {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// Status returns the worst status across all contained results.
func (m *MultiResultBase[T, PT]) Status() Status {
	s := StatusOK
	for _, r := range m.Results {
		s = Worst(s, r.Status())
	}
	return s
}

// Summary returns the summary of the worst contained result.
func (m *MultiResultBase[T, PT]) Summary() string {
	worst := StatusOK
	summary := ""
	for _, r := range m.Results {
		if summary == "" || severity[r.Status()] > severity[worst] {
			worst = r.Status()
			summary = r.Summary()
		}
	}
	return summary
}

// MarshalJSON serializes the multi-result as a JSON array of individual results.
func (m *MultiResultBase[T, PT]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Results)
}

// WritePlain writes all results as plain text (one record per line).
func (m *MultiResultBase[T, PT]) WritePlain(w io.Writer) error {
	for _, r := range m.Results {
		if err := r.WritePlain(w); err != nil {
			return err
		}
	}
	return nil
}
