// Package manifest implements the durable ledger of per-component migration
// outcomes that makes batch runs crash-recoverable.
//
// Manifest values are immutable: the record operations return a new value
// and never touch the receiver, so a caller holding an older reference (a
// concurrent progress reader, say) is unaffected.
package manifest

import (
	"slices"
	"time"

	"github.com/relift-dev/relift/internal/config"
)

// SchemaVersion is the manifest document schema version.
const SchemaVersion = "1.0.0"

// FailureRecord captures one failed component migration.
type FailureRecord struct {
	Component string `json:"component"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Stack     string `json:"stack,omitempty"`
}

// Manifest is the per-run outcome ledger. Field names follow the fixed
// wire schema consumed by external tooling.
type Manifest struct {
	Successful []string        `json:"successful"`
	Failed     []FailureRecord `json:"failed"`
	Config     config.Config   `json:"config"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    *time.Time      `json:"endTime,omitempty"`

	// DurationMS is the run duration in milliseconds, set at save time.
	DurationMS *int64 `json:"duration,omitempty"`

	Version string `json:"version"`
}

// New returns a fresh manifest with empty outcome lists and the given start
// timestamp.
func New(cfg config.Config, start time.Time) *Manifest {
	return &Manifest{
		Successful: []string{},
		Failed:     []FailureRecord{},
		Config:     cfg,
		StartTime:  start,
		Version:    SchemaVersion,
	}
}

// Succeeded reports whether name is recorded as successfully migrated.
func (m *Manifest) Succeeded(name string) bool {
	return slices.Contains(m.Successful, name)
}

// FailedComponent reports whether name has a failure record.
func (m *Manifest) FailedComponent(name string) bool {
	for _, f := range m.Failed {
		if f.Component == name {
			return true
		}
	}

	return false
}

// RecordSuccess returns a new manifest with name appended to the successful
// list. Any prior failure record for name is dropped, keeping the
// success/failure partition invariant; recording an already-successful name
// is a no-op copy.
func (m *Manifest) RecordSuccess(name string) *Manifest {
	next := m.clone()

	next.Failed = slices.DeleteFunc(next.Failed, func(f FailureRecord) bool {
		return f.Component == name
	})

	if !next.Succeeded(name) {
		next.Successful = append(next.Successful, name)
	}

	return next
}

// RecordFailure returns a new manifest with a failure record appended for
// name at the given timestamp. A prior entry for name in either list is
// replaced, so a forced re-run overwrites the earlier outcome.
func (m *Manifest) RecordFailure(name, errMsg, stack string, at time.Time) *Manifest {
	next := m.clone()

	next.Successful = slices.DeleteFunc(next.Successful, func(s string) bool {
		return s == name
	})
	next.Failed = slices.DeleteFunc(next.Failed, func(f FailureRecord) bool {
		return f.Component == name
	})

	next.Failed = append(next.Failed, FailureRecord{
		Component: name,
		Error:     errMsg,
		Timestamp: at.UTC().Format(time.RFC3339),
		Stack:     stack,
	})

	return next
}

// Finalize returns a copy with EndTime and DurationMS computed against the
// given instant. The receiver is untouched.
func (m *Manifest) Finalize(end time.Time) *Manifest {
	next := m.clone()

	durationMS := end.Sub(m.StartTime).Milliseconds()
	next.EndTime = &end
	next.DurationMS = &durationMS

	return next
}

// clone deep-copies the manifest lists so appends never alias the receiver.
func (m *Manifest) clone() *Manifest {
	next := *m
	next.Successful = slices.Clone(m.Successful)
	next.Failed = slices.Clone(m.Failed)

	return &next
}
