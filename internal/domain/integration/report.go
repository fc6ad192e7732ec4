package integration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncStatus represents the status of a sync run
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusPartial SyncStatus = "PARTIAL"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// Outcome is what happened to one record during a pull
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped marks an invalid record; it counts as a failure
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// IsFailure reports whether the outcome counts against the run
func (o Outcome) IsFailure() bool {
	return o == OutcomeSkipped || o == OutcomeFailed
}

// RecordResult is the outcome for one remote record
type RecordResult struct {
	RemoteID string     `json:"remote_id"`
	LocalID  *uuid.UUID `json:"local_id,omitempty"`
	Outcome  Outcome    `json:"outcome"`
	Reason   string     `json:"reason,omitempty"`
}

// SyncReport summarizes a pull. It is filled by a single goroutine.
type SyncReport struct {
	Kind       EntityKind     `json:"kind"`
	Total      int            `json:"total"`
	Created    int            `json:"created"`
	Updated    int            `json:"updated"`
	Unchanged  int            `json:"unchanged"`
	Failed     int            `json:"failed"`
	FirstError string         `json:"first_error,omitempty"`
	Results    []RecordResult `json:"results"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// NewSyncReport starts a report for kind
func NewSyncReport(kind EntityKind) *SyncReport {
	return &SyncReport{
		Kind:      kind,
		Results:   make([]RecordResult, 0),
		StartedAt: time.Now(),
	}
}

// Record adds one record's outcome
func (r *SyncReport) Record(res RecordResult) {
	r.Total++
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Unchanged++
	default:
		r.Failed++
		if r.FirstError == "" {
			r.FirstError = fmt.Sprintf("%s: %s", res.RemoteID, res.Reason)
		}
	}
	r.Results = append(r.Results, res)
}

// Finish stamps the end time
func (r *SyncReport) Finish() {
	r.FinishedAt = time.Now()
}

// Succeeded counts records that were merged
func (r *SyncReport) Succeeded() int {
	return r.Created + r.Updated + r.Unchanged
}

// Status derives the run status from the counts
func (r *SyncReport) Status() SyncStatus {
	return statusOf(r.Succeeded(), r.Failed)
}

// Failures returns only the failed results
func (r *SyncReport) Failures() []RecordResult {
	out := make([]RecordResult, 0, r.Failed)
	for _, res := range r.Results {
		if res.Outcome.IsFailure() {
			out = append(out, res)
		}
	}
	return out
}

// PushFailure records why one local record could not be pushed
type PushFailure struct {
	LocalID   uuid.UUID `json:"local_id"`
	Reason    string    `json:"reason"`
	ErrorKind string    `json:"error_kind,omitempty"`
}

// PushReport summarizes a push
type PushReport struct {
	Kind       EntityKind    `json:"kind"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	FirstError string        `json:"first_error,omitempty"`
	Failures   []PushFailure `json:"failures"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// NewPushReport starts a report for kind
func NewPushReport(kind EntityKind) *PushReport {
	return &PushReport{
		Kind:      kind,
		Failures:  make([]PushFailure, 0),
		StartedAt: time.Now(),
	}
}

// RecordSuccess counts a pushed record; created tells create from update
func (r *PushReport) RecordSuccess(created bool) {
	r.Total++
	r.Succeeded++
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

// RecordFailure counts a failed record
func (r *PushReport) RecordFailure(f PushFailure) {
	r.Total++
	r.Failed++
	if r.FirstError == "" {
		r.FirstError = f.Reason
	}
	r.Failures = append(r.Failures, f)
}

// Finish stamps the end time
func (r *PushReport) Finish() {
	r.FinishedAt = time.Now()
}

// Status derives the run status from the counts
func (r *PushReport) Status() SyncStatus {
	return statusOf(r.Succeeded, r.Failed)
}

func statusOf(succeeded, failed int) SyncStatus {
	switch {
	case failed == 0:
		return SyncStatusSuccess
	case succeeded == 0:
		return SyncStatusFailed
	default:
		return SyncStatusPartial
	}
}

// Summary renders the one-line message shown after a run
func Summary(succeeded, failed int) string {
	return fmt.Sprintf("%d succeeded, %d failed", succeeded, failed)
}
