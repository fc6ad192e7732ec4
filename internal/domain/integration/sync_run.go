package integration

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
)

// SyncDirection tells a pull from a push
type SyncDirection string

const (
	SyncDirectionPull SyncDirection = "pull"
	SyncDirectionPush SyncDirection = "push"
)

// RunFailure is one failed record of a run. Ref is the remote id for pulls
// and the local id for pushes.
type RunFailure struct {
	Ref       string `json:"ref"`
	Reason    string `json:"reason"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// RunFailures is stored as a JSON document
type RunFailures []RunFailure

// Value implements driver.Valuer
func (f RunFailures) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (f *RunFailures) Scan(value any) error {
	if value == nil {
		*f = RunFailures{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RunFailures", value)
	}
	if len(raw) == 0 {
		*f = RunFailures{}
		return nil
	}
	return json.Unmarshal(raw, f)
}

// SyncRun is the persisted record of one pull or push
type SyncRun struct {
	shared.BaseEntity
	TenantID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Kind       EntityKind    `gorm:"type:varchar(20);not null"`
	Direction  SyncDirection `gorm:"type:varchar(10);not null"`
	Status     SyncStatus    `gorm:"type:varchar(10);not null"`
	Total      int           `gorm:"not null;default:0"`
	Created    int           `gorm:"not null;default:0"`
	Updated    int           `gorm:"not null;default:0"`
	Succeeded  int           `gorm:"not null;default:0"`
	Failed     int           `gorm:"not null;default:0"`
	FirstError string        `gorm:"type:text"`
	Failures   RunFailures   `gorm:"type:text"`
	StartedAt  time.Time     `gorm:"not null"`
	FinishedAt time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRun) TableName() string {
	return "sync_runs"
}

// NewPullRun records a finished pull
func NewPullRun(tenantID uuid.UUID, r *SyncReport) *SyncRun {
	failures := make(RunFailures, 0, r.Failed)
	for _, res := range r.Failures() {
		failures = append(failures, RunFailure{Ref: res.RemoteID, Reason: res.Reason, ErrorKind: string(res.Outcome)})
	}
	return &SyncRun{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Kind:       r.Kind,
		Direction:  SyncDirectionPull,
		Status:     r.Status(),
		Total:      r.Total,
		Created:    r.Created,
		Updated:    r.Updated,
		Succeeded:  r.Succeeded(),
		Failed:     r.Failed,
		FirstError: r.FirstError,
		Failures:   failures,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// NewPushRun records a finished push
func NewPushRun(tenantID uuid.UUID, r *PushReport) *SyncRun {
	failures := make(RunFailures, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, RunFailure{Ref: f.LocalID.String(), Reason: f.Reason, ErrorKind: f.ErrorKind})
	}
	return &SyncRun{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Kind:       r.Kind,
		Direction:  SyncDirectionPush,
		Status:     r.Status(),
		Total:      r.Total,
		Created:    r.Created,
		Updated:    r.Updated,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		FirstError: r.FirstError,
		Failures:   failures,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// NewAbortedRun records a run that could not start or was cut short by a
// transport failure
func NewAbortedRun(tenantID uuid.UUID, kind EntityKind, dir SyncDirection, startedAt time.Time, cause error) *SyncRun {
	return &SyncRun{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Kind:       kind,
		Direction:  dir,
		Status:     SyncStatusFailed,
		FirstError: cause.Error(),
		Failures:   RunFailures{},
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
}

// Summary renders the run's one-line result
func (r *SyncRun) Summary() string {
	return Summary(r.Succeeded, r.Failed)
}

// SyncRunFilter narrows a run listing
type SyncRunFilter struct {
	shared.Filter
	Kind      EntityKind
	Direction SyncDirection
	Status    SyncStatus
}

// SyncRunRepository persists sync runs
type SyncRunRepository interface {
	Save(ctx context.Context, run *SyncRun) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SyncRun, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter SyncRunFilter) ([]SyncRun, int64, error)
}
