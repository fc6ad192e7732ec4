package integration

import (
	"context"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reporter persists the outcome of every pull and push as a SyncRun
type Reporter struct {
	runs   integration.SyncRunRepository
	logger *zap.Logger
}

// NewReporter creates a new Reporter
func NewReporter(runs integration.SyncRunRepository, logger *zap.Logger) *Reporter {
	return &Reporter{runs: runs, logger: logger}
}

// RecordPull stores a finished pull. A storage failure is logged and the
// unsaved run is still returned, so the caller can show the result.
func (r *Reporter) RecordPull(ctx context.Context, tenantID uuid.UUID, report *integration.SyncReport) *integration.SyncRun {
	return r.save(ctx, integration.NewPullRun(tenantID, report))
}

// RecordPush stores a finished push
func (r *Reporter) RecordPush(ctx context.Context, tenantID uuid.UUID, report *integration.PushReport) *integration.SyncRun {
	return r.save(ctx, integration.NewPushRun(tenantID, report))
}

// RecordAborted stores a run that failed as a whole
func (r *Reporter) RecordAborted(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, dir integration.SyncDirection, startedAt time.Time, cause error) *integration.SyncRun {
	return r.save(ctx, integration.NewAbortedRun(tenantID, kind, dir, startedAt, cause))
}

func (r *Reporter) save(ctx context.Context, run *integration.SyncRun) *integration.SyncRun {
	if err := r.runs.Save(ctx, run); err != nil {
		r.logger.Error("Failed to store sync run",
			zap.String("run_id", run.ID.String()),
			zap.String("kind", run.Kind.String()),
			zap.Error(err),
		)
	}
	return run
}

// GetRun returns one run of the tenant
func (r *Reporter) GetRun(ctx context.Context, tenantID, id uuid.UUID) (*SyncRunResponse, error) {
	run, err := r.runs.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToSyncRunResponse(run), nil
}

// FindRun returns the domain run, for exports
func (r *Reporter) FindRun(ctx context.Context, tenantID, id uuid.UUID) (*integration.SyncRun, error) {
	return r.runs.FindByID(ctx, tenantID, id)
}

// ListRuns returns the tenant's runs, newest first
func (r *Reporter) ListRuns(ctx context.Context, tenantID uuid.UUID, f SyncRunListFilter) (shared.Paginated[SyncRunListItem], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "started_at"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	runs, total, err := r.runs.FindAll(ctx, tenantID, integration.SyncRunFilter{
		Filter:    filter,
		Kind:      integration.EntityKind(f.Kind),
		Direction: integration.SyncDirection(f.Direction),
		Status:    integration.SyncStatus(f.Status),
	})
	if err != nil {
		return shared.Paginated[SyncRunListItem]{}, err
	}
	return shared.NewPaginated(ToSyncRunListItems(runs), total, filter.Page, filter.PageSize), nil
}
