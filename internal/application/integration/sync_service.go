package integration

import (
	"context"
	"errors"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncService runs user-triggered pulls and pushes. It serializes runs per
// (tenant, kind) through the guard and records every run that reached the
// remote.
type SyncService struct {
	guard      integration.SyncGuard
	reconciler *Reconciler
	pusher     *PushCoordinator
	reporter   *Reporter
	logger     *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	guard integration.SyncGuard,
	reconciler *Reconciler,
	pusher *PushCoordinator,
	reporter *Reporter,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		guard:      guard,
		reconciler: reconciler,
		pusher:     pusher,
		reporter:   reporter,
		logger:     logger,
	}
}

// Pull reconciles every remote record of kind into the local store
func (s *SyncService) Pull(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*SyncRunResponse, error) {
	return s.run(ctx, tenantID, kind, integration.SyncDirectionPull, func(ctx context.Context) (*integration.SyncRun, error) {
		report, err := s.reconciler.Reconcile(ctx, tenantID, kind)
		if err != nil {
			return nil, err
		}
		return s.reporter.RecordPull(ctx, tenantID, report), nil
	})
}

// Push sends the selected records, or all of kind when ids is empty
func (s *SyncService) Push(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, ids []uuid.UUID) (*SyncRunResponse, error) {
	return s.run(ctx, tenantID, kind, integration.SyncDirectionPush, func(ctx context.Context) (*integration.SyncRun, error) {
		report, err := s.pusher.PushAll(ctx, tenantID, kind, ids)
		if err != nil {
			return nil, err
		}
		return s.reporter.RecordPush(ctx, tenantID, report), nil
	})
}

// PushOne sends a single record
func (s *SyncService) PushOne(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, id uuid.UUID) (*SyncRunResponse, error) {
	return s.run(ctx, tenantID, kind, integration.SyncDirectionPush, func(ctx context.Context) (*integration.SyncRun, error) {
		report, err := s.pusher.PushOne(ctx, tenantID, kind, id)
		if err != nil {
			return nil, err
		}
		return s.reporter.RecordPush(ctx, tenantID, report), nil
	})
}

func (s *SyncService) run(
	ctx context.Context,
	tenantID uuid.UUID,
	kind integration.EntityKind,
	dir integration.SyncDirection,
	fn func(ctx context.Context) (*integration.SyncRun, error),
) (*SyncRunResponse, error) {
	if !kind.IsValid() {
		return nil, integration.ErrUnknownEntityKind
	}
	if dir == integration.SyncDirectionPush && !kind.Pushable() {
		return nil, integration.ErrPushUnsupportedKind
	}

	release, err := s.guard.Acquire(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	// A started run is not cancelled when the client goes away
	ctx = context.WithoutCancel(ctx)
	startedAt := time.Now()

	ctx, span := telemetry.StartServiceSpan(ctx, "sync", string(dir),
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrEntityKind, string(kind),
		telemetry.SpanAttrDirection, string(dir),
	)
	defer span.End()

	run, err := fn(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		if !errors.Is(err, integration.ErrPlatformNotConfigured) {
			s.reporter.RecordAborted(ctx, tenantID, kind, dir, startedAt, err)
		}
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRunID, run.ID,
		telemetry.SpanAttrFetched, run.Total,
		telemetry.SpanAttrCreated, run.Created,
		telemetry.SpanAttrUpdated, run.Updated,
		telemetry.SpanAttrFailed, run.Failed,
	)
	return ToSyncRunResponse(run), nil
}
