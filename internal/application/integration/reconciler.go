package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CredentialResolver looks up a tenant's platform credentials. Both methods
// return a *integration.NotConfiguredError when credentials are missing.
type CredentialResolver interface {
	Shopify(ctx context.Context, tenantID uuid.UUID) (integration.ShopifyCredentials, error)
	Shiprocket(ctx context.Context, tenantID uuid.UUID) (integration.ShiprocketCredentials, error)
}

// Stores groups the local repositories that synchronization reads and writes
type Stores struct {
	Products   catalog.ProductRepository
	Categories catalog.CategoryRepository
	Vendors    catalog.VendorRepository
	Customers  partner.CustomerRepository
	Orders     trade.OrderRepository
}

// Reconciler pulls remote records and merges them into the local store
type Reconciler struct {
	client integration.RemoteCatalogClient
	creds  CredentialResolver
	stores Stores
	logger *zap.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(client integration.RemoteCatalogClient, creds CredentialResolver, stores Stores, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		client: client,
		creds:  creds,
		stores: stores,
		logger: logger,
	}
}

// Reconcile fetches the complete remote batch for kind and merges it.
// Nothing is written until the fetch has finished; a fetch failure is
// returned as an error and leaves the local store untouched.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*integration.SyncReport, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownEntityKind, kind)
	}
	creds, err := r.creds.Shopify(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	batch, err := r.client.FetchAll(ctx, creds, kind)
	if err != nil {
		r.logger.Error("Remote fetch failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch %ss: %w", kind, err)
	}

	return r.Merge(ctx, tenantID, kind, batch), nil
}

// Merge folds a fetched batch into the local store. Every record is
// processed independently; failures are reported, never returned.
func (r *Reconciler) Merge(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, batch []integration.RemoteRecord) *integration.SyncReport {
	report := integration.NewSyncReport(kind)
	for _, rec := range batch {
		res := r.mergeRecord(ctx, tenantID, kind, rec)
		if res.Outcome.IsFailure() {
			r.logger.Warn("Record not merged",
				zap.String("kind", kind.String()),
				zap.String("remote_id", res.RemoteID),
				zap.String("outcome", string(res.Outcome)),
				zap.String("reason", res.Reason),
			)
		}
		report.Record(res)
	}
	report.Finish()

	r.logger.Info("Reconciliation finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", kind.String()),
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", report.Failed),
	)
	return report
}

func (r *Reconciler) mergeRecord(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, rec integration.RemoteRecord) integration.RecordResult {
	if rec == nil {
		return integration.RecordResult{Outcome: integration.OutcomeSkipped, Reason: "empty record"}
	}
	if rec.Kind() != kind {
		return skipped(rec.RemoteKey(), fmt.Errorf("expected %s record, got %s", kind, rec.Kind()))
	}
	if rec.RemoteKey() == "" {
		return skipped("", errors.New("record has no remote id"))
	}

	switch v := rec.(type) {
	case integration.RemoteProduct:
		return r.mergeProduct(ctx, tenantID, v)
	case *integration.RemoteProduct:
		return r.mergeProduct(ctx, tenantID, *v)
	case integration.RemoteCustomer:
		return r.mergeCustomer(ctx, tenantID, v)
	case *integration.RemoteCustomer:
		return r.mergeCustomer(ctx, tenantID, *v)
	case integration.RemoteOrder:
		return r.mergeOrder(ctx, tenantID, v)
	case *integration.RemoteOrder:
		return r.mergeOrder(ctx, tenantID, *v)
	}
	return skipped(rec.RemoteKey(), fmt.Errorf("unsupported record type %T", rec))
}

func succeeded(remoteID string, localID uuid.UUID, outcome integration.Outcome) integration.RecordResult {
	return integration.RecordResult{RemoteID: remoteID, LocalID: &localID, Outcome: outcome}
}

func skipped(remoteID string, err error) integration.RecordResult {
	return integration.RecordResult{RemoteID: remoteID, Outcome: integration.OutcomeSkipped, Reason: err.Error()}
}

// failed classifies err: domain validation errors mark the record as
// skipped, anything else (store failures) as failed.
func failed(remoteID string, err error) integration.RecordResult {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return skipped(remoteID, err)
	}
	return integration.RecordResult{RemoteID: remoteID, Outcome: integration.OutcomeFailed, Reason: err.Error()}
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
