package integration

import (
	"context"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/google/uuid"
)

// mergeCustomer creates or refreshes one customer. The local customer code
// is never touched, and blank remote address parts keep the local ones.
func (r *Reconciler) mergeCustomer(ctx context.Context, tenantID uuid.UUID, rc integration.RemoteCustomer) integration.RecordResult {
	metrics, err := customerMetrics(rc)
	if err != nil {
		return skipped(rc.ID, err)
	}
	profile := customerProfile(rc)

	customer, err := r.stores.Customers.FindByRemoteID(ctx, tenantID, rc.ID)
	if err != nil && !isNotFound(err) {
		return failed(rc.ID, err)
	}

	outcome := integration.OutcomeUpdated
	if customer == nil {
		outcome = integration.OutcomeCreated
		customer, err = partner.NewCustomer(tenantID, profile)
		if err != nil {
			return skipped(rc.ID, err)
		}
		if err := customer.AssignRemoteID(rc.ID); err != nil {
			return skipped(rc.ID, err)
		}
		customer.ApplyRemoteMetrics(metrics)
	} else {
		profileChanged := customer.MergeRemoteProfile(profile)
		metricsChanged := customer.ApplyRemoteMetrics(metrics)
		if !profileChanged && !metricsChanged {
			return succeeded(rc.ID, customer.ID, integration.OutcomeUnchanged)
		}
	}

	if err := r.stores.Customers.Save(ctx, customer); err != nil {
		return failed(rc.ID, err)
	}
	return succeeded(rc.ID, customer.ID, outcome)
}
