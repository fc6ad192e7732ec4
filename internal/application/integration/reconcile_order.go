package integration

import (
	"context"
	"strings"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mergeOrder creates a new order or refreshes the remote-authoritative
// fields of an existing one. ErpStatus and shipment fields stay local.
func (r *Reconciler) mergeOrder(ctx context.Context, tenantID uuid.UUID, ro integration.RemoteOrder) integration.RecordResult {
	details, err := orderDetails(ro)
	if err != nil {
		return skipped(details.RemoteOrderID, err)
	}
	remoteID := details.RemoteOrderID

	existing, err := r.stores.Orders.FindByRemoteID(ctx, tenantID, remoteID)
	if err != nil && !isNotFound(err) {
		return failed(remoteID, err)
	}
	if existing != nil {
		if !existing.RefreshFromRemote(details) {
			return succeeded(remoteID, existing.ID, integration.OutcomeUnchanged)
		}
		if err := r.stores.Orders.Save(ctx, existing); err != nil {
			return failed(remoteID, err)
		}
		return succeeded(remoteID, existing.ID, integration.OutcomeUpdated)
	}

	order, err := trade.NewOrderFromRemote(tenantID, details)
	if err != nil {
		return skipped(remoteID, err)
	}
	if customerID, ok := r.customerForOrder(ctx, tenantID, details); ok {
		order.LinkCustomer(customerID)
	}
	if err := r.stores.Orders.Save(ctx, order); err != nil {
		return failed(remoteID, err)
	}
	return succeeded(remoteID, order.ID, integration.OutcomeCreated)
}

// customerForOrder finds the customer with the order's email, creating one
// from the order's contact details when none exists. Failures only cost the
// link, not the order.
func (r *Reconciler) customerForOrder(ctx context.Context, tenantID uuid.UUID, d trade.OrderDetails) (uuid.UUID, bool) {
	email := d.Customer.Email
	if email == "" {
		return uuid.Nil, false
	}
	customer, err := r.stores.Customers.FindByEmail(ctx, tenantID, email)
	if err == nil {
		return customer.ID, true
	}
	if !isNotFound(err) {
		r.logger.Warn("Customer lookup for order failed", zap.String("remote_order_id", d.RemoteOrderID), zap.Error(err))
		return uuid.Nil, false
	}

	addr := d.ShippingAddress
	if addr.IsEmpty() {
		addr = d.BillingAddress
	}
	first, last := addr.FirstName, addr.LastName
	if first == "" && last == "" {
		first, last, _ = strings.Cut(d.Customer.Name, " ")
	}
	customer, err = partner.NewCustomer(tenantID, partner.Profile{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     d.Customer.Phone,
		Address: partner.Address{
			Line:    addr.Address1,
			City:    addr.City,
			State:   addr.Province,
			Country: addr.Country,
		},
	})
	if err == nil {
		err = r.stores.Customers.Save(ctx, customer)
	}
	if err != nil {
		r.logger.Warn("Could not create customer for order", zap.String("remote_order_id", d.RemoteOrderID), zap.Error(err))
		return uuid.Nil, false
	}
	return customer.ID, true
}
