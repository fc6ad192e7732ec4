package trade

import (
	"context"
	"strings"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Payment methods understood by the courier
const (
	PaymentPrepaid = "Prepaid"
	PaymentCOD     = "COD"
)

// ErrShipmentExists is returned when the order was already handed to the courier
var ErrShipmentExists = shared.NewDomainError("SHIPMENT_EXISTS", "Order already has a shipment")

// ErrOrderNotShippable is returned for orders that cannot be shipped
var ErrOrderNotShippable = shared.NewDomainError("ORDER_NOT_SHIPPABLE", "Order cannot be shipped in its current state")

// ShippingCredentials resolves the tenant's courier account
type ShippingCredentials interface {
	Shiprocket(ctx context.Context, tenantID uuid.UUID) (integration.ShiprocketCredentials, error)
}

// OrderService handles order-related business operations. Orders are
// created only by synchronization; locally only the ERP status and the
// shipment fields change.
type OrderService struct {
	orderRepo trade.OrderRepository
	creds     ShippingCredentials
	shipping  integration.ShippingGateway
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, creds ShippingCredentials, shipping integration.ShippingGateway, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		creds:     creds,
		shipping:  shipping,
		logger:    logger,
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "placed_at"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.ErpStatus != "" {
		f.Filters["erp_status"] = filter.ErpStatus
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return shared.Paginated[OrderResponse]{}, shared.NewDomainError("INVALID_INPUT", "customer_id must be a UUID")
		}
		f.Filters["customer_id"] = customerID
	}
	if filter.From != nil {
		f.Filters["placed_from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["placed_to"] = filter.To.AddDate(0, 0, 1)
	}

	orders, total, err := s.orderRepo.FindAll(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, f.Page, f.PageSize), nil
}

// UpdateErpStatus moves the order to the requested ERP status
func (s *OrderService) UpdateErpStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateErpStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	from := order.ErpStatus
	if err := order.UpdateErpStatus(trade.ErpStatus(strings.ToLower(req.Status))); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateLocalFields(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order ERP status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", order.ErpStatus.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

// CreateShipment hands the order to the courier and records the result
func (s *OrderService) CreateShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create_shipment",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrOrderID, orderID,
	)
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShipmentRef != "" {
		return nil, ErrShipmentExists
	}
	if order.ErpStatus == trade.ErpStatusCancelled || order.ErpStatus == trade.ErpStatusDelivered {
		return nil, ErrOrderNotShippable
	}
	if !order.ShippingAddress.IsComplete() {
		return nil, trade.ErrIncompleteShipping
	}

	creds, err := s.creds.Shiprocket(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result, err := s.shipping.CreateShipment(ctx, creds, ShipmentRequestFor(order))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Shipment creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	order.RecordShipment(result.Status, result.ShipmentRef)
	if err := s.orderRepo.UpdateLocalFields(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment created",
		zap.String("order_id", order.ID.String()),
		zap.String("shipment_ref", result.ShipmentRef),
		zap.String("status", result.Status),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

// ShipmentRequestFor builds the courier payload for an order
func ShipmentRequestFor(o *trade.Order) integration.ShipmentRequest {
	items := make([]integration.ShipmentItem, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		name := item.Title
		if item.VariantTitle != "" && item.VariantTitle != "Default Title" {
			name += " - " + item.VariantTitle
		}
		items = append(items, integration.ShipmentItem{
			Name:  name,
			SKU:   item.SKU,
			Units: item.Quantity,
			Price: item.Price,
		})
	}

	method := PaymentCOD
	if strings.EqualFold(o.PaymentStatus, "paid") {
		method = PaymentPrepaid
	}

	ref := strings.TrimPrefix(o.Name, "#")
	if ref == "" {
		ref = o.RemoteOrderID
	}

	placed := o.CreatedAt
	if o.PlacedAt != nil {
		placed = *o.PlacedAt
	}

	customer := o.ShippingAddress
	if customer.Phone == "" {
		customer.Phone = o.CustomerDetails.Phone
	}

	return integration.ShipmentRequest{
		OrderRef:      ref,
		OrderDate:     placed,
		PaymentMethod: method,
		Customer:      customer,
		Email:         o.CustomerDetails.Email,
		Items:         items,
		SubTotal:      o.SubtotalPrice,
		ShippingTotal: o.TotalShipping,
	}
}
